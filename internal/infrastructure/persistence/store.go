// Package persistence opens the configured storage backend and exposes its
// repositories behind the domain interfaces.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"

	"github.com/educationaltr/study-tracker/config"
	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/internal/domain/schedule"
	"github.com/educationaltr/study-tracker/internal/domain/student"
	"github.com/educationaltr/study-tracker/internal/domain/study"
	"github.com/educationaltr/study-tracker/internal/infrastructure/persistence/postgres"
	"github.com/educationaltr/study-tracker/internal/infrastructure/persistence/sqlite"
	"github.com/educationaltr/study-tracker/pkg/logger"
)

// Store bundles the repositories of one backend.
type Store struct {
	Driver string

	Students    student.Repository
	Streaks     student.StreakRepository
	Study       study.Repository
	Stats       study.StatsRepository
	Schedules   schedule.Repository
	Leaderboard leaderboard.Repository

	ping     func(context.Context) error
	close    func() error
	migrate  func(context.Context) (int, error)
	rollback func(context.Context) error
}

// ErrRollbackUnsupported is returned by Rollback on backends without down migrations.
var ErrRollbackUnsupported = errors.New("rollback is not supported by this backend")

// Open connects to the backend named by cfg.Driver, retrying the connection
// cfg.ConnectAttempts times. It does not run migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *slog.Logger) (*Store, error) {
	var store *Store

	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	err := retry.Do(
		func() error {
			var err error
			store, err = open(ctx, cfg)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(cfg.ConnectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxDelay(30*time.Second),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("database not ready, retrying",
				slog.String("driver", cfg.Driver),
				slog.Uint64("attempt", uint64(n+1)),
				logger.Err(err),
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}
	return store, nil
}

func open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(db), nil

	case config.DriverPostgres:
		pgCfg := postgres.DefaultConfig(cfg.URL)
		pgCfg.MaxConns = cfg.MaxConns
		pgCfg.MinConns = cfg.MinConns
		pgCfg.MaxConnLifetime = cfg.ConnMaxLifetime
		pgCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime

		conn, err := postgres.NewConnection(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(conn), nil

	default:
		return nil, retry.Unrecoverable(fmt.Errorf("unknown database driver %q", cfg.Driver))
	}
}

// NewSQLiteStore wires the SQLite repositories.
func NewSQLiteStore(db *sqlite.DB) *Store {
	students := sqlite.NewStudentRepository(db)
	studyRepo := sqlite.NewStudyRepository(db)
	return &Store{
		Driver:      config.DriverSQLite,
		Students:    students,
		Streaks:     students,
		Study:       studyRepo,
		Stats:       studyRepo,
		Schedules:   sqlite.NewScheduleRepository(db),
		Leaderboard: sqlite.NewLeaderboardRepository(db),
		ping:        db.Ping,
		close:       db.Close,
		migrate:     db.Migrate,
	}
}

// NewPostgresStore wires the Postgres repositories.
func NewPostgresStore(conn *postgres.Connection) *Store {
	students := postgres.NewStudentRepository(conn)
	studyRepo := postgres.NewStudyRepository(conn)
	migrator := postgres.NewMigrator(conn)
	return &Store{
		Driver:      config.DriverPostgres,
		Students:    students,
		Streaks:     students,
		Study:       studyRepo,
		Stats:       studyRepo,
		Schedules:   postgres.NewScheduleRepository(conn),
		Leaderboard: postgres.NewLeaderboardRepository(conn),
		ping:        conn.Ping,
		close:       conn.Close,
		migrate:     migrator.Migrate,
		rollback:    migrator.Rollback,
	}
}

// Migrate applies pending schema migrations and returns how many ran.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	return s.migrate(ctx)
}

// Rollback reverts the most recent migration.
func (s *Store) Rollback(ctx context.Context) error {
	if s.rollback == nil {
		return fmt.Errorf("%s: %w", s.Driver, ErrRollbackUnsupported)
	}
	return s.rollback(ctx)
}

// Ping checks the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close() error {
	return s.close()
}
