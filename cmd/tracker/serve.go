package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/educationaltr/study-tracker/config"
	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/internal/infrastructure/auth"
	"github.com/educationaltr/study-tracker/internal/infrastructure/persistence/redis"
	"github.com/educationaltr/study-tracker/internal/infrastructure/scheduler"
	"github.com/educationaltr/study-tracker/internal/infrastructure/scheduler/jobs"
	apihttp "github.com/educationaltr/study-tracker/internal/interface/http"
	"github.com/educationaltr/study-tracker/internal/interface/http/handlers"
	"github.com/educationaltr/study-tracker/pkg/circuitbreaker"
	"github.com/educationaltr/study-tracker/pkg/logger"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

func serve(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIG, LOGGER, STORE
	// ─────────────────────────────────────────────────────────────────────────
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	cfg, log := a.cfg, a.log
	log.Info("starting study tracker",
		slog.String("version", cfg.App.Version),
		slog.String("driver", cfg.Database.Driver),
		slog.String("timezone", cfg.App.Timezone),
	)

	clock, err := timeutil.NewClock(cfg.App.Timezone)
	if err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. SCHEMA AND DEFAULT ADMIN
	// ─────────────────────────────────────────────────────────────────────────
	ran, err := a.store.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date", slog.Int("applied", ran))

	if _, err := a.seedAdmin(ctx); err != nil {
		return err
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. LEADERBOARD CACHE (optional)
	// ─────────────────────────────────────────────────────────────────────────
	metrics := apihttp.NewMetrics()

	var (
		cache       leaderboard.Cache
		cachePinger handlers.Pinger
	)
	if cfg.Redis.Enabled {
		client, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, leaderboards served from the database", logger.Err(err))
		} else {
			defer client.Close()
			cachePinger = client
			cache = newGuardedCache(client, cfg.Redis, metrics, log)
			log.Info("redis connection established", slog.String("addr", cfg.Redis.Addr))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. BACKGROUND JOBS
	// ─────────────────────────────────────────────────────────────────────────
	if cache != nil && cfg.Features.IsEnabled(config.FeatureLeaderboardCache) && cfg.Redis.LeaderboardRefresh > 0 {
		sched := scheduler.New(scheduler.Config{
			Logger:     log,
			RunOnStart: true,
			OnJobComplete: func(r scheduler.JobResult) {
				metrics.ObserveJob(r.JobName, r.Success())
			},
		})
		job := jobs.NewRefreshLeaderboardJob(a.store.Leaderboard, cache, log)
		if err := sched.Register(job, scheduler.Every(cfg.Redis.LeaderboardRefresh)); err != nil {
			return err
		}
		if err := sched.Start(ctx); err != nil {
			return err
		}
		defer func() { _ = sched.Stop() }()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	deps := apihttp.NewDependencies(apihttp.Components{
		Config:  cfg,
		Store:   a.store,
		Cache:   cache,
		Hasher:  auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens:  auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL),
		Clock:   clock,
		Metrics: metrics,
		Health:  apihttp.NewHealthChecker(cfg.App.Version, a.store, cachePinger),
		Logger:  log,
	})
	server := apihttp.NewServer(cfg.HTTP, deps)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	if err := <-errCh; err != nil {
		return err
	}

	log.Info("study tracker stopped", slog.Duration("uptime", server.Uptime()))
	return nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rcfg := redis.DefaultConfig(cfg.Addr)
	rcfg.Password = cfg.Password
	rcfg.DB = cfg.DB
	return redis.NewClient(ctx, rcfg)
}

// newGuardedCache puts the Redis leaderboard cache behind a circuit breaker
// whose state is exported as a gauge.
func newGuardedCache(client *redis.Client, cfg config.RedisConfig, metrics *apihttp.Metrics, log *slog.Logger) leaderboard.Cache {
	ttl := cfg.LeaderboardTTL
	if ttl <= 0 {
		ttl = redis.DefaultLeaderboardTTL
	}

	breaker := circuitbreaker.CacheBreaker("leaderboard_cache", cfg.BreakerThreshold, cfg.BreakerTimeout,
		func(name string, from, to circuitbreaker.State) {
			metrics.SetCacheState(name, int(to))
			log.Warn("cache circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
		circuitbreaker.WithIsFailure(redis.IsCacheFailure),
	)
	metrics.SetCacheState(breaker.Name(), int(circuitbreaker.StateClosed))

	return redis.NewGuardedCache(redis.NewLeaderboardCache(client, ttl), breaker)
}

