package http

import (
	"log/slog"

	"github.com/educationaltr/study-tracker/config"
	"github.com/educationaltr/study-tracker/internal/application/command"
	"github.com/educationaltr/study-tracker/internal/application/query"
	"github.com/educationaltr/study-tracker/internal/domain/leaderboard"
	"github.com/educationaltr/study-tracker/internal/infrastructure/auth"
	"github.com/educationaltr/study-tracker/internal/infrastructure/persistence"
	"github.com/educationaltr/study-tracker/internal/interface/http/handlers"
	"github.com/educationaltr/study-tracker/pkg/timeutil"
)

// Components are the infrastructure pieces the API is built from.
type Components struct {
	Config *config.Config
	Store  *persistence.Store

	// Cache may be nil when Redis is disabled.
	Cache leaderboard.Cache

	Hasher  command.PasswordHasher
	Tokens  *auth.JWTIssuer
	Clock   timeutil.Clock
	Metrics *Metrics
	Health  handlers.HealthChecker
	Logger  *slog.Logger
}

// NewDependencies builds every command and query handler on top of c.
func NewDependencies(c Components) Dependencies {
	features := c.Config.Features
	registration := func() bool { return features.IsEnabled(config.FeatureRegistration) }
	warnings := func() bool { return features.IsEnabled(config.FeatureStreakWarnings) }

	var cache leaderboard.Cache
	if c.Cache != nil && features.IsEnabled(config.FeatureLeaderboardCache) {
		cache = c.Cache
	}

	var observer command.StreakObserver
	if c.Metrics != nil {
		observer = c.Metrics
	}

	s := c.Store
	return Dependencies{
		RegisterStudent: command.NewRegisterStudentHandler(s.Students, c.Hasher, registration, c.Logger),
		Authenticate:    command.NewAuthenticateHandler(s.Students, c.Hasher, c.Tokens),
		RecordSession:   command.NewRecordSessionHandler(s.Students, s.Streaks, s.Study, cache, observer, c.Clock, c.Logger),
		AddExam:         command.NewAddExamHandler(s.Study),
		DeleteRecord:    command.NewDeleteRecordHandler(s.Study, cache, c.Logger),
		Schedules:       command.NewScheduleHandler(s.Schedules, c.Clock),

		Dashboard:      query.NewGetDashboardHandler(s.Students, s.Study, s.Stats, c.Clock, warnings),
		Streak:         query.NewGetStreakHandler(s.Streaks, c.Clock, warnings),
		Stats:          query.NewGetStatsHandler(s.Stats, c.Clock),
		CalculateGrade: query.NewCalculateGradeHandler(s.Study),
		Leaderboard:    query.NewGetLeaderboardHandler(s.Leaderboard, cache, c.Logger),
		Admin:          query.NewAdminHandler(s.Students, s.Study, s.Stats, c.Clock),
		ScheduleQuery:  query.NewScheduleQueryHandler(s.Schedules, c.Clock),

		Tokens:        c.Tokens,
		HealthChecker: c.Health,
		Metrics:       c.Metrics,
		Logger:        c.Logger,
	}
}

// NewHealthChecker checks the store as critical and, when set, the cache
// client as optional.
func NewHealthChecker(version string, store handlers.Pinger, cache handlers.Pinger) *handlers.CompositeHealthChecker {
	checker := handlers.NewCompositeHealthChecker(version)
	checker.AddCheck("database", handlers.NewPingCheck(store), true)
	if cache != nil {
		checker.AddCheck("cache", handlers.NewPingCheck(cache), false)
	}
	return checker
}
