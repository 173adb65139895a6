package config

import "fmt"

// Feature flag names.
const (
	// FeatureRegistration allows self-service account creation.
	FeatureRegistration = "registration"

	// FeatureStreakWarnings shows the "streak at risk" banner on the dashboard.
	FeatureStreakWarnings = "streak.warnings"

	// FeatureLeaderboardCache serves leaderboards from Redis.
	FeatureLeaderboardCache = "leaderboard.cache"
)

// FeatureFlags toggles optional behaviour.
type FeatureFlags struct {
	Registration     bool `env:"FEATURE_REGISTRATION" envDefault:"true"`
	StreakWarnings   bool `env:"FEATURE_STREAK_WARNINGS" envDefault:"true"`
	LeaderboardCache bool `env:"FEATURE_LEADERBOARD_CACHE" envDefault:"true"`
}

// IsEnabled checks if a feature is enabled by name. Unknown names are disabled.
func (ff FeatureFlags) IsEnabled(name string) bool {
	switch name {
	case FeatureRegistration:
		return ff.Registration
	case FeatureStreakWarnings:
		return ff.StreakWarnings
	case FeatureLeaderboardCache:
		return ff.LeaderboardCache
	default:
		return false
	}
}

// All returns every flag with its current value.
func (ff FeatureFlags) All() map[string]bool {
	return map[string]bool{
		FeatureRegistration:     ff.Registration,
		FeatureStreakWarnings:   ff.StreakWarnings,
		FeatureLeaderboardCache: ff.LeaderboardCache,
	}
}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Feature string
	Message string
}

func (e *FeatureFlagError) Error() string {
	return fmt.Sprintf("feature flag %q: %s", e.Feature, e.Message)
}

// Require returns a FeatureFlagError when the named feature is disabled.
func (ff FeatureFlags) Require(name string) error {
	if !ff.IsEnabled(name) {
		return &FeatureFlagError{Feature: name, Message: "disabled"}
	}
	return nil
}
