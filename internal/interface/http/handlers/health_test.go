package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompositeHealthChecker(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name        string
		database    HealthCheckFunc
		cache       HealthCheckFunc
		wantStatus  string
		wantHealthy bool
	}{
		{"all up", ok, ok, StatusHealthy, true},
		{"cache down is degraded", ok, down, StatusDegraded, true},
		{"database down is unhealthy", down, ok, StatusUnhealthy, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCompositeHealthChecker("test")
			c.AddCheck("database", tt.database, true)
			c.AddCheck("cache", tt.cache, false)

			status := c.Check(context.Background())
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantHealthy, status.Healthy)
			assert.Equal(t, tt.wantHealthy, status.Ready)
			assert.Len(t, status.Checks, 2)
		})
	}
}

func TestCompositeHealthChecker_Timeout(t *testing.T) {
	c := NewCompositeHealthChecker("test")
	c.SetTimeout(10 * time.Millisecond)
	c.AddCheck("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, true)

	status := c.Check(context.Background())
	assert.False(t, status.Healthy)
	assert.Contains(t, status.Checks["slow"].Message, "deadline exceeded")
}

func TestCompositeHealthChecker_NoChecks(t *testing.T) {
	status := NewCompositeHealthChecker("test").Check(context.Background())
	assert.True(t, status.Healthy)
	assert.Equal(t, StatusHealthy, status.Status)
}
