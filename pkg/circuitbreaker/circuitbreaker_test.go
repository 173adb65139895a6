package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("redis down")

func fail(context.Context) error { return errDown }
func ok(context.Context) error   { return nil }

func newTestBreaker(now *time.Time, opts ...Option) *CircuitBreaker {
	cb := New("test", opts...)
	cb.now = func() time.Time { return *now }
	return cb
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&now, WithFailureThreshold(2), WithTimeout(time.Minute))
	ctx := context.Background()

	assert.ErrorIs(t, cb.Execute(ctx, fail), errDown)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(ctx, fail), errDown)
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(ctx, ok)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.True(t, IsRejected(err))
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	var transitions []string
	cb := newTestBreaker(&now,
		WithFailureThreshold(1),
		WithSuccessThreshold(1),
		WithTimeout(time.Minute),
		WithOnStateChange(func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		}),
	)
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	now = now.Add(2 * time.Minute)
	require.NoError(t, cb.Execute(ctx, ok))

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, []string{"closed->open", "open->half-open", "half-open->closed"}, transitions)
}

func TestCircuitBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cb := newTestBreaker(&now, WithFailureThreshold(1), WithTimeout(time.Minute))
	ctx := context.Background()

	_ = cb.Execute(ctx, fail)
	now = now.Add(time.Minute)
	_ = cb.Execute(ctx, fail)

	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(ctx, ok), ErrCircuitOpen)
}

func TestCircuitBreaker_IsFailureFilter(t *testing.T) {
	now := time.Now()
	miss := errors.New("miss")
	cb := newTestBreaker(&now, WithFailureThreshold(1), WithIsFailure(func(err error) bool {
		return !errors.Is(err, miss)
	}))

	_ = cb.Execute(context.Background(), func(context.Context) error { return miss })
	_ = cb.Execute(context.Background(), func(context.Context) error { return miss })
	assert.Equal(t, StateClosed, cb.State())
	assert.NoError(t, cb.Execute(context.Background(), ok))
}

func TestCall(t *testing.T) {
	cb := New("call")
	v, err := Call(context.Background(), cb, func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = Call(context.Background(), cb, func(context.Context) (int, error) { return 0, errors.New("boom") })
	assert.EqualError(t, err, "boom")
}
