package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educationaltr/study-tracker/pkg/logger"
)

type countingJob struct {
	name  string
	runs  atomic.Int32
	err   error
	block chan struct{}
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(ctx context.Context) error {
	j.runs.Add(1)
	if j.block != nil {
		select {
		case <-j.block:
		case <-ctx.Done():
		}
	}
	return j.err
}

func TestScheduler_Register(t *testing.T) {
	s := New(Config{Logger: logger.Discard()})

	assert.ErrorIs(t, s.Register(nil, Every(time.Minute)), ErrNilJob)
	assert.ErrorIs(t, s.Register(&countingJob{name: "a"}, nil), ErrNilSchedule)

	require.NoError(t, s.Register(&countingJob{name: "a"}, Every(time.Minute)))
	assert.ErrorIs(t, s.Register(&countingJob{name: "a"}, Every(time.Minute)), ErrJobAlreadyExists)

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "@every 1m0s", jobs[0].Schedule)
}

func TestScheduler_RunOnStartAndInterval(t *testing.T) {
	var completed atomic.Int32
	s := New(Config{
		Logger:        logger.Discard(),
		Tick:          5 * time.Millisecond,
		RunOnStart:    true,
		OnJobComplete: func(JobResult) { completed.Add(1) },
	})
	job := &countingJob{name: "tick"}
	require.NoError(t, s.Register(job, Every(10*time.Millisecond)))

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrSchedulerAlreadyRunning)

	assert.Eventually(t, func() bool { return job.runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop())
	assert.ErrorIs(t, s.Stop(), ErrSchedulerNotRunning)

	assert.Equal(t, job.runs.Load(), completed.Load())
}

func TestScheduler_DoesNotOverlap(t *testing.T) {
	s := New(Config{Logger: logger.Discard(), Tick: time.Millisecond, RunOnStart: true})
	job := &countingJob{name: "slow", block: make(chan struct{})}
	require.NoError(t, s.Register(job, Every(time.Millisecond)))

	require.NoError(t, s.Start(context.Background()))
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), job.runs.Load())

	close(job.block)
	require.NoError(t, s.Stop())
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(Config{Logger: logger.Discard()})
	failing := &countingJob{name: "failing", err: errors.New("boom")}
	require.NoError(t, s.Register(failing, Every(time.Hour)))

	result, err := s.RunNow(context.Background(), "failing")
	require.Error(t, err)
	assert.False(t, result.Success())
	assert.Equal(t, "failing", result.JobName)

	info := s.Jobs()[0]
	assert.Equal(t, int64(1), info.Runs)
	assert.Equal(t, int64(1), info.Failures)
	require.NotNil(t, info.LastResult)

	_, err = s.RunNow(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}
