package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-legalist/internal/logging"
)

func startMemoryQueue(t *testing.T, cfg MemoryQueueConfig, workers int, handler Handler) *MemoryQueue {
	t.Helper()
	q := NewMemoryQueue(cfg, &logging.NoOpLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx, workers, handler)
	t.Cleanup(func() {
		cancel()
		q.Wait()
	})
	return q
}

func waitForStatus(t *testing.T, q Queue, jobID, status string) JobStatus {
	t.Helper()
	var last JobStatus
	require.Eventually(t, func() bool {
		job, ok, err := q.GetJob(context.Background(), jobID)
		last = job
		return err == nil && ok && job.Status == status
	}, 2*time.Second, 5*time.Millisecond)
	return last
}

func TestMemoryQueueRunsJob(t *testing.T) {
	var got atomic.Uint32
	q := startMemoryQueue(t, MemoryQueueConfig{}, 2, func(_ context.Context, job JobStatus) error {
		got.Store(uint32(job.DocumentID))
		return nil
	})

	job, err := q.Enqueue(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, job.Status)

	done := waitForStatus(t, q, job.ID, StatusDone)
	assert.Equal(t, 1, done.Attempts)
	assert.EqualValues(t, 42, got.Load())
}

func TestMemoryQueueRetriesUpToMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	q := startMemoryQueue(t, MemoryQueueConfig{MaxAttempts: 3}, 1, func(context.Context, JobStatus) error {
		if calls.Add(1) < 3 {
			return errors.New("provider busy")
		}
		return nil
	})

	job, err := q.Enqueue(context.Background(), 7)
	require.NoError(t, err)
	done := waitForStatus(t, q, job.ID, StatusDone)
	assert.Equal(t, 3, done.Attempts)
	assert.Empty(t, done.ErrorMessage)
}

func TestMemoryQueueMarksFailure(t *testing.T) {
	q := startMemoryQueue(t, MemoryQueueConfig{}, 1, func(context.Context, JobStatus) error {
		return errors.New("translation failed")
	})

	job, err := q.Enqueue(context.Background(), 7)
	require.NoError(t, err)
	failed := waitForStatus(t, q, job.ID, StatusFailed)
	assert.Equal(t, "translation failed", failed.ErrorMessage)
	assert.Equal(t, 1, failed.Attempts)
}

func TestMemoryQueueRecoversHandlerPanic(t *testing.T) {
	q := startMemoryQueue(t, MemoryQueueConfig{}, 1, func(context.Context, JobStatus) error {
		panic("boom")
	})

	job, err := q.Enqueue(context.Background(), 7)
	require.NoError(t, err)
	waitForStatus(t, q, job.ID, StatusFailed)
}

func TestMemoryQueueAppliesTimeout(t *testing.T) {
	q := startMemoryQueue(t, MemoryQueueConfig{Timeout: 20 * time.Millisecond}, 1, func(ctx context.Context, _ JobStatus) error {
		<-ctx.Done()
		return ctx.Err()
	})

	job, err := q.Enqueue(context.Background(), 7)
	require.NoError(t, err)
	failed := waitForStatus(t, q, job.ID, StatusFailed)
	assert.Contains(t, failed.ErrorMessage, "deadline")
}

func TestMemoryQueueRejectsAfterShutdown(t *testing.T) {
	q := NewMemoryQueue(MemoryQueueConfig{}, &logging.NoOpLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	q.Start(ctx, 1, func(context.Context, JobStatus) error { return nil })
	cancel()
	q.Wait()

	require.Eventually(t, func() bool {
		_, err := q.Enqueue(context.Background(), 1)
		return errors.Is(err, ErrQueueClosed)
	}, time.Second, 5*time.Millisecond)
}

func TestMemoryQueueRejectsZeroDocument(t *testing.T) {
	q := NewMemoryQueue(MemoryQueueConfig{}, &logging.NoOpLogger{})
	_, err := q.Enqueue(context.Background(), 0)
	assert.Error(t, err)
}
