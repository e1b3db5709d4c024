package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryQueueConfig struct {
	Buffer      int
	Timeout     time.Duration
	MaxAttempts int
	JobTTL      time.Duration
}

func DefaultMemoryQueueConfig() MemoryQueueConfig {
	return MemoryQueueConfig{
		Buffer:      256,
		Timeout:     15 * time.Minute,
		MaxAttempts: 1,
		JobTTL:      24 * time.Hour,
	}
}

// MemoryQueue is an in-process worker pool fed by a buffered channel.
// Pending jobs are lost on restart.
type MemoryQueue struct {
	config MemoryQueueConfig
	logger Logger
	jobs   chan JobStatus

	mu       sync.RWMutex
	statuses map[string]JobStatus
	closed   bool

	wg sync.WaitGroup
}

func NewMemoryQueue(config MemoryQueueConfig, logger Logger) *MemoryQueue {
	def := DefaultMemoryQueueConfig()
	if config.Buffer <= 0 {
		config.Buffer = def.Buffer
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = def.MaxAttempts
	}
	if config.JobTTL <= 0 {
		config.JobTTL = def.JobTTL
	}
	return &MemoryQueue{
		config:   config,
		logger:   logger,
		jobs:     make(chan JobStatus, config.Buffer),
		statuses: make(map[string]JobStatus),
	}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, documentID uint) (JobStatus, error) {
	if documentID == 0 {
		return JobStatus{}, errors.New("document id required")
	}
	now := time.Now().UTC()
	job := JobStatus{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Status:     StatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return JobStatus{}, ErrQueueClosed
	}
	q.pruneLocked(now)
	q.statuses[job.ID] = job
	q.mu.Unlock()

	select {
	case q.jobs <- job:
		q.logger.Debug("job enqueued", "job_id", job.ID, "document_id", documentID)
		return job, nil
	case <-ctx.Done():
		q.mu.Lock()
		delete(q.statuses, job.ID)
		q.mu.Unlock()
		return JobStatus{}, ctx.Err()
	}
}

func (q *MemoryQueue) GetJob(_ context.Context, jobID string) (JobStatus, bool, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	job, ok := q.statuses[jobID]
	return job, ok, nil
}

func (q *MemoryQueue) Start(ctx context.Context, concurrency int, handler Handler) {
	if concurrency <= 0 {
		concurrency = 1
	}
	for i := 0; i < concurrency; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i, handler)
	}
	go func() {
		<-ctx.Done()
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
	}()
}

func (q *MemoryQueue) Wait() {
	q.wg.Wait()
}

func (q *MemoryQueue) worker(ctx context.Context, id int, handler Handler) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			q.logger.Debug("worker stopping", "worker", id)
			return
		case job := <-q.jobs:
			q.process(ctx, job, handler)
		}
	}
}

func (q *MemoryQueue) process(ctx context.Context, job JobStatus, handler Handler) {
	for {
		job.Attempts++
		job.Status = StatusProcessing
		job.UpdatedAt = time.Now().UTC()
		q.store(job)

		err := runHandler(ctx, q.config.Timeout, handler, job)
		job.UpdatedAt = time.Now().UTC()
		if err == nil {
			job.Status = StatusDone
			job.ErrorMessage = ""
			q.store(job)
			return
		}

		job.ErrorMessage = err.Error()
		if job.Attempts >= q.config.MaxAttempts || ctx.Err() != nil {
			job.Status = StatusFailed
			q.store(job)
			q.logger.Warn("job failed", "job_id", job.ID, "document_id", job.DocumentID, "attempts", job.Attempts, "error", err)
			return
		}
		q.logger.Info("retrying job", "job_id", job.ID, "attempt", job.Attempts, "error", err)
	}
}

func (q *MemoryQueue) store(job JobStatus) {
	q.mu.Lock()
	q.statuses[job.ID] = job
	q.mu.Unlock()
}

// pruneLocked drops finished jobs older than JobTTL.
func (q *MemoryQueue) pruneLocked(now time.Time) {
	for id, job := range q.statuses {
		finished := job.Status == StatusDone || job.Status == StatusFailed
		if finished && now.Sub(job.UpdatedAt) > q.config.JobTTL {
			delete(q.statuses, id)
		}
	}
}
