// Package jobs runs document work off the request path.
package jobs

import (
	"context"
	"errors"
	"time"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

var ErrQueueClosed = errors.New("job queue is closed")

// JobStatus tracks one queued unit of work for a document.
type JobStatus struct {
	ID           string    `json:"id"`
	DocumentID   uint      `json:"document_id"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Attempts     int       `json:"attempts"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Handler processes one job. A non-nil error counts as a failed attempt.
type Handler func(ctx context.Context, job JobStatus) error

// Queue accepts document jobs and runs them on a pool of workers.
// Enqueue returns as soon as the job is accepted.
type Queue interface {
	Enqueue(ctx context.Context, documentID uint) (JobStatus, error)
	GetJob(ctx context.Context, jobID string) (JobStatus, bool, error)
	// Start launches workers until ctx is cancelled. Jobs already running
	// are not cancelled with ctx; they stop at their own timeout.
	Start(ctx context.Context, concurrency int, handler Handler)
	// Wait blocks until every worker started by Start has returned.
	Wait()
}

// Logger defines the logging interface used by the queues
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// runHandler applies the per-job timeout and turns a panic into an error.
func runHandler(ctx context.Context, timeout time.Duration, handler Handler, job JobStatus) (err error) {
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("job handler panicked")
		}
	}()
	return handler(jobCtx, job)
}
