// Package async runs extraction jobs off the request path. Jobs live
// in memory only: a restart forgets them, which is acceptable for the
// agency's single-process deployment.
package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comfythings/visaflow/constants"
	"github.com/comfythings/visaflow/internal/common"
	"github.com/comfythings/visaflow/internal/entity"
)

// Job is one queued extraction.
type Job struct {
	ID           uuid.UUID               `json:"id"`
	Status       constants.JobStatus     `json:"status"`
	SourceName   string                  `json:"source_name"`
	Record       *entity.ExtractedRecord `json:"record,omitempty"`
	DocumentType string                  `json:"document_type,omitempty"`
	ClientID     *uuid.UUID              `json:"client_id,omitempty"`
	Error        string                  `json:"error,omitempty"`
	SubmittedAt  time.Time               `json:"submitted_at"`
	FinishedAt   *time.Time              `json:"finished_at,omitempty"`
}

// Outcome is what a handler returns for a finished job.
type Outcome struct {
	Record       *entity.ExtractedRecord
	DocumentType string
	ClientID     *uuid.UUID
}

// Handler processes one job's staged file and returns the outcome.
type Handler func(ctx context.Context, job Job, path string) (Outcome, error)

type queued struct {
	job  Job
	path string
}

// Queue is an in-memory job queue with a fixed worker pool and a job
// registry the API polls.
type Queue struct {
	handler Handler
	logger  *slog.Logger

	jobs   chan queued
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu       sync.RWMutex
	registry map[uuid.UUID]Job
}

// New starts workers goroutines consuming the queue. buffer bounds how
// many jobs may wait; Enqueue fails once it is full.
func New(handler Handler, workers, buffer int, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = 64
	}

	ctx, cancel := context.WithCancel(context.Background())
	q := &Queue{
		handler:  handler,
		logger:   logger,
		jobs:     make(chan queued, buffer),
		cancel:   cancel,
		registry: make(map[uuid.UUID]Job),
	}
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
	return q
}

// Enqueue registers a job for path and returns it in QUEUED state.
func (q *Queue) Enqueue(sourceName, path string) (Job, error) {
	job := Job{
		ID:          uuid.New(),
		Status:      constants.JobStatusQueued,
		SourceName:  sourceName,
		SubmittedAt: time.Now().UTC(),
	}

	q.mu.Lock()
	q.registry[job.ID] = job
	q.mu.Unlock()

	select {
	case q.jobs <- queued{job: job, path: path}:
		q.logger.Info("job queued", "job_id", job.ID, "source", sourceName)
		return job, nil
	default:
		q.mu.Lock()
		delete(q.registry, job.ID)
		q.mu.Unlock()
		return Job{}, common.NewAppError("QUEUE_FULL", "extraction queue is full", common.ErrInternal)
	}
}

// Get returns the job's current snapshot.
func (q *Queue) Get(id uuid.UUID) (Job, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	job, ok := q.registry[id]
	return job, ok
}

// Shutdown stops accepting work and waits for in-flight jobs, bounded
// by ctx.
func (q *Queue) Shutdown(ctx context.Context) {
	q.cancel()
	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		q.logger.Warn("shutdown timed out waiting for workers")
	}
}

func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case item := <-q.jobs:
			q.run(ctx, item, id)
		}
	}
}

func (q *Queue) run(ctx context.Context, item queued, worker int) {
	q.setStatus(item.job.ID, func(j *Job) { j.Status = constants.JobStatusRunning })
	q.logger.Info("job started", "job_id", item.job.ID, "worker", worker)

	// A job that already started gets to finish during shutdown; the
	// Shutdown deadline bounds the wait instead of the worker context.
	// The job ID rides the context so handler-side logs correlate.
	jobCtx := common.WithJobID(context.WithoutCancel(ctx), item.job.ID.String())
	outcome, err := q.handler(jobCtx, item.job, item.path)
	now := time.Now().UTC()

	if err != nil {
		q.logger.Error("job failed", "job_id", item.job.ID, "error", err)
		q.setStatus(item.job.ID, func(j *Job) {
			j.Status = constants.JobStatusFailed
			j.Error = err.Error()
			j.FinishedAt = &now
		})
		return
	}

	q.setStatus(item.job.ID, func(j *Job) {
		j.Status = constants.JobStatusOK
		j.Record = outcome.Record
		j.DocumentType = outcome.DocumentType
		j.ClientID = outcome.ClientID
		j.FinishedAt = &now
	})
	q.logger.Info("job finished", "job_id", item.job.ID, "worker", worker)
}

func (q *Queue) setStatus(id uuid.UUID, mutate func(*Job)) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.registry[id]
	if !ok {
		return
	}
	mutate(&job)
	q.registry[id] = job
}
