package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// PollInterval is how often every job runs
	PollInterval time.Duration

	// MaxConcurrency is the maximum number of jobs to process concurrently
	MaxConcurrency int
}

// Job is a periodic maintenance task.
type Job struct {
	Type    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

// Worker runs periodic jobs
type Worker struct {
	config Config
	jobs   []Job
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewWorker creates a new background job worker
func NewWorker(config Config, logger *slog.Logger, jobs ...Job) *Worker {
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.PollInterval == 0 {
		config.PollInterval = time.Hour
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 2
	}

	return &Worker{
		config: config,
		jobs:   jobs,
		logger: logger,
	}
}

// Start runs every job once, then again on each tick, until ctx is cancelled.
// In-flight jobs are waited for before Start returns.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"poll_interval", w.config.PollInterval,
		"max_concurrency", w.config.MaxConcurrency,
		"jobs", len(w.jobs),
	)

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	// Semaphore for concurrency control
	sem := make(chan struct{}, w.config.MaxConcurrency)

	w.dispatch(ctx, sem)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
			w.wg.Wait()
			return ctx.Err()

		case <-ticker.C:
			w.dispatch(ctx, sem)
		}
	}
}

func (w *Worker) dispatch(ctx context.Context, sem chan struct{}) {
	for _, job := range w.jobs {
		select {
		case sem <- struct{}{}:
			w.wg.Add(1)
			go func() {
				defer w.wg.Done()
				defer func() { <-sem }()
				_ = w.process(ctx, job)
			}()
		default:
			// At max concurrency, skip this round
			w.logger.Warn("job skipped, worker busy", "job_type", job.Type)
		}
	}
}

// RunOnce runs every job sequentially and returns the first failure.
func (w *Worker) RunOnce(ctx context.Context) error {
	var first error
	for _, job := range w.jobs {
		if err := w.process(ctx, job); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (w *Worker) process(ctx context.Context, job Job) error {
	jobCtx := ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	start := time.Now()
	if err := job.Run(jobCtx); err != nil {
		w.logger.Error("job failed",
			"job_type", job.Type,
			"error", err,
		)
		return fmt.Errorf("%s: %w", job.Type, err)
	}

	w.logger.Info("job completed",
		"job_type", job.Type,
		"duration", time.Since(start),
	)
	return nil
}
