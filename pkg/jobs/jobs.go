// Package jobs runs document extractions asynchronously. Submissions are
// queued in a backend (Redis in production) and picked up by a pool of
// workers that call the extraction handler and store its aggregate.
package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/Abraxas-365/docextract/pkg/extract"
	"github.com/Abraxas-365/docextract/pkg/logx"
)

// Handler runs one job and returns its aggregate. An error marks the
// attempt failed; the job is retried while attempts remain.
type Handler func(ctx context.Context, job *Job) (extract.Aggregate, error)

// Enqueuer accepts new submissions.
type Enqueuer interface {
	Enqueue(ctx context.Context, sub Submission) (string, error)
}

// StatusReader reads job state.
type StatusReader interface {
	GetJob(ctx context.Context, jobID string) (*Job, error)
}

// Processor provides backend operations for the worker loop.
type Processor interface {
	Dequeue(ctx context.Context, queues []string, timeout time.Duration) (*Job, error)
	Complete(ctx context.Context, jobID string, result extract.Aggregate) error
	Fail(ctx context.Context, jobID string, errMsg string) (retry bool, err error)
	Retry(ctx context.Context, jobID string, delay time.Duration) error
	PromoteScheduled(ctx context.Context, queues []string) error
}

// Queue combines all backend operations.
type Queue interface {
	Enqueuer
	StatusReader
	Processor
}

// Worker pulls jobs from a queue and runs the handler on them.
type Worker struct {
	queue   Queue
	handler Handler
	opts    WorkerOptions
	mu      sync.Mutex
	running bool
}

// NewWorker creates a worker for queue.
func NewWorker(queue Queue, handler Handler, options ...WorkerOption) *Worker {
	opts := defaultWorkerOptions()
	for _, o := range options {
		o(&opts)
	}
	return &Worker{queue: queue, handler: handler, opts: opts}
}

// Submit validates and enqueues a submission.
func Submit(ctx context.Context, q Enqueuer, sub Submission) (string, error) {
	if sub.SourceKey == "" {
		return "", jobErrors.NewWithMessage(ErrInvalidJob, "source_key is required")
	}
	if _, err := extract.ParseMode(string(sub.Mode)); err != nil {
		return "", err
	}
	if sub.Queue == "" {
		sub.Queue = DefaultQueue
	}
	if sub.MaxRetries <= 0 {
		sub.MaxRetries = 3
	}
	return q.Enqueue(ctx, sub)
}

// Start processes jobs until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return jobErrors.New(ErrAlreadyRunning)
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	logx.WithFields(logx.Fields{"workers": w.opts.Concurrency, "queues": w.opts.Queues}).
		Info("jobs: starting workers")

	var wg sync.WaitGroup

	// Scheduler goroutine: promotes delayed retries to the ready queue.
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.schedulerLoop(ctx)
	}()

	for i := range w.opts.Concurrency {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.workerLoop(ctx, id)
		}(i)
	}

	<-ctx.Done()
	logx.Info("jobs: shutting down workers")

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		logx.Info("jobs: all workers stopped")
		return nil
	case <-time.After(w.opts.ShutdownTimeout):
		logx.Warn("jobs: shutdown timed out, some jobs may not have completed")
		return jobErrors.New(ErrShutdownTimeout)
	}
}

func (w *Worker) schedulerLoop(ctx context.Context) {
	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.queue.PromoteScheduled(ctx, w.opts.Queues); err != nil {
				if ctx.Err() != nil {
					return
				}
				logx.WithError(err).Warn("jobs: failed to promote scheduled jobs")
			}
		}
	}
}

func (w *Worker) workerLoop(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.queue.Dequeue(ctx, w.opts.Queues, w.opts.DequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logx.WithError(err).Warnf("jobs: worker %d dequeue error", id)
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.opts.PollInterval):
			}
			continue
		}
		if job == nil {
			continue
		}

		w.Process(ctx, job)
	}
}

// Process runs the handler on one dequeued job and records the outcome.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := logx.WithFields(logx.Fields{"job_id": job.ID, "attempt": job.Attempts})

	agg, err := w.handler(ctx, job)
	if err != nil {
		log.WithError(err).Warn("jobs: job failed")

		retry, failErr := w.queue.Fail(ctx, job.ID, err.Error())
		if failErr != nil {
			log.WithError(failErr).Error("jobs: failed to mark job as failed")
			return
		}
		if retry {
			if retryErr := w.queue.Retry(ctx, job.ID, w.opts.RetryDelay); retryErr != nil {
				log.WithError(retryErr).Error("jobs: failed to schedule retry")
			}
		}
		return
	}

	if err := w.queue.Complete(ctx, job.ID, agg); err != nil {
		log.WithError(err).Error("jobs: failed to complete job")
		return
	}
	log.WithField("failures", len(agg.Failures)).Info("jobs: job completed")
}
