// internal/app/system/tasks/tasks.go

// Package tasks runs recurring background jobs on per-job tickers.
// Each cycle gets its own bounded context; a job that returns an error is
// logged and retried on its next tick.
package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is one recurring unit of background work.
type Job struct {
	Name     string
	Interval time.Duration

	// Timeout bounds one cycle. Zero defaults to the interval.
	Timeout time.Duration

	Run func(ctx context.Context) error
}

// Runner owns the goroutines executing a fixed set of jobs.
type Runner struct {
	jobs    []Job
	log     *zap.Logger
	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewRunner(logger *zap.Logger, jobs ...Job) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		jobs:    jobs,
		log:     logger,
		baseCtx: ctx,
		cancel:  cancel,
	}
}

// Start launches one goroutine per job.
func (r *Runner) Start() {
	for _, j := range r.jobs {
		r.wg.Add(1)
		go r.run(j)
		r.log.Info("background job started",
			zap.String("job", j.Name),
			zap.Duration("interval", j.Interval))
	}
}

// Stop cancels the runner context, aborting any in-flight cycle, and
// waits for the job goroutines to exit.
func (r *Runner) Stop() {
	r.cancel()
	r.wg.Wait()
	r.log.Info("background jobs stopped")
}

func (r *Runner) run(j Job) {
	defer r.wg.Done()

	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.baseCtx.Done():
			return
		case <-ticker.C:
			r.cycle(j)
		}
	}
}

func (r *Runner) cycle(j Job) {
	timeout := j.Timeout
	if timeout <= 0 {
		timeout = j.Interval
	}
	ctx, cancel := context.WithTimeout(r.baseCtx, timeout)
	defer cancel()

	if err := j.Run(ctx); err != nil {
		r.log.Error("background job failed",
			zap.String("job", j.Name),
			zap.Error(err))
	}
}
