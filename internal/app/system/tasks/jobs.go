// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"errors"
	"time"

	leasestore "github.com/agorahub/agorahub/internal/app/store/leases"
	"github.com/agorahub/agorahub/internal/app/system/digest"
	"go.uber.org/zap"
)

// DigestJob creates the job that triggers a digest scheduler run.
// A run already in progress is not a failure: the lease serialized us,
// the current run will cover the window, and the next tick tries again.
func DigestJob(sched *digest.Scheduler, every time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "unread-digest",
		Interval: every,
		Run: func(ctx context.Context) error {
			stats, err := sched.RunOnce(ctx)
			if err != nil {
				if errors.Is(err, digest.ErrRunInProgress) {
					logger.Info("digest run skipped, previous run still active")
					return nil
				}
				return err
			}
			if stats.Dispatched > 0 || stats.Failed > 0 {
				logger.Info("digest job finished",
					zap.Int("dispatched", stats.Dispatched),
					zap.Int("failed", stats.Failed))
			}
			return nil
		},
	}
}

// LeaseSweepJob creates a job that removes expired scheduler leases.
// This is a backup for holders that crashed without releasing; Acquire
// already treats expired leases as free.
func LeaseSweepJob(leases *leasestore.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "lease-sweep",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := leases.SweepExpired(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Debug("swept expired leases", zap.Int64("count", count))
			}
			return nil
		},
	}
}
