// internal/app/system/digest/scheduler.go
package digest

import (
	"context"
	"errors"
	"sync"
	"time"

	leasestore "github.com/agorahub/agorahub/internal/app/store/leases"
	membershipstore "github.com/agorahub/agorahub/internal/app/store/memberships"
	"github.com/agorahub/agorahub/internal/app/system/clock"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// LeaseName identifies the scheduler's advisory lock.
const LeaseName = "digest-scheduler"

// Config assembles the scheduler's collaborators and policy knobs.
type Config struct {
	Registry    Registry
	Discussions Discussions
	Markers     ReadMarkers
	Groups      Groups
	Sender      Sender
	Lease       Lease
	Clock       clock.Clock

	// MinInterval is the minimum elapsed time between two digests to the
	// same membership (the throttle window).
	MinInterval time.Duration

	// LeaseTTL bounds how long a crashed run can block the next one.
	// Zero defaults to one hour.
	LeaseTTL time.Duration

	// Workers is the dispatch concurrency within a run. Commits are
	// per-membership and independent, so dispatches may proceed in
	// parallel. Zero or negative means serial.
	Workers int

	Logger *zap.Logger
}

// RunStats summarizes one scheduler run.
type RunStats struct {
	Scanned    int // eligible memberships examined
	Throttled  int // skipped: inside the minimum digest interval
	NoUnread   int // skipped: nothing unread since the watermark
	Dispatched int // digest sent and watermark advanced
	Failed     int // dispatch or commit failed; retried next run
}

// Scheduler drives the scan → evaluate → dispatch → commit cycle.
// RunOnce is the unit the external timer invokes; runs are serialized by
// the lease, never by per-membership locking.
type Scheduler struct {
	registry    Registry
	discussions Discussions
	markers     ReadMarkers
	groups      Groups
	sender      Sender
	lease       Lease
	clk         clock.Clock
	minInterval time.Duration
	leaseTTL    time.Duration
	workers     int
	owner       string
	log         *zap.Logger
}

func NewScheduler(cfg Config) *Scheduler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.LeaseTTL <= 0 {
		cfg.LeaseTTL = time.Hour
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Scheduler{
		registry:    cfg.Registry,
		discussions: cfg.Discussions,
		markers:     cfg.Markers,
		groups:      cfg.Groups,
		sender:      cfg.Sender,
		lease:       cfg.Lease,
		clk:         cfg.Clock,
		minInterval: cfg.MinInterval,
		leaseTTL:    cfg.LeaseTTL,
		workers:     cfg.Workers,
		owner:       uuid.NewString(),
		log:         cfg.Logger,
	}
}

// RunOnce executes a single scan-evaluate-dispatch cycle.
//
// It fails fast with ErrRunInProgress when the lease is held: nothing is
// processed outside the lock. Cancellation between memberships is clean —
// committed memberships stay committed, the rest remain pending for the
// next run (dispatch + watermark commit is the atomic unit).
func (s *Scheduler) RunOnce(ctx context.Context) (RunStats, error) {
	if err := s.lease.Acquire(ctx, LeaseName, s.owner, s.leaseTTL); err != nil {
		if errors.Is(err, leasestore.ErrHeld) {
			return RunStats{}, ErrRunInProgress
		}
		return RunStats{}, err
	}
	defer func() {
		// Release with a fresh context: the run context may already be
		// canceled, and an unreleased lease blocks the next run until
		// the TTL elapses.
		rctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.lease.Release(rctx, LeaseName, s.owner); err != nil {
			s.log.Warn("digest lease release failed", zap.Error(err))
		}
	}()

	candidates, err := s.registry.EligibleForDigest(ctx)
	if err != nil {
		return RunStats{}, err
	}

	var (
		mu    sync.Mutex
		stats RunStats
		wg    sync.WaitGroup
		work  = make(chan membershipstore.DigestCandidate)
	)
	stats.Scanned = len(candidates)

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range work {
				outcome := s.process(ctx, c)
				mu.Lock()
				switch outcome {
				case outcomeThrottled:
					stats.Throttled++
				case outcomeNoUnread:
					stats.NoUnread++
				case outcomeDispatched:
					stats.Dispatched++
				case outcomeFailed:
					stats.Failed++
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, c := range candidates {
		select {
		case work <- c:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()

	s.log.Info("digest run complete",
		zap.Int("scanned", stats.Scanned),
		zap.Int("throttled", stats.Throttled),
		zap.Int("no_unread", stats.NoUnread),
		zap.Int("dispatched", stats.Dispatched),
		zap.Int("failed", stats.Failed))

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	return stats, nil
}

type outcome int

const (
	outcomeThrottled outcome = iota
	outcomeNoUnread
	outcomeDispatched
	outcomeFailed
)

// process takes one membership through the per-run state machine:
// PENDING → (throttled | no-unread → SKIPPED) | ELIGIBLE → DISPATCHED →
// COMMITTED, or DISPATCHED → FAILED (eligible again next run).
func (s *Scheduler) process(ctx context.Context, c membershipstore.DigestCandidate) outcome {
	now := s.clk.Now()

	// Throttle. A skip here must not advance the watermark: it is not a
	// notification, and suppressing a future real digest would lose data.
	if c.LastNotifiedAt != nil && now.Sub(*c.LastNotifiedAt) < s.minInterval {
		return outcomeThrottled
	}

	discussions, err := s.discussions.ListByGroup(ctx, c.GroupID, 0)
	if err != nil {
		s.log.Error("digest: loading discussions failed",
			zap.String("group_id", c.GroupID.Hex()), zap.Error(err))
		return outcomeFailed
	}

	ids := make([]primitive.ObjectID, len(discussions))
	for i, d := range discussions {
		ids[i] = d.ID
	}
	readCounts, err := s.markers.ReadCountsFor(ctx, c.UserID, ids)
	if err != nil {
		s.log.Error("digest: loading read markers failed",
			zap.String("user_id", c.UserID.Hex()), zap.Error(err))
		return outcomeFailed
	}

	d := Evaluate(c, discussions, readCounts)
	if d.TotalUnread == 0 {
		return outcomeNoUnread
	}

	group, err := s.groups.GetByID(ctx, c.GroupID)
	if err != nil {
		s.log.Error("digest: loading group failed",
			zap.String("group_id", c.GroupID.Hex()), zap.Error(err))
		return outcomeFailed
	}
	d.GroupName = group.Name
	d.GeneratedAt = now

	if err := s.sender.Send(ctx, d); err != nil {
		// Transient or permanent, the treatment is identical here: the
		// watermark stays put and the membership is a candidate again
		// next run. Backoff nuance belongs to the dispatcher.
		s.log.Warn("digest dispatch failed",
			zap.String("user_id", c.UserID.Hex()),
			zap.String("group_id", c.GroupID.Hex()),
			zap.Error(err))
		return outcomeFailed
	}

	if err := s.registry.AdvanceWatermark(ctx, c.UserID, c.GroupID, now); err != nil {
		// The digest went out but the commit failed; the user may get a
		// duplicate next run. At-least-once prefers that over dropping.
		s.log.Error("digest watermark advance failed",
			zap.String("user_id", c.UserID.Hex()),
			zap.String("group_id", c.GroupID.Hex()),
			zap.Error(err))
		return outcomeFailed
	}

	s.log.Debug("digest dispatched",
		zap.String("user_id", c.UserID.Hex()),
		zap.String("group_id", c.GroupID.Hex()),
		zap.Int64("total_unread", d.TotalUnread),
		zap.Int("discussions", len(d.Entries)))
	return outcomeDispatched
}
