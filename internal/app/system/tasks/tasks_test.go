package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestRunnerExecutesOnInterval(t *testing.T) {
	var runs atomic.Int64
	r := NewRunner(zap.NewNop(), Job{
		Name:     "counter",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	r.Start()
	time.Sleep(100 * time.Millisecond)
	r.Stop()

	if n := runs.Load(); n < 2 {
		t.Errorf("job ran %d times in 100ms at a 10ms interval, want at least 2", n)
	}
}

func TestRunnerStopIsClean(t *testing.T) {
	var runs atomic.Int64
	r := NewRunner(zap.NewNop(), Job{
		Name:     "counter",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		},
	})

	r.Start()
	time.Sleep(50 * time.Millisecond)
	r.Stop()

	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	if runs.Load() != after {
		t.Errorf("job kept running after Stop")
	}
}

func TestRunnerFailingJobIsRetried(t *testing.T) {
	var runs atomic.Int64
	r := NewRunner(zap.NewNop(), Job{
		Name:     "flaky",
		Interval: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			runs.Add(1)
			return errors.New("transient failure")
		},
	})

	r.Start()
	time.Sleep(100 * time.Millisecond)
	r.Stop()

	if n := runs.Load(); n < 2 {
		t.Errorf("failing job ran %d times, want it retried on later ticks", n)
	}
}

func TestRunnerMultipleJobs(t *testing.T) {
	var a, b atomic.Int64
	r := NewRunner(zap.NewNop(),
		Job{Name: "a", Interval: 10 * time.Millisecond, Run: func(ctx context.Context) error { a.Add(1); return nil }},
		Job{Name: "b", Interval: 10 * time.Millisecond, Run: func(ctx context.Context) error { b.Add(1); return nil }},
	)

	r.Start()
	time.Sleep(80 * time.Millisecond)
	r.Stop()

	if a.Load() == 0 || b.Load() == 0 {
		t.Errorf("both jobs must run: a=%d b=%d", a.Load(), b.Load())
	}
}

func TestStopAbortsInFlightCycle(t *testing.T) {
	started := make(chan struct{})
	finished := make(chan error, 1)
	r := NewRunner(zap.NewNop(), Job{
		Name:     "long",
		Interval: 10 * time.Millisecond,
		Timeout:  time.Hour,
		Run: func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			finished <- ctx.Err()
			return ctx.Err()
		},
	})

	r.Start()
	<-started

	stopDone := make(chan struct{})
	go func() {
		r.Stop()
		close(stopDone)
	}()

	select {
	case <-stopDone:
	case <-time.After(time.Second):
		t.Fatalf("Stop blocked on an in-flight cycle")
	}
	if err := <-finished; !errors.Is(err, context.Canceled) {
		t.Errorf("cycle context ended with %v, want context.Canceled", err)
	}
}

func TestCycleHonorsTimeout(t *testing.T) {
	done := make(chan struct{})
	r := NewRunner(zap.NewNop())
	j := Job{
		Name:     "slow",
		Interval: time.Hour,
		Timeout:  20 * time.Millisecond,
		Run: func(ctx context.Context) error {
			defer close(done)
			<-ctx.Done()
			return ctx.Err()
		},
	}

	r.cycle(j)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("cycle context was never canceled despite the timeout")
	}
}
