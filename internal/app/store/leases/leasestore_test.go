package leasestore_test

import (
	"errors"
	"testing"
	"time"

	leasestore "github.com/agorahub/agorahub/internal/app/store/leases"
	"github.com/agorahub/agorahub/internal/testutil"
)

func TestAcquireAndRelease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := leasestore.New(db)

	if err := store.Acquire(ctx, "digest-scheduler", "owner-a", time.Hour); err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	err := store.Acquire(ctx, "digest-scheduler", "owner-b", time.Hour)
	if !errors.Is(err, leasestore.ErrHeld) {
		t.Errorf("second owner got %v, want ErrHeld", err)
	}

	if err := store.Release(ctx, "digest-scheduler", "owner-a"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := store.Acquire(ctx, "digest-scheduler", "owner-b", time.Hour); err != nil {
		t.Errorf("acquire after release failed: %v", err)
	}
}

func TestAcquireExtendsOwnLease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := leasestore.New(db)

	if err := store.Acquire(ctx, "digest-scheduler", "owner-a", time.Hour); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := store.Acquire(ctx, "digest-scheduler", "owner-a", time.Hour); err != nil {
		t.Errorf("re-acquiring one's own lease must succeed, got %v", err)
	}
}

func TestAcquireTakesOverExpiredLease(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := leasestore.New(db)

	// A lease that expired the moment it was taken, as a crashed holder
	// would leave behind.
	if err := store.Acquire(ctx, "digest-scheduler", "crashed", -time.Minute); err != nil {
		t.Fatalf("Acquire (expired): %v", err)
	}

	if err := store.Acquire(ctx, "digest-scheduler", "owner-b", time.Hour); err != nil {
		t.Errorf("acquiring an expired lease must succeed, got %v", err)
	}
}

func TestReleaseForeignLeaseIsNoOp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := leasestore.New(db)

	if err := store.Acquire(ctx, "digest-scheduler", "owner-a", time.Hour); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := store.Release(ctx, "digest-scheduler", "owner-b"); err != nil {
		t.Fatalf("Release (foreign): %v", err)
	}

	// owner-a still holds it.
	err := store.Acquire(ctx, "digest-scheduler", "owner-b", time.Hour)
	if !errors.Is(err, leasestore.ErrHeld) {
		t.Errorf("lease must survive a foreign release, got %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	store := leasestore.New(db)

	if err := store.Acquire(ctx, "expired-job", "crashed", -time.Minute); err != nil {
		t.Fatalf("Acquire (expired): %v", err)
	}
	if err := store.Acquire(ctx, "live-job", "owner-a", time.Hour); err != nil {
		t.Fatalf("Acquire (live): %v", err)
	}

	removed, err := store.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if removed != 1 {
		t.Errorf("swept %d leases, want 1", removed)
	}

	// The live lease is untouched.
	err = store.Acquire(ctx, "live-job", "owner-b", time.Hour)
	if !errors.Is(err, leasestore.ErrHeld) {
		t.Errorf("live lease must survive the sweep, got %v", err)
	}
}
