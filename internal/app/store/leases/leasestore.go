// internal/app/store/leases/leasestore.go
package leasestore

// Run-level mutual exclusion for background jobs. A lease is a single
// document keyed by job name; acquiring it is an atomic upsert that only
// succeeds when the document is absent or expired. The TTL protects
// against a holder that crashed without releasing.

import (
	"context"
	"errors"
	"time"

	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("scheduler_leases")}
}

// ErrHeld is returned when another owner currently holds the lease.
var ErrHeld = errors.New("lease is held by another owner")

// Acquire takes the named lease for owner with the given TTL. It fails
// with ErrHeld when a live lease exists under a different owner.
// Re-acquiring one's own live lease extends it.
func (s *Store) Acquire(ctx context.Context, name, owner string, ttl time.Duration) error {
	now := time.Now().UTC()

	// Remove the lease only if it is expired or already ours, then
	// insert fresh. The unique _id makes the insert race-safe: the
	// loser of a concurrent acquire gets a duplicate-key error.
	_, err := s.c.DeleteOne(ctx, bson.M{
		"_id": name,
		"$or": bson.A{
			bson.M{"owner": owner},
			bson.M{"expires_at": bson.M{"$lte": now}},
		},
	})
	if err != nil {
		return err
	}

	lease := models.Lease{
		Name:       name,
		Owner:      owner,
		AcquiredAt: now,
		ExpiresAt:  now.Add(ttl),
	}
	if _, err := s.c.InsertOne(ctx, lease); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrHeld
		}
		return err
	}
	return nil
}

// Release frees the named lease if owner still holds it. Releasing a
// lease taken over by someone else is a no-op.
func (s *Store) Release(ctx context.Context, name, owner string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": name, "owner": owner})
	return err
}

// SweepExpired removes leases whose TTL elapsed without a release.
// Returns the number of documents removed.
func (s *Store) SweepExpired(ctx context.Context) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
