// internal/app/system/digest/digest.go

// Package digest implements unread-activity evaluation and the digest
// notification scheduler.
//
// The split mirrors the data flow: stores supply memberships, discussions,
// and read markers; Evaluate (pure, I/O-free) decides what is unread for
// one membership; Scheduler orchestrates the scan, applies the
// minimum-interval throttle, dispatches through a Sender, and advances the
// membership watermark only after a successful send.
package digest

import (
	"context"
	"errors"
	"time"

	membershipstore "github.com/agorahub/agorahub/internal/app/store/memberships"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Entry is one discussion with unread activity inside a digest.
type Entry struct {
	Discussion models.Discussion `json:"discussion"`
	Unread     int64             `json:"unread"`
}

// Digest is the payload for a single notification: all unread discussions
// of one group for one user, most recently updated first.
type Digest struct {
	UserID    primitive.ObjectID `json:"user_id"`
	UserName  string             `json:"user_name"`
	UserEmail string             `json:"user_email"`
	GroupID   primitive.ObjectID `json:"group_id"`
	GroupName string             `json:"group_name"`

	Entries     []Entry `json:"entries"`
	TotalUnread int64   `json:"total_unread"`

	GeneratedAt time.Time `json:"generated_at"`
}

// ErrRunInProgress is returned by RunOnce when another run holds the
// scheduler lease. The run fails fast without processing any membership.
var ErrRunInProgress = errors.New("digest run already in progress")

// Registry supplies digest candidates and owns the notification watermark.
// Implemented by membershipstore.Store.
type Registry interface {
	EligibleForDigest(ctx context.Context) ([]membershipstore.DigestCandidate, error)
	AdvanceWatermark(ctx context.Context, userID, groupID primitive.ObjectID, at time.Time) error
}

// Discussions loads a group's discussions for evaluation.
// Implemented by discussionstore.Store.
type Discussions interface {
	ListByGroup(ctx context.Context, groupID primitive.ObjectID, limit int64) ([]models.Discussion, error)
}

// ReadMarkers batch-loads one user's read counts.
// Implemented by readmarkerstore.Store.
type ReadMarkers interface {
	ReadCountsFor(ctx context.Context, userID primitive.ObjectID, discussionIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error)
}

// Groups resolves group identity for the digest payload.
// Implemented by groupstore.Store.
type Groups interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error)
}

// Sender delivers one digest. Any returned error — transient or permanent —
// leaves the membership watermark untouched so the digest is retried on the
// next run (at-least-once; duplicates are preferred over silent drops).
// Implemented by mailer.DigestSender.
type Sender interface {
	Send(ctx context.Context, d Digest) error
}

// Lease provides run-level mutual exclusion.
// Implemented by leasestore.Store.
type Lease interface {
	Acquire(ctx context.Context, name, owner string, ttl time.Duration) error
	Release(ctx context.Context, name, owner string) error
}
