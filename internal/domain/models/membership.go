// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership is the authoritative join between users and groups.
// Exactly one document per (user_id, group_id); tier is an ordered scalar.
//
// LastNotifiedAt is the digest watermark: activity before this point has
// already been notified about. It is nil until the first digest is sent,
// is mutated only by the digest scheduler, and only after a successful
// dispatch. Advancement is monotonic; regressions are ignored.
type Membership struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`

	Tier Tier `bson:"tier" json:"tier"`

	// Muted suppresses digests for this group only. It does not affect
	// content access.
	Muted bool `bson:"muted" json:"muted"`

	JoinedAt       time.Time  `bson:"joined_at" json:"joined_at"`
	LastNotifiedAt *time.Time `bson:"last_notified_at,omitempty" json:"last_notified_at,omitempty"`
}
