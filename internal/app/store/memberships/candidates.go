// internal/app/store/memberships/candidates.go
package membershipstore

import (
	"context"
	"time"

	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// DigestCandidate is a membership that qualifies for digest evaluation:
// tier at least member, user verified, membership not muted. The throttle
// and the unread computation are applied later by the scheduler; this is
// pure eligibility.
type DigestCandidate struct {
	UserID         primitive.ObjectID `bson:"user_id"`
	UserName       string             `bson:"user_name"`
	UserEmail      string             `bson:"user_email"`
	GroupID        primitive.ObjectID `bson:"group_id"`
	LastNotifiedAt *time.Time         `bson:"last_notified_at,omitempty"`
}

// EligibleForDigest enumerates all digest candidates across all groups.
// Muted memberships, applicants, and unverified users never appear,
// regardless of how much unread activity exists.
func (s *Store) EligibleForDigest(ctx context.Context) ([]DigestCandidate, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"tier":  bson.M{"$gte": models.TierMember},
			"muted": bson.M{"$ne": true},
		}}},
		bson.D{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "user_id",
			"foreignField": "_id",
			"as":           "user",
		}}},
		bson.D{{Key: "$unwind", Value: "$user"}},
		bson.D{{Key: "$match", Value: bson.M{"user.verified": true}}},
		bson.D{{Key: "$project", Value: bson.M{
			"user_id":          1,
			"group_id":         1,
			"last_notified_at": 1,
			"user_name":        "$user.name",
			"user_email":       "$user.email",
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []DigestCandidate
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
