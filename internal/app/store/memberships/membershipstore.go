// internal/app/store/memberships/membershipstore.go
package membershipstore

// Terminology: Watermark
//   - last_notified_at is the digest watermark for a membership: activity
//     at or before this instant has already been notified about. It only
//     moves forward; AdvanceWatermark silently ignores regressions.

import (
	"context"
	"errors"
	"time"

	"github.com/agorahub/agorahub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c     *mongo.Collection
	users *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:     db.Collection("memberships"),
		users: db.Collection("users"),
	}
}

var (
	// ErrDuplicateMembership is returned when the (user, group) pair already has a membership.
	ErrDuplicateMembership = errors.New("user already has a membership in this group")

	errBadTier = errors.New("tier must be none, applicant, member, or admin")
)

// Join creates a membership at the given tier.
func (s *Store) Join(ctx context.Context, userID, groupID primitive.ObjectID, tier models.Tier) (models.Membership, error) {
	if !tier.Valid() {
		return models.Membership{}, errBadTier
	}

	m := models.Membership{
		ID:       primitive.NewObjectID(),
		UserID:   userID,
		GroupID:  groupID,
		Tier:     tier,
		JoinedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Membership{}, ErrDuplicateMembership
		}
		return models.Membership{}, err
	}
	return m, nil
}

// Get loads the membership for (userID, groupID).
// Returns mongo.ErrNoDocuments if none exists.
func (s *Store) Get(ctx context.Context, userID, groupID primitive.ObjectID) (models.Membership, error) {
	var m models.Membership
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "group_id": groupID}).Decode(&m)
	if err != nil {
		return models.Membership{}, err
	}
	return m, nil
}

// TierOf returns the tier for (userID, groupID). A missing membership is
// TierNone, not an error.
func (s *Store) TierOf(ctx context.Context, userID, groupID primitive.ObjectID) (models.Tier, error) {
	m, err := s.Get(ctx, userID, groupID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.TierNone, nil
		}
		return models.TierNone, err
	}
	return m.Tier, nil
}

// Promote raises the membership to the given tier. Normal flow is
// applicant -> member -> admin; Promote never lowers a tier (use Remove
// to reset to none).
func (s *Store) Promote(ctx context.Context, userID, groupID primitive.ObjectID, tier models.Tier) error {
	if !tier.Valid() || tier == models.TierNone {
		return errBadTier
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "group_id": groupID, "tier": bson.M{"$lt": tier}},
		bson.M{"$set": bson.M{"tier": tier}},
	)
	return err
}

// Remove deletes the membership document for (userID, groupID), resetting
// the pair to TierNone. The watermark is discarded with it: a user who
// rejoins is "never notified" again.
func (s *Store) Remove(ctx context.Context, userID, groupID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "group_id": groupID})
	return err
}

// SetMuted toggles digest delivery for this group only. Returns
// mongo.ErrNoDocuments when no membership exists for the pair.
func (s *Store) SetMuted(ctx context.Context, userID, groupID primitive.ObjectID, muted bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "group_id": groupID},
		bson.M{"$set": bson.M{"muted": muted}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// AdvanceWatermark sets last_notified_at = at for (userID, groupID),
// but only when it moves the watermark forward. Setting an earlier or
// equal value is a silent no-op: it denotes a logic race, never a fault,
// and applying it would "un-notify" a window that already fired.
func (s *Store) AdvanceWatermark(ctx context.Context, userID, groupID primitive.ObjectID, at time.Time) error {
	at = at.UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{
			"user_id":  userID,
			"group_id": groupID,
			"$or": bson.A{
				bson.M{"last_notified_at": bson.M{"$exists": false}},
				bson.M{"last_notified_at": nil},
				bson.M{"last_notified_at": bson.M{"$lt": at}},
			},
		},
		bson.M{"$set": bson.M{"last_notified_at": at}},
	)
	return err
}

// ListForGroup returns all memberships in a group, highest tier first.
func (s *Store) ListForGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{{Key: "tier", Value: -1}, {Key: "user_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Membership
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
