// internal/app/policy/grouppolicy.go
package grouppolicy

import (
	"context"
	"errors"

	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// TierOf returns the membership tier for (userID, groupID) according to
// the authoritative memberships collection. A missing membership is
// TierNone, not an error.
func TierOf(ctx context.Context, db *mongo.Database, groupID, userID primitive.ObjectID) (models.Tier, error) {
	var m struct {
		Tier models.Tier `bson:"tier"`
	}
	err := db.Collection("memberships").FindOne(ctx, bson.M{
		"group_id": groupID,
		"user_id":  userID,
	}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.TierNone, nil
		}
		return models.TierNone, err
	}
	return m.Tier, nil
}

// CanViewContent reports whether the user may read the group's
// discussions and actions. Open groups are world-readable (including
// anonymous visitors, userID == NilObjectID); closed groups require a
// tier strictly above the applicant boundary.
func CanViewContent(ctx context.Context, db *mongo.Database, g models.Group, userID primitive.ObjectID) (bool, error) {
	if g.Open {
		return true, nil
	}
	if userID == primitive.NilObjectID {
		return false, nil
	}
	tier, err := TierOf(ctx, db, g.ID, userID)
	if err != nil {
		return false, err
	}
	return tier.EligibleForContent(), nil
}

// CanCreateContent reports whether the user may post discussions,
// comments, or actions in the group. Applicants cannot, regardless of
// group visibility.
func CanCreateContent(ctx context.Context, db *mongo.Database, groupID, userID primitive.ObjectID) (bool, error) {
	if userID == primitive.NilObjectID {
		return false, nil
	}
	tier, err := TierOf(ctx, db, groupID, userID)
	if err != nil {
		return false, err
	}
	return tier.EligibleForContent(), nil
}

// CanManageGroup reports whether the user can edit the group, confirm
// applicants, or remove members. Requires the admin tier. Returns an
// error only on database failure, so callers can distinguish "not
// authorized" (false, nil) from "check failed" (false, err).
func CanManageGroup(ctx context.Context, db *mongo.Database, groupID, userID primitive.ObjectID) (bool, error) {
	if userID == primitive.NilObjectID {
		return false, nil
	}
	tier, err := TierOf(ctx, db, groupID, userID)
	if err != nil {
		return false, err
	}
	return tier >= models.TierAdmin, nil
}
