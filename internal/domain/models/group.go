// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a community of users sharing discussions and calendar actions.
//
// NOTE:
//   - Member lists are not embedded on Group; membership is stored in the
//     memberships collection, one document per (user, group) pair.
//   - Open controls visibility only. It never gates digests directly;
//     digest eligibility is always decided through Membership.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`

	// Open groups are world-readable and joinable as a member outright.
	// Closed groups require an admin to confirm applicants.
	Open bool `bson:"open" json:"open"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
