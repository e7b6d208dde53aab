// internal/domain/models/action.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is a calendar event owned by a group.
// Start is required; when no stop is supplied the action is assumed to
// last one hour.
type Action struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"` // author

	Name     string `bson:"name" json:"name"`
	Body     string `bson:"body" json:"body"` // sanitized HTML
	Location string `bson:"location,omitempty" json:"location,omitempty"`

	Start time.Time `bson:"start" json:"start"`
	Stop  time.Time `bson:"stop" json:"stop"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
