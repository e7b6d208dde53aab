// internal/domain/models/readmarker.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReadMarker records how far a user has read a discussion.
// At most one document per (user_id, discussion_id); created lazily on the
// first view. A missing marker is equivalent to ReadComments == 0.
//
// ReadComments is monotonically non-decreasing for a given pair: a view
// never rewinds the marker (the store clamps with $max).
type ReadMarker struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	DiscussionID primitive.ObjectID `bson:"discussion_id" json:"discussion_id"`

	ReadComments int64     `bson:"read_comments" json:"read_comments"`
	ReadAt       time.Time `bson:"read_at" json:"read_at"`
}
