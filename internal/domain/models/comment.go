// internal/domain/models/comment.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment is a single reply inside a discussion.
type Comment struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	DiscussionID primitive.ObjectID `bson:"discussion_id" json:"discussion_id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"` // author

	Body string `bson:"body" json:"body"` // sanitized HTML

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
