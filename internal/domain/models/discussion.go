// internal/domain/models/discussion.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discussion is a threaded conversation owned by exactly one group.
//
// TotalComments is a monotonically increasing counter: it starts at 1 on
// creation (the opening post counts as a comment) and is incremented
// exactly once per accepted comment. UpdatedAt is bumped on any comment
// or edit. Unread computation compares TotalComments against the viewer's
// read marker, and UpdatedAt against the membership watermark.
type Discussion struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"` // author

	Name string `bson:"name" json:"name"`
	Body string `bson:"body" json:"body"` // sanitized HTML

	TotalComments int64 `bson:"total_comments" json:"total_comments"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
