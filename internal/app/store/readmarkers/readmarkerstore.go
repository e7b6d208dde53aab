// internal/app/store/readmarkers/readmarkerstore.go
package readmarkerstore

// Terminology: Read marker
//   - read_comments is the discussion's total_comments as of the user's
//     last view. Absent marker == never read == 0. The value is clamped
//     with $max so a concurrent stale view can never rewind it.

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("read_markers")}
}

// MarkRead upserts the marker for (userID, discussionID) to totalComments,
// returning the previous read count so the view layer can anchor "first
// unread comment". Calling it twice with no new comments changes read_at
// only; read_comments is idempotent.
func (s *Store) MarkRead(ctx context.Context, userID, discussionID primitive.ObjectID, totalComments int64) (previous int64, err error) {
	previous, err = s.markReadOnce(ctx, userID, discussionID, totalComments)
	if wafflemongo.IsDup(err) {
		// Two concurrent first views can both miss the filter and race
		// their inserts into the unique (user_id, discussion_id) index.
		// The loser retries against the marker the winner just created.
		previous, err = s.markReadOnce(ctx, userID, discussionID, totalComments)
	}
	return previous, err
}

func (s *Store) markReadOnce(ctx context.Context, userID, discussionID primitive.ObjectID, totalComments int64) (previous int64, err error) {
	var before struct {
		ReadComments int64 `bson:"read_comments"`
	}
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": userID, "discussion_id": discussionID},
		bson.M{
			"$max": bson.M{"read_comments": totalComments},
			"$set": bson.M{"read_at": time.Now().UTC()},
			"$setOnInsert": bson.M{
				"user_id":       userID,
				"discussion_id": discussionID,
			},
		},
		options.FindOneAndUpdate().
			SetUpsert(true).
			SetReturnDocument(options.Before),
	).Decode(&before)
	if err != nil {
		// First view: the upsert inserted a fresh marker, there is no
		// "before" document.
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return before.ReadComments, nil
}

// ReadCountFor returns read_comments for (userID, discussionID).
// A missing marker means never read and yields 0.
func (s *Store) ReadCountFor(ctx context.Context, userID, discussionID primitive.ObjectID) (int64, error) {
	var m struct {
		ReadComments int64 `bson:"read_comments"`
	}
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "discussion_id": discussionID}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}
	return m.ReadComments, nil
}

// ReadCountsFor batch-loads read counts for one user across many
// discussions. Discussions with no marker are simply absent from the map.
func (s *Store) ReadCountsFor(ctx context.Context, userID primitive.ObjectID, discussionIDs []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	out := make(map[primitive.ObjectID]int64, len(discussionIDs))
	if len(discussionIDs) == 0 {
		return out, nil
	}

	cur, err := s.c.Find(ctx, bson.M{
		"user_id":       userID,
		"discussion_id": bson.M{"$in": discussionIDs},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var m struct {
			DiscussionID primitive.ObjectID `bson:"discussion_id"`
			ReadComments int64              `bson:"read_comments"`
		}
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out[m.DiscussionID] = m.ReadComments
	}
	return out, cur.Err()
}
