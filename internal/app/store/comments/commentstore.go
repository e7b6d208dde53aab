// internal/app/store/comments/commentstore.go
package commentstore

import (
	"context"
	"time"

	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("comments")}
}

// Create inserts a comment. The caller is responsible for bumping the
// discussion's total_comments counter (discussionstore.IncrementComments)
// so that insert and counter always move together in the handler.
func (s *Store) Create(ctx context.Context, c models.Comment) (models.Comment, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Comment, error) {
	var c models.Comment
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// ListByDiscussion returns the discussion's comments oldest first.
func (s *Store) ListByDiscussion(ctx context.Context, discussionID primitive.ObjectID) ([]models.Comment, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"discussion_id": discussionID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Comment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateBody edits a comment in place. Editing a comment does not change
// the discussion's total_comments; the handler touches the discussion's
// updated_at separately.
func (s *Store) UpdateBody(ctx context.Context, id primitive.ObjectID, body string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"body": body, "updated_at": time.Now().UTC()},
	})
	return err
}

// Delete removes a comment. total_comments is intentionally not
// decremented: the counter is monotonic and read markers must never move
// backwards relative to it.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
