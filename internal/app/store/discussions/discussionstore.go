// internal/app/store/discussions/discussionstore.go
package discussionstore

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
	return &Store{c: db.Collection("discussions")}
}

// Create inserts a new discussion. TotalComments starts at 1: the opening
// post itself counts as a comment, so a brand-new discussion is unread for
// everyone who has not viewed it.
func (s *Store) Create(ctx context.Context, d models.Discussion) (models.Discussion, error) {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.TotalComments = 1
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Discussion{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Discussion, error) {
	var d models.Discussion
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		return models.Discussion{}, err
	}
	return d, nil
}

// ListByGroup returns the group's discussions, most recently updated
// first. limit <= 0 means no limit.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, limit int64) ([]models.Discussion, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Discussion
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// IncrementComments bumps total_comments by one and touches updated_at.
// Called exactly once per accepted comment; the counter never decreases.
func (s *Store) IncrementComments(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"total_comments": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// UpdateContent edits the discussion's name and body and touches
// updated_at, which makes the discussion count as new activity for
// digest purposes.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, name, body string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"name":       name,
			"body":       body,
			"updated_at": time.Now().UTC(),
		},
	})
	return err
}

// Delete removes a discussion. Read markers referencing it become stale;
// they are harmless because unread computation never consults markers for
// discussions that no longer exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
