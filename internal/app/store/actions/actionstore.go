// internal/app/store/actions/actionstore.go
package actionstore

import (
	"context"
	"errors"
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
	return &Store{c: db.Collection("actions")}
}

var ErrStopBeforeStart = errors.New("action stop must not precede start")

// Create inserts a calendar action. A zero Stop defaults to Start plus
// one hour.
func (s *Store) Create(ctx context.Context, a models.Action) (models.Action, error) {
	if a.Stop.IsZero() {
		a.Stop = a.Start.Add(time.Hour)
	}
	if a.Stop.Before(a.Start) {
		return models.Action{}, ErrStopBeforeStart
	}

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Action{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Action, error) {
	var a models.Action
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Action{}, err
	}
	return a, nil
}

// ListByGroup returns the group's actions ordered by start time.
// When start/end are both non-zero only actions inside the window are
// returned, matching what a calendar widget requests.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID, start, end time.Time) ([]models.Action, error) {
	filter := bson.M{"group_id": groupID}
	if !start.IsZero() && !end.IsZero() {
		filter["start"] = bson.M{"$gt": start}
		filter["stop"] = bson.M{"$lt": end}
	}

	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "start", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Action
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUpcoming returns actions that have not finished more than a day ago,
// soonest first. Used for the list view of the group agenda.
func (s *Store) ListUpcoming(ctx context.Context, groupID primitive.ObjectID, limit int64) ([]models.Action, error) {
	opts := options.Find().SetSort(bson.D{{Key: "start", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{
		"group_id": groupID,
		"stop":     bson.M{"$gte": time.Now().UTC().Add(-24 * time.Hour)},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Action
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites the mutable fields of an action.
func (s *Store) Update(ctx context.Context, a models.Action) error {
	if a.Stop.IsZero() {
		a.Stop = a.Start.Add(time.Hour)
	}
	if a.Stop.Before(a.Start) {
		return ErrStopBeforeStart
	}
	_, err := s.c.UpdateByID(ctx, a.ID, bson.M{
		"$set": bson.M{
			"name":       a.Name,
			"body":       a.Body,
			"location":   a.Location,
			"start":      a.Start,
			"stop":       a.Stop,
			"updated_at": time.Now().UTC(),
		},
	})
	return err
}

// Delete removes an action by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
