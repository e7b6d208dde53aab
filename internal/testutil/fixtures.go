package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/agorahub/agorahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a verified test user.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		Verified:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateUnverifiedUser creates a user with an outstanding verification
// token. Unverified users never receive digests.
func (f *Fixtures) CreateUnverifiedUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Email:     email,
		Verified:  false,
		Token:     uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create unverified test user: %v", err)
	}
	return user
}

// CreateGroup creates an open test group.
func (f *Fixtures) CreateGroup(ctx context.Context, name string) models.Group {
	f.t.Helper()
	return f.createGroup(ctx, name, true)
}

// CreateClosedGroup creates a closed test group.
func (f *Fixtures) CreateClosedGroup(ctx context.Context, name string) models.Group {
	f.t.Helper()
	return f.createGroup(ctx, name, false)
}

func (f *Fixtures) createGroup(ctx context.Context, name string, open bool) models.Group {
	now := time.Now().UTC()
	group := models.Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test group description",
		Open:        open,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateMembership links a user to a group at the given tier.
func (f *Fixtures) CreateMembership(ctx context.Context, userID, groupID primitive.ObjectID, tier models.Tier) models.Membership {
	f.t.Helper()

	m := models.Membership{
		ID:       primitive.NewObjectID(),
		UserID:   userID,
		GroupID:  groupID,
		Tier:     tier,
		JoinedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// CreateDiscussion creates a discussion with the given comment count.
func (f *Fixtures) CreateDiscussion(ctx context.Context, groupID, authorID primitive.ObjectID, name string, totalComments int64) models.Discussion {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Discussion{
		ID:            primitive.NewObjectID(),
		GroupID:       groupID,
		UserID:        authorID,
		Name:          name,
		Body:          "<p>Test discussion body</p>",
		TotalComments: totalComments,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := f.db.Collection("discussions").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test discussion: %v", err)
	}
	return d
}

// CreateComment appends a comment to a discussion. The discussion's
// counter is not touched; tests that care bump it explicitly.
func (f *Fixtures) CreateComment(ctx context.Context, discussionID, authorID primitive.ObjectID, body string) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Comment{
		ID:           primitive.NewObjectID(),
		DiscussionID: discussionID,
		UserID:       authorID,
		Body:         body,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("comments").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	return c
}

// CreateReadMarker records that a user has read the first readComments
// comments of a discussion.
func (f *Fixtures) CreateReadMarker(ctx context.Context, userID, discussionID primitive.ObjectID, readComments int64) models.ReadMarker {
	f.t.Helper()

	m := models.ReadMarker{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		DiscussionID: discussionID,
		ReadComments: readComments,
		ReadAt:       time.Now().UTC(),
	}

	if _, err := f.db.Collection("read_markers").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test read marker: %v", err)
	}
	return m
}
