package grouppolicy_test

import (
	"testing"

	"github.com/agorahub/agorahub/internal/app/policy/grouppolicy"
	"github.com/agorahub/agorahub/internal/domain/models"
	"github.com/agorahub/agorahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTierEligibility(t *testing.T) {
	tests := []struct {
		tier models.Tier
		want bool
	}{
		{models.TierNone, false},
		{models.TierApplicant, false},
		{models.TierMember, true},
		{models.TierAdmin, true},
	}
	for _, tt := range tests {
		if got := tt.tier.EligibleForContent(); got != tt.want {
			t.Errorf("%v.EligibleForContent() = %v, want %v", tt.tier, got, tt.want)
		}
	}
}

func TestCanViewContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	open := fx.CreateGroup(ctx, "Open Group")
	closed := fx.CreateClosedGroup(ctx, "Closed Group")

	member := fx.CreateUser(ctx, "Member", "member@example.com")
	applicant := fx.CreateUser(ctx, "Applicant", "applicant@example.com")
	fx.CreateMembership(ctx, member.ID, closed.ID, models.TierMember)
	fx.CreateMembership(ctx, applicant.ID, closed.ID, models.TierApplicant)

	tests := []struct {
		name   string
		group  models.Group
		userID primitive.ObjectID
		want   bool
	}{
		{"anonymous sees open group", open, primitive.NilObjectID, true},
		{"anonymous blocked from closed group", closed, primitive.NilObjectID, false},
		{"outsider blocked from closed group", closed, primitive.NewObjectID(), false},
		{"applicant blocked from closed group", closed, applicant.ID, false},
		{"member sees closed group", closed, member.ID, true},
		{"outsider sees open group", open, primitive.NewObjectID(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := grouppolicy.CanViewContent(ctx, db, tt.group, tt.userID)
			if err != nil {
				t.Fatalf("CanViewContent: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanViewContent = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanCreateContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	// Open visibility does not grant posting rights: only members post.
	group := fx.CreateGroup(ctx, "Open Group")

	member := fx.CreateUser(ctx, "Member", "member@example.com")
	applicant := fx.CreateUser(ctx, "Applicant", "applicant@example.com")
	fx.CreateMembership(ctx, member.ID, group.ID, models.TierMember)
	fx.CreateMembership(ctx, applicant.ID, group.ID, models.TierApplicant)

	tests := []struct {
		name   string
		userID primitive.ObjectID
		want   bool
	}{
		{"anonymous cannot post", primitive.NilObjectID, false},
		{"outsider cannot post", primitive.NewObjectID(), false},
		{"applicant cannot post", applicant.ID, false},
		{"member can post", member.ID, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := grouppolicy.CanCreateContent(ctx, db, group.ID, tt.userID)
			if err != nil {
				t.Fatalf("CanCreateContent: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanCreateContent = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanManageGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)

	group := fx.CreateGroup(ctx, "Managed Group")

	admin := fx.CreateUser(ctx, "Admin", "admin@example.com")
	member := fx.CreateUser(ctx, "Member", "member@example.com")
	fx.CreateMembership(ctx, admin.ID, group.ID, models.TierAdmin)
	fx.CreateMembership(ctx, member.ID, group.ID, models.TierMember)

	if ok, err := grouppolicy.CanManageGroup(ctx, db, group.ID, admin.ID); err != nil || !ok {
		t.Errorf("admin must manage the group (ok=%v err=%v)", ok, err)
	}
	if ok, err := grouppolicy.CanManageGroup(ctx, db, group.ID, member.ID); err != nil || ok {
		t.Errorf("plain member must not manage the group (ok=%v err=%v)", ok, err)
	}
	if ok, err := grouppolicy.CanManageGroup(ctx, db, group.ID, primitive.NilObjectID); err != nil || ok {
		t.Errorf("anonymous must not manage the group (ok=%v err=%v)", ok, err)
	}
}
