package digest

import (
	"testing"
	"time"

	membershipstore "github.com/agorahub/agorahub/internal/app/store/memberships"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUnread(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		readCount int64
		want      int64
	}{
		{"no marker", 5, 0, 5},
		{"partially read", 5, 3, 2},
		{"fully read", 5, 5, 0},
		{"stale marker ahead of counter", 3, 7, 0},
		{"single comment unread", 1, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := models.Discussion{TotalComments: tt.total}
			if got := Unread(d, tt.readCount); got != tt.want {
				t.Errorf("Unread(total=%d, read=%d) = %d, want %d", tt.total, tt.readCount, got, tt.want)
			}
		})
	}
}

func makeDiscussion(total int64, updatedAt time.Time) models.Discussion {
	return models.Discussion{
		ID:            primitive.NewObjectID(),
		GroupID:       primitive.NewObjectID(),
		Name:          "test discussion",
		TotalComments: total,
		UpdatedAt:     updatedAt,
	}
}

func TestEvaluateNeverNotified(t *testing.T) {
	now := time.Now().UTC()
	c := membershipstore.DigestCandidate{
		UserID:    primitive.NewObjectID(),
		UserName:  "Ada",
		UserEmail: "ada@example.com",
		GroupID:   primitive.NewObjectID(),
		// LastNotifiedAt nil: everything unread contributes.
	}

	unread := makeDiscussion(5, now.Add(-48*time.Hour))
	caughtUp := makeDiscussion(3, now.Add(-2*time.Hour))

	counts := map[primitive.ObjectID]int64{
		unread.ID:   2,
		caughtUp.ID: 3,
	}

	d := Evaluate(c, []models.Discussion{unread, caughtUp}, counts)

	if len(d.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(d.Entries))
	}
	if d.Entries[0].Discussion.ID != unread.ID {
		t.Errorf("wrong discussion in digest")
	}
	if d.Entries[0].Unread != 3 {
		t.Errorf("entry unread = %d, want 3", d.Entries[0].Unread)
	}
	if d.TotalUnread != 3 {
		t.Errorf("TotalUnread = %d, want 3", d.TotalUnread)
	}
	if d.UserEmail != "ada@example.com" || d.UserID != c.UserID || d.GroupID != c.GroupID {
		t.Errorf("candidate identity not carried into digest: %+v", d)
	}
}

func TestEvaluateWatermarkFilters(t *testing.T) {
	now := time.Now().UTC()
	notified := now.Add(-24 * time.Hour)
	c := membershipstore.DigestCandidate{
		UserID:         primitive.NewObjectID(),
		GroupID:        primitive.NewObjectID(),
		LastNotifiedAt: &notified,
	}

	// Unread but stale: already covered by the last notification.
	stale := makeDiscussion(10, notified.Add(-time.Hour))
	// Unread and active since the watermark.
	fresh := makeDiscussion(4, notified.Add(time.Hour))
	// Updated exactly at the watermark: not after, so excluded.
	boundary := makeDiscussion(6, notified)

	d := Evaluate(c, []models.Discussion{stale, fresh, boundary}, nil)

	if len(d.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(d.Entries))
	}
	if d.Entries[0].Discussion.ID != fresh.ID {
		t.Errorf("expected only the fresh discussion")
	}
	if d.TotalUnread != 4 {
		t.Errorf("TotalUnread = %d, want 4", d.TotalUnread)
	}
}

func TestEvaluateOrdering(t *testing.T) {
	now := time.Now().UTC()
	c := membershipstore.DigestCandidate{
		UserID:  primitive.NewObjectID(),
		GroupID: primitive.NewObjectID(),
	}

	oldest := makeDiscussion(1, now.Add(-3*time.Hour))
	middle := makeDiscussion(1, now.Add(-2*time.Hour))
	newest := makeDiscussion(1, now.Add(-1*time.Hour))

	d := Evaluate(c, []models.Discussion{oldest, newest, middle}, nil)

	if len(d.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(d.Entries))
	}
	want := []primitive.ObjectID{newest.ID, middle.ID, oldest.ID}
	for i, id := range want {
		if d.Entries[i].Discussion.ID != id {
			t.Errorf("entry[%d] out of order: most recently updated must come first", i)
		}
	}
}

func TestEvaluateOrderingTieBreak(t *testing.T) {
	ts := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	c := membershipstore.DigestCandidate{
		UserID:  primitive.NewObjectID(),
		GroupID: primitive.NewObjectID(),
	}

	a := makeDiscussion(1, ts)
	b := makeDiscussion(1, ts)

	// Whichever order the inputs arrive in, ties resolve by ID.
	d1 := Evaluate(c, []models.Discussion{a, b}, nil)
	d2 := Evaluate(c, []models.Discussion{b, a}, nil)

	if len(d1.Entries) != 2 || len(d2.Entries) != 2 {
		t.Fatalf("expected 2 entries in both digests")
	}
	if d1.Entries[0].Discussion.ID != d2.Entries[0].Discussion.ID {
		t.Errorf("tie-break ordering is not stable across input permutations")
	}
	if d1.Entries[0].Discussion.ID.Hex() >= d1.Entries[1].Discussion.ID.Hex() {
		t.Errorf("ties must break ascending on ID")
	}
}

func TestEvaluateEmpty(t *testing.T) {
	c := membershipstore.DigestCandidate{
		UserID:  primitive.NewObjectID(),
		GroupID: primitive.NewObjectID(),
	}

	d := Evaluate(c, nil, nil)

	if len(d.Entries) != 0 || d.TotalUnread != 0 {
		t.Errorf("digest over no discussions must be empty, got %+v", d)
	}
}

func TestEvaluateIgnoresMarkersForMissingDiscussions(t *testing.T) {
	now := time.Now().UTC()
	c := membershipstore.DigestCandidate{
		UserID:  primitive.NewObjectID(),
		GroupID: primitive.NewObjectID(),
	}

	d1 := makeDiscussion(2, now)
	counts := map[primitive.ObjectID]int64{
		d1.ID:                   1,
		primitive.NewObjectID(): 99, // marker for a deleted discussion
	}

	d := Evaluate(c, []models.Discussion{d1}, counts)

	if d.TotalUnread != 1 {
		t.Errorf("TotalUnread = %d, want 1; stale markers must not contribute", d.TotalUnread)
	}
}
