package comments_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agorahub/agorahub/internal/app/features/comments"
	discussionstore "github.com/agorahub/agorahub/internal/app/store/discussions"
	readmarkerstore "github.com/agorahub/agorahub/internal/app/store/readmarkers"
	"github.com/agorahub/agorahub/internal/domain/models"
	"github.com/agorahub/agorahub/internal/testutil"
	"go.uber.org/zap"
)

func TestCreateCommentBumpsCounterAndMarker(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := comments.NewHandler(db, zap.NewNop())

	user := fx.CreateUser(ctx, "Commenter", "commenter@example.com")
	group := fx.CreateGroup(ctx, "Open Group")
	fx.CreateMembership(ctx, user.ID, group.ID, models.TierMember)
	disc := fx.CreateDiscussion(ctx, group.ID, user.ID, "thread", 3)

	body := `{"body": "<p>a reply</p>"}`
	req := httptest.NewRequest("POST", "/discussions/"+disc.ID.Hex()+"/comments", strings.NewReader(body))
	req = testutil.SignedIn(req, user)
	req = testutil.WithChiURLParam(req, "discussionID", disc.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleCreateComment(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var created models.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if created.DiscussionID != disc.ID {
		t.Errorf("comment attached to %s, want %s", created.DiscussionID.Hex(), disc.ID.Hex())
	}

	got, err := discussionstore.New(db).GetByID(ctx, disc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TotalComments != 4 {
		t.Errorf("TotalComments = %d, want 4", got.TotalComments)
	}

	// The author's marker absorbed their own comment.
	count, err := readmarkerstore.New(db).ReadCountFor(ctx, user.ID, disc.ID)
	if err != nil {
		t.Fatalf("ReadCountFor: %v", err)
	}
	if count != 4 {
		t.Errorf("author read count = %d, want 4", count)
	}
}

func TestCreateCommentRequiresMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := comments.NewHandler(db, zap.NewNop())

	author := fx.CreateUser(ctx, "Author", "author@example.com")
	outsider := fx.CreateUser(ctx, "Outsider", "outsider@example.com")
	group := fx.CreateGroup(ctx, "Open Group")
	fx.CreateMembership(ctx, author.ID, group.ID, models.TierMember)
	disc := fx.CreateDiscussion(ctx, group.ID, author.ID, "thread", 1)

	req := httptest.NewRequest("POST", "/discussions/"+disc.ID.Hex()+"/comments", strings.NewReader(`{"body": "hi"}`))
	req = testutil.SignedIn(req, outsider)
	req = testutil.WithChiURLParam(req, "discussionID", disc.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleCreateComment(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestCreateCommentRejectsEmptyBody(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := comments.NewHandler(db, zap.NewNop())

	user := fx.CreateUser(ctx, "Commenter", "commenter@example.com")
	group := fx.CreateGroup(ctx, "Open Group")
	fx.CreateMembership(ctx, user.ID, group.ID, models.TierMember)
	disc := fx.CreateDiscussion(ctx, group.ID, user.ID, "thread", 1)

	// Sanitizing strips the markup, leaving nothing.
	req := httptest.NewRequest("POST", "/discussions/"+disc.ID.Hex()+"/comments", strings.NewReader(`{"body": "<script>x()</script>"}`))
	req = testutil.SignedIn(req, user)
	req = testutil.WithChiURLParam(req, "discussionID", disc.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleCreateComment(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestEditCommentAuthorOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := comments.NewHandler(db, zap.NewNop())

	author := fx.CreateUser(ctx, "Author", "author@example.com")
	other := fx.CreateUser(ctx, "Other", "other@example.com")
	group := fx.CreateGroup(ctx, "Open Group")
	fx.CreateMembership(ctx, author.ID, group.ID, models.TierMember)
	fx.CreateMembership(ctx, other.ID, group.ID, models.TierMember)
	disc := fx.CreateDiscussion(ctx, group.ID, author.ID, "thread", 1)
	cmt := fx.CreateComment(ctx, disc.ID, author.ID, "<p>original</p>")

	// A plain member who is not the author cannot edit.
	req := httptest.NewRequest("POST", "/discussions/"+disc.ID.Hex()+"/comments/"+cmt.ID.Hex()+"/edit", strings.NewReader(`{"body": "<p>hijacked</p>"}`))
	req = testutil.SignedIn(req, other)
	req = testutil.WithChiURLParam(req, "discussionID", disc.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", cmt.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleEditComment(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("non-author edit status = %d, want %d", rec.Code, http.StatusForbidden)
	}

	// The author can.
	req = httptest.NewRequest("POST", "/discussions/"+disc.ID.Hex()+"/comments/"+cmt.ID.Hex()+"/edit", strings.NewReader(`{"body": "<p>revised</p>"}`))
	req = testutil.SignedIn(req, author)
	req = testutil.WithChiURLParam(req, "discussionID", disc.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", cmt.ID.Hex())
	rec = httptest.NewRecorder()

	h.HandleEditComment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("author edit status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestDeleteCommentKeepsCounter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := comments.NewHandler(db, zap.NewNop())

	author := fx.CreateUser(ctx, "Author", "author@example.com")
	group := fx.CreateGroup(ctx, "Open Group")
	fx.CreateMembership(ctx, author.ID, group.ID, models.TierMember)
	disc := fx.CreateDiscussion(ctx, group.ID, author.ID, "thread", 2)
	cmt := fx.CreateComment(ctx, disc.ID, author.ID, "<p>going away</p>")

	req := httptest.NewRequest("POST", "/discussions/"+disc.ID.Hex()+"/comments/"+cmt.ID.Hex()+"/delete", nil)
	req = testutil.SignedIn(req, author)
	req = testutil.WithChiURLParam(req, "discussionID", disc.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", cmt.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleDeleteComment(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	// The counter stays put; read markers simply clamp.
	got, err := discussionstore.New(db).GetByID(ctx, disc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.TotalComments != 2 {
		t.Errorf("TotalComments after delete = %d, want 2 unchanged", got.TotalComments)
	}
}
