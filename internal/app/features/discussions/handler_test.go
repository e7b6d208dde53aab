package discussions_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agorahub/agorahub/internal/app/features/discussions"
	readmarkerstore "github.com/agorahub/agorahub/internal/app/store/readmarkers"
	"github.com/agorahub/agorahub/internal/domain/models"
	"github.com/agorahub/agorahub/internal/testutil"
	"go.uber.org/zap"
)

func TestCreateDiscussionAuthorStartsRead(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := discussions.NewHandler(db, zap.NewNop())

	user := fx.CreateUser(ctx, "Author", "author@example.com")
	group := fx.CreateGroup(ctx, "Open Group")
	fx.CreateMembership(ctx, user.ID, group.ID, models.TierMember)

	body := `{"name": "First thread", "body": "<p>hello</p><script>x</script>"}`
	req := httptest.NewRequest("POST", "/groups/"+group.ID.Hex()+"/discussions", strings.NewReader(body))
	req = testutil.SignedIn(req, user)
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleCreateDiscussion(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	var created models.Discussion
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if created.TotalComments != 1 {
		t.Errorf("TotalComments = %d, want 1 (the opening post)", created.TotalComments)
	}
	if strings.Contains(created.Body, "<script>") {
		t.Errorf("body not sanitized: %q", created.Body)
	}

	// The author has read their own opening post.
	count, err := readmarkerstore.New(db).ReadCountFor(ctx, user.ID, created.ID)
	if err != nil {
		t.Fatalf("ReadCountFor: %v", err)
	}
	if count != 1 {
		t.Errorf("author read count = %d, want 1", count)
	}
}

func TestCreateDiscussionRequiresMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := discussions.NewHandler(db, zap.NewNop())

	user := fx.CreateUser(ctx, "Outsider", "outsider@example.com")
	group := fx.CreateGroup(ctx, "Open Group")

	body := `{"name": "Drive-by thread", "body": "hi"}`
	req := httptest.NewRequest("POST", "/groups/"+group.ID.Hex()+"/discussions", strings.NewReader(body))
	req = testutil.SignedIn(req, user)
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	rec := httptest.NewRecorder()

	h.HandleCreateDiscussion(rec, req)

	// Open visibility does not grant posting rights.
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestViewMarksReadAndAnchorsFirstUnread(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := discussions.NewHandler(db, zap.NewNop())

	user := fx.CreateUser(ctx, "Reader", "reader@example.com")
	group := fx.CreateGroup(ctx, "Open Group")
	fx.CreateMembership(ctx, user.ID, group.ID, models.TierMember)

	disc := fx.CreateDiscussion(ctx, group.ID, user.ID, "busy thread", 5)
	fx.CreateReadMarker(ctx, user.ID, disc.ID, 2)

	req := httptest.NewRequest("GET", "/groups/"+group.ID.Hex()+"/discussions/"+disc.ID.Hex(), nil)
	req = testutil.SignedIn(req, user)
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", disc.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeDiscussionView(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		FirstUnread int64 `json:"first_unread"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	// 2 of 5 comments were read, so comment 3 is the scroll anchor.
	if resp.FirstUnread != 3 {
		t.Errorf("first_unread = %d, want 3", resp.FirstUnread)
	}

	// The view absorbed all 5 comments into the marker.
	count, err := readmarkerstore.New(db).ReadCountFor(ctx, user.ID, disc.ID)
	if err != nil {
		t.Fatalf("ReadCountFor: %v", err)
	}
	if count != 5 {
		t.Errorf("read count after view = %d, want 5", count)
	}

	// A second view finds nothing unread.
	req = httptest.NewRequest("GET", "/groups/"+group.ID.Hex()+"/discussions/"+disc.ID.Hex(), nil)
	req = testutil.SignedIn(req, user)
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", disc.ID.Hex())
	rec = httptest.NewRecorder()

	h.ServeDiscussionView(rec, req)

	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing second response: %v", err)
	}
	if resp.FirstUnread != 0 {
		t.Errorf("first_unread on revisit = %d, want 0", resp.FirstUnread)
	}
}

func TestViewWrongGroupIs404(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := discussions.NewHandler(db, zap.NewNop())

	user := fx.CreateUser(ctx, "Reader", "reader@example.com")
	home := fx.CreateGroup(ctx, "Home Group")
	other := fx.CreateGroup(ctx, "Other Group")
	disc := fx.CreateDiscussion(ctx, home.ID, user.ID, "thread", 1)

	// The discussion exists, but not under this group.
	req := httptest.NewRequest("GET", "/groups/"+other.ID.Hex()+"/discussions/"+disc.ID.Hex(), nil)
	req = testutil.SignedIn(req, user)
	req = testutil.WithChiURLParam(req, "groupID", other.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", disc.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeDiscussionView(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestListCarriesUnreadCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := discussions.NewHandler(db, zap.NewNop())

	user := fx.CreateUser(ctx, "Reader", "reader@example.com")
	group := fx.CreateGroup(ctx, "Open Group")
	fx.CreateMembership(ctx, user.ID, group.ID, models.TierMember)

	partly := fx.CreateDiscussion(ctx, group.ID, user.ID, "partly read", 6)
	fresh := fx.CreateDiscussion(ctx, group.ID, user.ID, "never opened", 2)
	fx.CreateReadMarker(ctx, user.ID, partly.ID, 4)

	req := httptest.NewRequest("GET", "/groups/"+group.ID.Hex()+"/discussions", nil)
	req = testutil.SignedIn(req, user)
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeDiscussionsList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		Discussions []struct {
			Discussion models.Discussion `json:"discussion"`
			Unread     int64             `json:"unread"`
		} `json:"discussions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parsing response: %v", err)
	}
	if len(resp.Discussions) != 2 {
		t.Fatalf("got %d rows, want 2", len(resp.Discussions))
	}

	unreadByID := map[string]int64{}
	for _, row := range resp.Discussions {
		unreadByID[row.Discussion.ID.Hex()] = row.Unread
	}
	if unreadByID[partly.ID.Hex()] != 2 {
		t.Errorf("partly-read unread = %d, want 2", unreadByID[partly.ID.Hex()])
	}
	if unreadByID[fresh.ID.Hex()] != 2 {
		t.Errorf("unopened unread = %d, want its full count 2", unreadByID[fresh.ID.Hex()])
	}
}

func TestListClosedGroupBlocksAnonymous(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := testutil.TestContext(t)
	fx := testutil.NewFixtures(t, db)
	h := discussions.NewHandler(db, zap.NewNop())

	group := fx.CreateClosedGroup(ctx, "Closed Group")

	req := httptest.NewRequest("GET", "/groups/"+group.ID.Hex()+"/discussions", nil)
	req = testutil.WithChiURLParam(req, "groupID", group.ID.Hex())
	rec := httptest.NewRecorder()

	h.ServeDiscussionsList(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}
