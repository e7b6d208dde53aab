// internal/app/features/discussions/view.go
package discussions

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	"github.com/agorahub/agorahub/internal/app/policy/grouppolicy"
	commentstore "github.com/agorahub/agorahub/internal/app/store/comments"
	discussionstore "github.com/agorahub/agorahub/internal/app/store/discussions"
	groupstore "github.com/agorahub/agorahub/internal/app/store/groups"
	readmarkerstore "github.com/agorahub/agorahub/internal/app/store/readmarkers"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type discussionViewResponse struct {
	Discussion models.Discussion `json:"discussion"`
	Comments   []models.Comment  `json:"comments"`

	// FirstUnread is the 1-based position of the first comment the
	// viewer had not read before this request, or 0 when everything was
	// already read. Clients use it as a scroll anchor.
	FirstUnread int64 `json:"first_unread"`
}

// ServeDiscussionView handles GET /groups/{groupID}/discussions/{id}.
// Viewing marks the thread read up to its current comment count; the
// marker never moves backward, so a stale revisit cannot resurrect
// unread state.
func (h *Handler) ServeDiscussionView(w http.ResponseWriter, r *http.Request) {
	gid, ok := pathID(r, "groupID")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad group id")
		return
	}
	did, ok := pathID(r, "id")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad discussion id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	grpStore := groupstore.New(h.DB)
	group, err := grpStore.GetByID(ctx, gid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "group not found")
			return
		}
		h.Log.Warn("group GetByID failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	uid := primitive.NilObjectID
	if u, signed := auth.CurrentUser(r); signed {
		uid = u.UserID()
	}

	canView, err := grouppolicy.CanViewContent(ctx, h.DB, group, uid)
	if err != nil {
		h.Log.Warn("view policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if !canView {
		uierrors.RenderForbidden(w, r, "this group's content is restricted to confirmed members")
		return
	}

	discStore := discussionstore.New(h.DB)
	disc, err := discStore.GetByID(ctx, did)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "discussion not found")
			return
		}
		h.Log.Warn("discussion GetByID failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if disc.GroupID != gid {
		uierrors.RenderNotFound(w, r, "discussion not found")
		return
	}

	cmtStore := commentstore.New(h.DB)
	comments, err := cmtStore.ListByDiscussion(ctx, did)
	if err != nil {
		h.Log.Warn("comments list failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	var firstUnread int64
	if !uid.IsZero() {
		rmStore := readmarkerstore.New(h.DB)
		previous, err := rmStore.MarkRead(ctx, uid, did, disc.TotalComments)
		if err != nil {
			h.Log.Warn("mark read failed", zap.Error(err))
			uierrors.RenderServerError(w, r)
			return
		}
		if previous < disc.TotalComments {
			firstUnread = previous + 1
		}
	}

	if comments == nil {
		comments = []models.Comment{}
	}
	shared.JSON(w, http.StatusOK, discussionViewResponse{
		Discussion:  disc,
		Comments:    comments,
		FirstUnread: firstUnread,
	})
}
