// internal/app/features/comments/create.go
package comments

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	"github.com/agorahub/agorahub/internal/app/policy/grouppolicy"
	commentstore "github.com/agorahub/agorahub/internal/app/store/comments"
	discussionstore "github.com/agorahub/agorahub/internal/app/store/discussions"
	groupstore "github.com/agorahub/agorahub/internal/app/store/groups"
	readmarkerstore "github.com/agorahub/agorahub/internal/app/store/readmarkers"
	userstore "github.com/agorahub/agorahub/internal/app/store/users"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/htmlsanitize"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type createCommentInput struct {
	Body string `json:"body"`
}

// HandleCreateComment processes POST /discussions/{discussionID}/comments.
// An accepted comment increments the thread's comment counter exactly
// once and bumps the thread, the group, and the author. The author's
// own read marker absorbs the new comment so their unread count stays
// at zero.
func (h *Handler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return
	}
	uid := u.UserID()

	did, ok := pathID(r, "discussionID")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad discussion id")
		return
	}

	var in createCommentInput
	if err := shared.Decode(r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, "invalid request body")
		return
	}
	body := htmlsanitize.Sanitize(in.Body)
	if strings.TrimSpace(body) == "" {
		uierrors.RenderBadRequest(w, r, "body is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

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

	canCreate, err := grouppolicy.CanCreateContent(ctx, h.DB, disc.GroupID, uid)
	if err != nil {
		h.Log.Warn("create policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if !canCreate {
		uierrors.RenderForbidden(w, r, "only confirmed members can comment")
		return
	}

	cmtStore := commentstore.New(h.DB)
	cmt, err := cmtStore.Create(ctx, models.Comment{
		DiscussionID: did,
		UserID:       uid,
		Body:         body,
	})
	if err != nil {
		h.Log.Warn("comment create failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	if err := discStore.IncrementComments(ctx, did); err != nil {
		h.Log.Error("comment counter failed",
			zap.String("discussion_id", did.Hex()),
			zap.Error(err))
	}

	rmStore := readmarkerstore.New(h.DB)
	if _, err := rmStore.MarkRead(ctx, uid, did, disc.TotalComments+1); err != nil {
		h.Log.Warn("author read marker failed", zap.Error(err))
	}

	grpStore := groupstore.New(h.DB)
	if err := grpStore.Touch(ctx, disc.GroupID); err != nil {
		h.Log.Warn("group touch failed", zap.Error(err))
	}
	usrStore := userstore.New(h.DB)
	if err := usrStore.Touch(ctx, uid); err != nil {
		h.Log.Warn("user touch failed", zap.Error(err))
	}

	shared.JSON(w, http.StatusCreated, cmt)
}
