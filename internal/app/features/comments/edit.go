// internal/app/features/comments/edit.go
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
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/htmlsanitize"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type editCommentInput struct {
	Body string `json:"body"`
}

// loadForWrite fetches the comment and checks the caller may modify it:
// the author always can, group admins can moderate.
func (h *Handler) loadForWrite(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Comment, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return models.Comment{}, false
	}
	did, ok := pathID(r, "discussionID")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad discussion id")
		return models.Comment{}, false
	}
	cid, ok := pathID(r, "id")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad comment id")
		return models.Comment{}, false
	}

	cmtStore := commentstore.New(h.DB)
	cmt, err := cmtStore.GetByID(ctx, cid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "comment not found")
			return models.Comment{}, false
		}
		h.Log.Warn("comment GetByID failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return models.Comment{}, false
	}
	if cmt.DiscussionID != did {
		uierrors.RenderNotFound(w, r, "comment not found")
		return models.Comment{}, false
	}

	if cmt.UserID == u.UserID() {
		return cmt, true
	}

	discStore := discussionstore.New(h.DB)
	disc, err := discStore.GetByID(ctx, did)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "discussion not found")
			return models.Comment{}, false
		}
		h.Log.Warn("discussion GetByID failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return models.Comment{}, false
	}
	canManage, err := grouppolicy.CanManageGroup(ctx, h.DB, disc.GroupID, u.UserID())
	if err != nil {
		h.Log.Warn("manage policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return models.Comment{}, false
	}
	if !canManage {
		uierrors.RenderForbidden(w, r, "only the author or a group admin can modify this comment")
		return models.Comment{}, false
	}
	return cmt, true
}

// HandleEditComment processes POST /discussions/{discussionID}/comments/{id}/edit.
// Editing changes the comment body only; it neither bumps the thread
// counter nor re-notifies members.
func (h *Handler) HandleEditComment(w http.ResponseWriter, r *http.Request) {
	var in editCommentInput
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

	cmt, ok := h.loadForWrite(ctx, w, r)
	if !ok {
		return
	}

	cmtStore := commentstore.New(h.DB)
	if err := cmtStore.UpdateBody(ctx, cmt.ID, body); err != nil {
		h.Log.Warn("comment update failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	updated, err := cmtStore.GetByID(ctx, cmt.ID)
	if err != nil {
		h.Log.Warn("comment reload failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}

// HandleDeleteComment processes POST /discussions/{discussionID}/comments/{id}/delete.
// The thread's comment counter is monotonic and is not decremented;
// read markers clamp, so counts stay consistent.
func (h *Handler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cmt, ok := h.loadForWrite(ctx, w, r)
	if !ok {
		return
	}

	cmtStore := commentstore.New(h.DB)
	deleted, err := cmtStore.Delete(ctx, cmt.ID)
	if err != nil {
		h.Log.Warn("comment delete failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if deleted == 0 {
		uierrors.RenderNotFound(w, r, "comment not found")
		return
	}

	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
