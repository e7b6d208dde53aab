// internal/app/features/discussions/edit.go
package discussions

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	"github.com/agorahub/agorahub/internal/app/policy/grouppolicy"
	discussionstore "github.com/agorahub/agorahub/internal/app/store/discussions"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/htmlsanitize"
	"github.com/agorahub/agorahub/internal/app/system/normalize"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type editDiscussionInput struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// loadForWrite fetches the discussion and checks the caller may modify
// it: the author always can, group admins can moderate.
func (h *Handler) loadForWrite(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Discussion, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return models.Discussion{}, false
	}
	gid, ok := pathID(r, "groupID")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad group id")
		return models.Discussion{}, false
	}
	did, ok := pathID(r, "id")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad discussion id")
		return models.Discussion{}, false
	}

	discStore := discussionstore.New(h.DB)
	disc, err := discStore.GetByID(ctx, did)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "discussion not found")
			return models.Discussion{}, false
		}
		h.Log.Warn("discussion GetByID failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return models.Discussion{}, false
	}
	if disc.GroupID != gid {
		uierrors.RenderNotFound(w, r, "discussion not found")
		return models.Discussion{}, false
	}

	if disc.UserID == u.UserID() {
		return disc, true
	}
	canManage, err := grouppolicy.CanManageGroup(ctx, h.DB, gid, u.UserID())
	if err != nil {
		h.Log.Warn("manage policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return models.Discussion{}, false
	}
	if !canManage {
		uierrors.RenderForbidden(w, r, "only the author or a group admin can modify this discussion")
		return models.Discussion{}, false
	}
	return disc, true
}

// HandleEditDiscussion processes POST /groups/{groupID}/discussions/{id}/edit.
// Edits bump updated_at, so already-notified members get the change in
// their next digest.
func (h *Handler) HandleEditDiscussion(w http.ResponseWriter, r *http.Request) {
	var in editDiscussionInput
	if err := shared.Decode(r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, "invalid request body")
		return
	}
	in.Name = normalize.Name(in.Name)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	disc, ok := h.loadForWrite(ctx, w, r)
	if !ok {
		return
	}

	discStore := discussionstore.New(h.DB)
	if err := discStore.UpdateContent(ctx, disc.ID, in.Name, htmlsanitize.Sanitize(in.Body)); err != nil {
		h.Log.Warn("discussion update failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	updated, err := discStore.GetByID(ctx, disc.ID)
	if err != nil {
		h.Log.Warn("discussion reload failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}

// HandleDeleteDiscussion processes POST /groups/{groupID}/discussions/{id}/delete.
// Comments and read markers for the thread are removed with it.
func (h *Handler) HandleDeleteDiscussion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	disc, ok := h.loadForWrite(ctx, w, r)
	if !ok {
		return
	}

	_, _ = h.DB.Collection("comments").DeleteMany(ctx, bson.M{"discussion_id": disc.ID})
	_, _ = h.DB.Collection("read_markers").DeleteMany(ctx, bson.M{"discussion_id": disc.ID})

	discStore := discussionstore.New(h.DB)
	deleted, err := discStore.Delete(ctx, disc.ID)
	if err != nil {
		h.Log.Warn("discussion delete failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if deleted == 0 {
		uierrors.RenderNotFound(w, r, "discussion not found")
		return
	}

	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
