// internal/app/features/actions/edit.go
package actions

import (
	"context"
	"errors"
	"net/http"
	"time"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	"github.com/agorahub/agorahub/internal/app/policy/grouppolicy"
	actionstore "github.com/agorahub/agorahub/internal/app/store/actions"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/htmlsanitize"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// loadForWrite fetches the action and checks the caller may modify it:
// the author always can, group admins can moderate.
func (h *Handler) loadForWrite(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Action, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return models.Action{}, false
	}
	gid, ok := pathID(r, "groupID")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad group id")
		return models.Action{}, false
	}
	aid, ok := pathID(r, "id")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad action id")
		return models.Action{}, false
	}

	actStore := actionstore.New(h.DB)
	a, err := actStore.GetByID(ctx, aid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "action not found")
			return models.Action{}, false
		}
		h.Log.Warn("action GetByID failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return models.Action{}, false
	}
	if a.GroupID != gid {
		uierrors.RenderNotFound(w, r, "action not found")
		return models.Action{}, false
	}

	if a.UserID == u.UserID() {
		return a, true
	}
	canManage, err := grouppolicy.CanManageGroup(ctx, h.DB, gid, u.UserID())
	if err != nil {
		h.Log.Warn("manage policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return models.Action{}, false
	}
	if !canManage {
		uierrors.RenderForbidden(w, r, "only the author or a group admin can modify this action")
		return models.Action{}, false
	}
	return a, true
}

// HandleEditAction processes POST /groups/{groupID}/actions/{id}/edit.
func (h *Handler) HandleEditAction(w http.ResponseWriter, r *http.Request) {
	var in actionInput
	if err := shared.Decode(r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, "invalid request body")
		return
	}
	if msg := in.validate(); msg != "" {
		uierrors.RenderBadRequest(w, r, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.loadForWrite(ctx, w, r)
	if !ok {
		return
	}

	a.Name = in.Name
	a.Body = htmlsanitize.Sanitize(in.Body)
	a.Location = in.Location
	a.Start = in.Start
	if in.Stop != nil {
		a.Stop = *in.Stop
	} else {
		a.Stop = time.Time{} // store applies the one-hour default
	}

	actStore := actionstore.New(h.DB)
	if err := actStore.Update(ctx, a); err != nil {
		if errors.Is(err, actionstore.ErrStopBeforeStart) {
			uierrors.RenderBadRequest(w, r, "stop precedes start")
			return
		}
		h.Log.Warn("action update failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	updated, err := actStore.GetByID(ctx, a.ID)
	if err != nil {
		h.Log.Warn("action reload failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	shared.JSON(w, http.StatusOK, updated)
}

// HandleDeleteAction processes POST /groups/{groupID}/actions/{id}/delete.
func (h *Handler) HandleDeleteAction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a, ok := h.loadForWrite(ctx, w, r)
	if !ok {
		return
	}

	actStore := actionstore.New(h.DB)
	deleted, err := actStore.Delete(ctx, a.ID)
	if err != nil {
		h.Log.Warn("action delete failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if deleted == 0 {
		uierrors.RenderNotFound(w, r, "action not found")
		return
	}

	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
