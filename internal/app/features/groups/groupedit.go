// internal/app/features/groups/groupedit.go
package groups

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	"github.com/agorahub/agorahub/internal/app/policy/grouppolicy"
	groupstore "github.com/agorahub/agorahub/internal/app/store/groups"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/htmlsanitize"
	"github.com/agorahub/agorahub/internal/app/system/normalize"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type editGroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Open        bool   `json:"open"`
}

// HandleEditGroup processes POST /groups/{id}/edit. Group admins only.
func (h *Handler) HandleEditGroup(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return
	}
	gid, ok := pathID(r, "id")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad group id")
		return
	}

	var in editGroupInput
	if err := shared.Decode(r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, "invalid request body")
		return
	}
	in.Name = normalize.Name(in.Name)
	if len(in.Name) > 200 {
		uierrors.RenderBadRequest(w, r, "name is too long")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	canManage, err := grouppolicy.CanManageGroup(ctx, h.DB, gid, u.UserID())
	if err != nil {
		h.Log.Warn("manage policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if !canManage {
		uierrors.RenderForbidden(w, r, "only group admins can edit the group")
		return
	}

	grpStore := groupstore.New(h.DB)
	if err := grpStore.UpdateInfo(ctx, gid, in.Name, htmlsanitize.Sanitize(in.Description), in.Open); err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			uierrors.RenderConflict(w, r, "a group with this name already exists")
			return
		}
		h.Log.Warn("group update failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

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
	shared.JSON(w, http.StatusOK, group)
}
