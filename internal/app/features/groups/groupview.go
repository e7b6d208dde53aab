// internal/app/features/groups/groupview.go
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
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type groupViewResponse struct {
	Group      models.Group `json:"group"`
	ViewerTier models.Tier  `json:"viewer_tier"`
	CanView    bool         `json:"can_view_content"`
	CanManage  bool         `json:"can_manage"`
}

// ServeGroupView handles GET /groups/{id}. The group's card (name,
// description, open flag) is always visible; the response also reports
// what the viewer may do inside the group.
func (h *Handler) ServeGroupView(w http.ResponseWriter, r *http.Request) {
	gid, ok := pathID(r, "id")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
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

	tier, err := grouppolicy.TierOf(ctx, h.DB, gid, uid)
	if err != nil {
		h.Log.Warn("tier lookup failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	canView, err := grouppolicy.CanViewContent(ctx, h.DB, group, uid)
	if err != nil {
		h.Log.Warn("view policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	canManage, err := grouppolicy.CanManageGroup(ctx, h.DB, gid, uid)
	if err != nil {
		h.Log.Warn("manage policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	shared.JSON(w, http.StatusOK, groupViewResponse{
		Group:      group,
		ViewerTier: tier,
		CanView:    canView,
		CanManage:  canManage,
	})
}
