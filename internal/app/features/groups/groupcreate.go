// internal/app/features/groups/groupcreate.go
package groups

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	groupstore "github.com/agorahub/agorahub/internal/app/store/groups"
	membershipstore "github.com/agorahub/agorahub/internal/app/store/memberships"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/htmlsanitize"
	"github.com/agorahub/agorahub/internal/app/system/normalize"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.uber.org/zap"
)

type createGroupInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Open        bool   `json:"open"`
}

// HandleCreateGroup processes POST /groups. The creator becomes the
// group's first admin.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return
	}
	uid := u.UserID()

	var in createGroupInput
	if err := shared.Decode(r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, "invalid request body")
		return
	}
	in.Name = normalize.Name(in.Name)
	if in.Name == "" {
		uierrors.RenderBadRequest(w, r, "name is required")
		return
	}
	if len(in.Name) > 200 {
		uierrors.RenderBadRequest(w, r, "name is too long")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	grpStore := groupstore.New(h.DB)
	group, err := grpStore.Create(ctx, models.Group{
		Name:        in.Name,
		Description: htmlsanitize.Sanitize(in.Description),
		Open:        in.Open,
	})
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateGroupName) {
			uierrors.RenderConflict(w, r, "a group with this name already exists")
			return
		}
		h.Log.Warn("group create failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	memStore := membershipstore.New(h.DB)
	if _, err := memStore.Join(ctx, uid, group.ID, models.TierAdmin); err != nil {
		// The group exists but its creator holds no membership; surface
		// the failure rather than leave an orphaned group silently.
		h.Log.Error("creator membership failed",
			zap.String("group_id", group.ID.Hex()),
			zap.String("user_id", uid.Hex()),
			zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	shared.JSON(w, http.StatusCreated, group)
}
