// internal/app/features/groups/groupmembers.go
package groups

import (
	"context"
	"net/http"
	"time"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	"github.com/agorahub/agorahub/internal/app/policy/grouppolicy"
	membershipstore "github.com/agorahub/agorahub/internal/app/store/memberships"
	userstore "github.com/agorahub/agorahub/internal/app/store/users"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.uber.org/zap"
)

type memberRow struct {
	UserID   string      `json:"user_id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Tier     models.Tier `json:"tier"`
	TierName string      `json:"tier_name"`
	Muted    bool        `json:"muted"`
	JoinedAt time.Time   `json:"joined_at"`
}

// ServeGroupMembers handles GET /groups/{id}/members. Group admins see
// the roster including pending applicants.
func (h *Handler) ServeGroupMembers(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	canManage, err := grouppolicy.CanManageGroup(ctx, h.DB, gid, u.UserID())
	if err != nil {
		h.Log.Warn("manage policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if !canManage {
		uierrors.RenderForbidden(w, r, "only group admins can list members")
		return
	}

	memStore := membershipstore.New(h.DB)
	members, err := memStore.ListForGroup(ctx, gid)
	if err != nil {
		h.Log.Warn("members list failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	usrStore := userstore.New(h.DB)
	rows := make([]memberRow, 0, len(members))
	for _, m := range members {
		row := memberRow{
			UserID:   m.UserID.Hex(),
			Tier:     m.Tier,
			TierName: m.Tier.String(),
			Muted:    m.Muted,
			JoinedAt: m.JoinedAt,
		}
		if usr, err := usrStore.GetByID(ctx, m.UserID); err == nil {
			row.Name = usr.Name
			row.Email = usr.Email
		}
		rows = append(rows, row)
	}

	shared.JSON(w, http.StatusOK, map[string]any{"members": rows})
}

// HandleConfirmMember handles POST /groups/{id}/members/{userID}/confirm.
// It raises an applicant to member tier, opening content and digests.
func (h *Handler) HandleConfirmMember(w http.ResponseWriter, r *http.Request) {
	h.promoteTo(w, r, models.TierMember)
}

// HandlePromoteMember handles POST /groups/{id}/members/{userID}/promote.
// It raises a member to admin tier.
func (h *Handler) HandlePromoteMember(w http.ResponseWriter, r *http.Request) {
	h.promoteTo(w, r, models.TierAdmin)
}

func (h *Handler) promoteTo(w http.ResponseWriter, r *http.Request, tier models.Tier) {
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
	target, ok := pathID(r, "userID")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad user id")
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
		uierrors.RenderForbidden(w, r, "only group admins can change member tiers")
		return
	}

	memStore := membershipstore.New(h.DB)
	if err := memStore.Promote(ctx, target, gid, tier); err != nil {
		h.Log.Warn("promote failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	shared.JSON(w, http.StatusOK, map[string]string{"status": "promoted", "tier": tier.String()})
}

// HandleRemoveMember handles POST /groups/{id}/members/{userID}/remove.
// The membership is deleted outright; the user can reapply later.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
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
	target, ok := pathID(r, "userID")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad user id")
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
		uierrors.RenderForbidden(w, r, "only group admins can remove members")
		return
	}

	memStore := membershipstore.New(h.DB)
	if err := memStore.Remove(ctx, target, gid); err != nil {
		h.Log.Warn("remove member failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	shared.JSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
