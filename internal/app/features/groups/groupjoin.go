// internal/app/features/groups/groupjoin.go
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
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// HandleJoinGroup processes POST /groups/{id}/join.
//
// Joining an open group grants member tier outright. Joining a closed
// group records an applicant that a group admin must confirm before any
// content or digests flow.
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
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

	tier := models.TierApplicant
	if group.Open {
		tier = models.TierMember
	}

	memStore := membershipstore.New(h.DB)
	m, err := memStore.Join(ctx, u.UserID(), gid, tier)
	if err != nil {
		if errors.Is(err, membershipstore.ErrDuplicateMembership) {
			uierrors.RenderConflict(w, r, "you are already in this group")
			return
		}
		h.Log.Warn("join failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	shared.JSON(w, http.StatusCreated, m)
}

// HandleLeaveGroup processes POST /groups/{id}/leave. The membership
// document goes away entirely, watermark included; rejoining starts
// fresh.
func (h *Handler) HandleLeaveGroup(w http.ResponseWriter, r *http.Request) {
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

	memStore := membershipstore.New(h.DB)
	if err := memStore.Remove(ctx, u.UserID(), gid); err != nil {
		h.Log.Warn("leave failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	shared.JSON(w, http.StatusOK, map[string]string{"status": "left"})
}

// HandleMuteGroup processes POST /groups/{id}/mute. Muting silences
// digests for this group without touching content access.
func (h *Handler) HandleMuteGroup(w http.ResponseWriter, r *http.Request) {
	h.setMuted(w, r, true)
}

// HandleUnmuteGroup processes POST /groups/{id}/unmute.
func (h *Handler) HandleUnmuteGroup(w http.ResponseWriter, r *http.Request) {
	h.setMuted(w, r, false)
}

func (h *Handler) setMuted(w http.ResponseWriter, r *http.Request, muted bool) {
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

	memStore := membershipstore.New(h.DB)
	if err := memStore.SetMuted(ctx, u.UserID(), gid, muted); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "you are not in this group")
			return
		}
		h.Log.Warn("set muted failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	status := "unmuted"
	if muted {
		status = "muted"
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": status})
}
