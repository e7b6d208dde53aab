// internal/app/features/actions/list.go
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
	groupstore "github.com/agorahub/agorahub/internal/app/store/groups"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const upcomingLimit = 20

type actionListResponse struct {
	Actions []models.Action `json:"actions"`
}

// checkView loads the group and verifies the caller may see its
// calendar.
func (h *Handler) checkView(ctx context.Context, w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	gid, ok := pathID(r, "groupID")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad group id")
		return primitive.NilObjectID, false
	}

	grpStore := groupstore.New(h.DB)
	group, err := grpStore.GetByID(ctx, gid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "group not found")
			return primitive.NilObjectID, false
		}
		h.Log.Warn("group GetByID failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return primitive.NilObjectID, false
	}

	uid := primitive.NilObjectID
	if u, signed := auth.CurrentUser(r); signed {
		uid = u.UserID()
	}
	canView, err := grouppolicy.CanViewContent(ctx, h.DB, group, uid)
	if err != nil {
		h.Log.Warn("view policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return primitive.NilObjectID, false
	}
	if !canView {
		uierrors.RenderForbidden(w, r, "this group's calendar is restricted to confirmed members")
		return primitive.NilObjectID, false
	}
	return gid, true
}

// ServeActionsWindow handles GET /groups/{groupID}/actions?start=…&end=….
// The window bounds are RFC 3339; a missing window defaults to the
// current month.
func (h *Handler) ServeActionsWindow(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gid, ok := h.checkView(ctx, w, r)
	if !ok {
		return
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	if s := query.Get(r, "start"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "start must be RFC 3339")
			return
		}
		start = t
	}
	if s := query.Get(r, "end"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "end must be RFC 3339")
			return
		}
		end = t
	}
	if end.Before(start) {
		uierrors.RenderBadRequest(w, r, "end precedes start")
		return
	}

	actStore := actionstore.New(h.DB)
	rows, err := actStore.ListByGroup(ctx, gid, start, end)
	if err != nil {
		h.Log.Warn("actions window failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if rows == nil {
		rows = []models.Action{}
	}
	shared.JSON(w, http.StatusOK, actionListResponse{Actions: rows})
}

// ServeUpcomingActions handles GET /groups/{groupID}/actions/upcoming.
// Recently finished actions remain listed for a day so "what did I
// just miss" still shows them.
func (h *Handler) ServeUpcomingActions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	gid, ok := h.checkView(ctx, w, r)
	if !ok {
		return
	}

	actStore := actionstore.New(h.DB)
	rows, err := actStore.ListUpcoming(ctx, gid, upcomingLimit)
	if err != nil {
		h.Log.Warn("upcoming actions failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if rows == nil {
		rows = []models.Action{}
	}
	shared.JSON(w, http.StatusOK, actionListResponse{Actions: rows})
}
