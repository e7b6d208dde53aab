// internal/app/features/discussions/list.go
package discussions

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	"github.com/agorahub/agorahub/internal/app/policy/grouppolicy"
	discussionstore "github.com/agorahub/agorahub/internal/app/store/discussions"
	groupstore "github.com/agorahub/agorahub/internal/app/store/groups"
	readmarkerstore "github.com/agorahub/agorahub/internal/app/store/readmarkers"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/digest"
	"github.com/agorahub/agorahub/internal/app/system/paging"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type discussionRow struct {
	Discussion models.Discussion `json:"discussion"`
	Unread     int64             `json:"unread"`
}

type discussionListResponse struct {
	Discussions []discussionRow `json:"discussions"`
}

// ServeDiscussionsList handles GET /groups/{groupID}/discussions.
// Rows are ordered by latest activity; for signed-in viewers each row
// carries the count of comments past their read marker.
func (h *Handler) ServeDiscussionsList(w http.ResponseWriter, r *http.Request) {
	gid, ok := pathID(r, "groupID")
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

	uid := primitive.NilObjectID
	if u, signed := auth.CurrentUser(r); signed {
		uid = u.UserID()
	}

	canView, err := grouppolicy.CanViewContent(ctx, h.DB, group, uid)
	if err != nil {
		h.Log.Warn("view policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if !canView {
		uierrors.RenderForbidden(w, r, "this group's content is restricted to confirmed members")
		return
	}

	discStore := discussionstore.New(h.DB)
	rows, err := discStore.ListByGroup(ctx, gid, paging.LimitPlusOne())
	if err != nil {
		h.Log.Warn("discussions list failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if len(rows) > paging.PageSize {
		rows = rows[:paging.PageSize]
	}

	// Anonymous viewers have no read markers; everything counts as read
	// zero and unread equals the total.
	readCounts := map[primitive.ObjectID]int64{}
	if !uid.IsZero() {
		ids := make([]primitive.ObjectID, len(rows))
		for i, d := range rows {
			ids[i] = d.ID
		}
		rmStore := readmarkerstore.New(h.DB)
		readCounts, err = rmStore.ReadCountsFor(ctx, uid, ids)
		if err != nil {
			h.Log.Warn("read counts failed", zap.Error(err))
			uierrors.RenderServerError(w, r)
			return
		}
	}

	out := make([]discussionRow, 0, len(rows))
	for _, d := range rows {
		out = append(out, discussionRow{
			Discussion: d,
			Unread:     digest.Unread(d, readCounts[d.ID]),
		})
	}

	shared.JSON(w, http.StatusOK, discussionListResponse{Discussions: out})
}
