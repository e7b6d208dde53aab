// internal/app/features/groups/groupdelete.go
package groups

import (
	"context"
	"net/http"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	"github.com/agorahub/agorahub/internal/app/policy/grouppolicy"
	groupstore "github.com/agorahub/agorahub/internal/app/store/groups"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// HandleDeleteGroup handles POST /groups/{id}/delete. Group admins only.
// Memberships, discussions, comments, and actions that hang off the
// group are removed with it.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	canManage, err := grouppolicy.CanManageGroup(ctx, h.DB, gid, u.UserID())
	if err != nil {
		h.Log.Warn("manage policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if !canManage {
		uierrors.RenderForbidden(w, r, "only group admins can delete the group")
		return
	}

	// Collect discussion ids first so comments and read markers can be
	// swept along with them.
	cur, err := h.DB.Collection("discussions").Find(ctx, bson.M{"group_id": gid})
	if err != nil {
		h.Log.Warn("discussion sweep query failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	var discIDs []any
	for cur.Next(ctx) {
		var row struct {
			ID any `bson:"_id"`
		}
		if err := cur.Decode(&row); err == nil {
			discIDs = append(discIDs, row.ID)
		}
	}
	cur.Close(ctx)

	if len(discIDs) > 0 {
		_, _ = h.DB.Collection("comments").DeleteMany(ctx, bson.M{"discussion_id": bson.M{"$in": discIDs}})
		_, _ = h.DB.Collection("read_markers").DeleteMany(ctx, bson.M{"discussion_id": bson.M{"$in": discIDs}})
	}
	_, _ = h.DB.Collection("discussions").DeleteMany(ctx, bson.M{"group_id": gid})
	_, _ = h.DB.Collection("actions").DeleteMany(ctx, bson.M{"group_id": gid})
	_, _ = h.DB.Collection("memberships").DeleteMany(ctx, bson.M{"group_id": gid})

	grpStore := groupstore.New(h.DB)
	deleted, err := grpStore.Delete(ctx, gid)
	if err != nil {
		h.Log.Warn("group delete failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if deleted == 0 {
		uierrors.RenderNotFound(w, r, "group not found")
		return
	}

	shared.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
