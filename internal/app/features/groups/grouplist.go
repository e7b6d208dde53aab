// internal/app/features/groups/grouplist.go
package groups

import (
	"context"
	"net/http"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	groupstore "github.com/agorahub/agorahub/internal/app/store/groups"
	"github.com/agorahub/agorahub/internal/app/system/paging"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.uber.org/zap"
)

type groupListResponse struct {
	Groups  []models.Group `json:"groups"`
	Start   int            `json:"start"`
	HasPrev bool           `json:"has_prev"`
	HasNext bool           `json:"has_next"`
}

// ServeGroupsList handles GET /groups. The directory is public; it
// lists open and closed groups alike, paged by the "start" parameter.
func (h *Handler) ServeGroupsList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	start := paging.ParseStart(r)

	grpStore := groupstore.New(h.DB)
	rows, err := grpStore.List(ctx, int64(start-1), paging.LimitPlusOne())
	if err != nil {
		h.Log.Warn("groups list failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	page := paging.TrimPage(&rows, start)
	if rows == nil {
		rows = []models.Group{}
	}

	shared.JSON(w, http.StatusOK, groupListResponse{
		Groups:  rows,
		Start:   start,
		HasPrev: page.HasPrev,
		HasNext: page.HasNext,
	})
}
