// internal/app/features/actions/create.go
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
	userstore "github.com/agorahub/agorahub/internal/app/store/users"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/htmlsanitize"
	"github.com/agorahub/agorahub/internal/app/system/normalize"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.uber.org/zap"
)

type actionInput struct {
	Name     string     `json:"name"`
	Body     string     `json:"body"`
	Location string     `json:"location"`
	Start    time.Time  `json:"start"`
	Stop     *time.Time `json:"stop"`
}

func (in *actionInput) validate() string {
	in.Name = normalize.Name(in.Name)
	if in.Name == "" {
		return "name is required"
	}
	if in.Start.IsZero() {
		return "start is required"
	}
	if in.Stop != nil && in.Stop.Before(in.Start) {
		return "stop precedes start"
	}
	return ""
}

// HandleCreateAction processes POST /groups/{groupID}/actions.
func (h *Handler) HandleCreateAction(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return
	}
	uid := u.UserID()

	gid, ok := pathID(r, "groupID")
	if !ok {
		uierrors.RenderBadRequest(w, r, "bad group id")
		return
	}

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

	canCreate, err := grouppolicy.CanCreateContent(ctx, h.DB, gid, uid)
	if err != nil {
		h.Log.Warn("create policy failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if !canCreate {
		uierrors.RenderForbidden(w, r, "only confirmed members can schedule actions")
		return
	}

	a := models.Action{
		GroupID:  gid,
		UserID:   uid,
		Name:     in.Name,
		Body:     htmlsanitize.Sanitize(in.Body),
		Location: in.Location,
		Start:    in.Start,
	}
	if in.Stop != nil {
		a.Stop = *in.Stop
	}

	actStore := actionstore.New(h.DB)
	created, err := actStore.Create(ctx, a)
	if err != nil {
		if errors.Is(err, actionstore.ErrStopBeforeStart) {
			uierrors.RenderBadRequest(w, r, "stop precedes start")
			return
		}
		h.Log.Warn("action create failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	grpStore := groupstore.New(h.DB)
	if err := grpStore.Touch(ctx, gid); err != nil {
		h.Log.Warn("group touch failed", zap.Error(err))
	}
	usrStore := userstore.New(h.DB)
	if err := usrStore.Touch(ctx, uid); err != nil {
		h.Log.Warn("user touch failed", zap.Error(err))
	}

	shared.JSON(w, http.StatusCreated, created)
}
