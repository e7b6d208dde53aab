// internal/app/features/discussions/create.go
package discussions

import (
	"context"
	"net/http"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	"github.com/agorahub/agorahub/internal/app/policy/grouppolicy"
	discussionstore "github.com/agorahub/agorahub/internal/app/store/discussions"
	groupstore "github.com/agorahub/agorahub/internal/app/store/groups"
	readmarkerstore "github.com/agorahub/agorahub/internal/app/store/readmarkers"
	userstore "github.com/agorahub/agorahub/internal/app/store/users"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/htmlsanitize"
	"github.com/agorahub/agorahub/internal/app/system/normalize"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"github.com/agorahub/agorahub/internal/domain/models"
	"go.uber.org/zap"
)

type createDiscussionInput struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// HandleCreateDiscussion processes POST /groups/{groupID}/discussions.
// The opening post counts as the thread's first comment, and the author
// starts fully read.
func (h *Handler) HandleCreateDiscussion(w http.ResponseWriter, r *http.Request) {
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

	var in createDiscussionInput
	if err := shared.Decode(r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, "invalid request body")
		return
	}
	in.Name = normalize.Name(in.Name)
	if in.Name == "" {
		uierrors.RenderBadRequest(w, r, "name is required")
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
		uierrors.RenderForbidden(w, r, "only confirmed members can start discussions")
		return
	}

	discStore := discussionstore.New(h.DB)
	disc, err := discStore.Create(ctx, models.Discussion{
		GroupID: gid,
		UserID:  uid,
		Name:    in.Name,
		Body:    htmlsanitize.Sanitize(in.Body),
	})
	if err != nil {
		h.Log.Warn("discussion create failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	// The author has read their own opening post.
	rmStore := readmarkerstore.New(h.DB)
	if _, err := rmStore.MarkRead(ctx, uid, disc.ID, disc.TotalComments); err != nil {
		h.Log.Warn("author read marker failed", zap.Error(err))
	}

	// New content bumps group activity and the author's profile.
	grpStore := groupstore.New(h.DB)
	if err := grpStore.Touch(ctx, gid); err != nil {
		h.Log.Warn("group touch failed", zap.Error(err))
	}
	usrStore := userstore.New(h.DB)
	if err := usrStore.Touch(ctx, uid); err != nil {
		h.Log.Warn("user touch failed", zap.Error(err))
	}

	shared.JSON(w, http.StatusCreated, disc)
}
