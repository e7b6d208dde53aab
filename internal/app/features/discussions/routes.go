// internal/app/features/discussions/routes.go
package discussions

import (
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /groups/{groupID}/discussions. Reads go
// through the group policy per handler (open groups are world-readable);
// writes require a verified account.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeDiscussionsList)
	r.Get("/{id}", h.ServeDiscussionView)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireVerified)

		pr.Post("/", h.HandleCreateDiscussion)
		pr.Post("/{id}/edit", h.HandleEditDiscussion)
		pr.Post("/{id}/delete", h.HandleDeleteDiscussion)
	})

	return r
}
