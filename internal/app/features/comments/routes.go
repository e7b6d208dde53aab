// internal/app/features/comments/routes.go
package comments

import (
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /discussions/{discussionID}/comments. All
// comment operations require a verified account.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireVerified)

		pr.Post("/", h.HandleCreateComment)
		pr.Post("/{id}/edit", h.HandleEditComment)
		pr.Post("/{id}/delete", h.HandleDeleteComment)
	})

	return r
}
