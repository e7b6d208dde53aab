// internal/app/features/actions/routes.go
package actions

import (
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /groups/{groupID}/actions.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeActionsWindow)
	r.Get("/upcoming", h.ServeUpcomingActions)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireVerified)

		pr.Post("/", h.HandleCreateAction)
		pr.Post("/{id}/edit", h.HandleEditAction)
		pr.Post("/{id}/delete", h.HandleDeleteAction)
	})

	return r
}
