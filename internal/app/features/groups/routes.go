// internal/app/features/groups/routes.go
package groups

import (
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// The directory and individual group pages are world-readable;
	// closed-group content is gated per handler.
	r.Get("/", h.ServeGroupsList)
	r.Get("/{id}", h.ServeGroupView)

	// Everything that mutates requires a verified account.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireVerified)

		// CREATE / EDIT / DELETE
		pr.Post("/", h.HandleCreateGroup)
		pr.Post("/{id}/edit", h.HandleEditGroup)
		pr.Post("/{id}/delete", h.HandleDeleteGroup)

		// MEMBERSHIP (own)
		pr.Post("/{id}/join", h.HandleJoinGroup)
		pr.Post("/{id}/leave", h.HandleLeaveGroup)
		pr.Post("/{id}/mute", h.HandleMuteGroup)
		pr.Post("/{id}/unmute", h.HandleUnmuteGroup)

		// MEMBERS (admin)
		pr.Get("/{id}/members", h.ServeGroupMembers)
		pr.Post("/{id}/members/{userID}/confirm", h.HandleConfirmMember)
		pr.Post("/{id}/members/{userID}/promote", h.HandlePromoteMember)
		pr.Post("/{id}/members/{userID}/remove", h.HandleRemoveMember)
	})

	return r
}
