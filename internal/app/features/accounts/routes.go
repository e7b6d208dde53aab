// internal/app/features/accounts/routes.go
package accounts

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter for account endpoints, mounted at the
// site root.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/signup", h.HandleSignup)
	r.Get("/verify", h.HandleVerifyEmail)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	return r
}
