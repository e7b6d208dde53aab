package testutil

import (
	"context"
	"net/http"

	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam attaches a chi route parameter to the request so
// handlers that read chi.URLParam can be exercised without a router.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// SignedIn injects the given user into the request context as a verified
// session user, bypassing the session cookie round trip.
func SignedIn(r *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Email:    u.Email,
		Verified: u.Verified,
	})
}
