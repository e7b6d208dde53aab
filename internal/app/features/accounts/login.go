// internal/app/features/accounts/login.go
package accounts

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	userstore "github.com/agorahub/agorahub/internal/app/store/users"
	"github.com/agorahub/agorahub/internal/app/system/auth"
	"github.com/agorahub/agorahub/internal/app/system/normalize"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin processes POST /login. A wrong email and a wrong password
// answer identically so the endpoint cannot be used to probe for
// accounts.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := shared.Decode(r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, "invalid request body")
		return
	}
	in.Email = normalize.Email(in.Email)
	if in.Email == "" || in.Password == "" {
		uierrors.RenderBadRequest(w, r, "email and password are required")
		return
	}

	if ok, reason := h.Limits.Check(r, in.Email); !ok {
		uierrors.RenderTooManyRequests(w, r, reason)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	usrStore := userstore.New(h.DB)
	user, err := usrStore.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderUnauthorizedMessage(w, r, "invalid email or password")
			return
		}
		h.Log.Warn("login lookup failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	if !usrStore.VerifyPassword(user, in.Password) {
		uierrors.RenderUnauthorizedMessage(w, r, "invalid email or password")
		return
	}

	su := &auth.SessionUser{
		ID:       user.ID.Hex(),
		Name:     user.Name,
		Email:    user.Email,
		Verified: user.Verified,
	}
	if err := h.SM.SignIn(w, r, su); err != nil {
		h.Log.Error("session create failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}
	h.Limits.ResetEmail(in.Email)

	if err := usrStore.Touch(ctx, user.ID); err != nil {
		h.Log.Warn("user touch failed", zap.Error(err))
	}

	shared.JSON(w, http.StatusOK, su)
}

// HandleLogout processes POST /logout.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SM.SignOut(w, r); err != nil {
		h.Log.Warn("sign out failed", zap.Error(err))
	}
	shared.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
