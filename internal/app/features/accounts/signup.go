// internal/app/features/accounts/signup.go
package accounts

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	uierrors "github.com/agorahub/agorahub/internal/app/features/errors"
	"github.com/agorahub/agorahub/internal/app/features/shared"
	userstore "github.com/agorahub/agorahub/internal/app/store/users"
	"github.com/agorahub/agorahub/internal/app/system/mailer"
	"github.com/agorahub/agorahub/internal/app/system/normalize"
	"github.com/agorahub/agorahub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type signupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// HandleSignup processes POST /signup. The account starts unverified;
// a confirmation link goes out by email, and until it is followed the
// user can sign in but receives no digests.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in signupInput
	if err := shared.Decode(r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, "invalid request body")
		return
	}
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	if in.Name == "" || in.Email == "" {
		uierrors.RenderBadRequest(w, r, "name and email are required")
		return
	}
	if len(in.Password) < 8 {
		uierrors.RenderBadRequest(w, r, "password must be at least 8 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	usrStore := userstore.New(h.DB)
	user, err := usrStore.Create(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			uierrors.RenderConflict(w, r, "an account with this email already exists")
			return
		}
		h.Log.Warn("signup failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	if h.Mailer != nil {
		email := mailer.BuildVerificationEmail(mailer.VerificationEmailData{
			SiteName:   h.SiteName,
			VerifyLink: h.BaseURL + "/verify?token=" + url.QueryEscape(user.Token),
		})
		email.To = user.Email
		if err := h.Mailer.Send(email); err != nil {
			// The account exists; the user can request a resend later.
			h.Log.Error("verification email failed",
				zap.String("user_id", user.ID.Hex()),
				zap.Error(err))
		}
	}

	shared.JSON(w, http.StatusCreated, signupResponse{
		ID:       user.ID.Hex(),
		Name:     user.Name,
		Email:    user.Email,
		Verified: user.Verified,
	})
}

// HandleVerifyEmail processes GET /verify?token=…. Confirming marks the
// account verified and consumes the token.
func (h *Handler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		uierrors.RenderBadRequest(w, r, "token is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	usrStore := userstore.New(h.DB)
	user, err := usrStore.ConfirmEmail(ctx, token)
	if err != nil {
		if errors.Is(err, userstore.ErrBadToken) {
			uierrors.RenderBadRequest(w, r, "this verification link is invalid or already used")
			return
		}
		h.Log.Warn("verify failed", zap.Error(err))
		uierrors.RenderServerError(w, r)
		return
	}

	shared.JSON(w, http.StatusOK, signupResponse{
		ID:       user.ID.Hex(),
		Name:     user.Name,
		Email:    user.Email,
		Verified: user.Verified,
	})
}
