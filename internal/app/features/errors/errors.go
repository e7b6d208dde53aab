// internal/app/features/errors/errors.go

// Package errors renders the uniform JSON error envelope used by every
// feature handler.
package errors

import (
	"net/http"

	"github.com/agorahub/agorahub/internal/app/features/shared"
)

type errorBody struct {
	Error string `json:"error"`
}

// RenderUnauthorized answers 401 for requests with no signed-in user.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request) {
	shared.JSON(w, http.StatusUnauthorized, errorBody{Error: "sign in required"})
}

// RenderUnauthorizedMessage answers 401 with a specific reason, used
// for failed credential checks.
func RenderUnauthorizedMessage(w http.ResponseWriter, r *http.Request, msg string) {
	shared.JSON(w, http.StatusUnauthorized, errorBody{Error: msg})
}

// RenderForbidden answers 403 with a short reason.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "you do not have access to this resource"
	}
	shared.JSON(w, http.StatusForbidden, errorBody{Error: msg})
}

// RenderNotFound answers 404.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "not found"
	}
	shared.JSON(w, http.StatusNotFound, errorBody{Error: msg})
}

// RenderBadRequest answers 400 with a validation message.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "bad request"
	}
	shared.JSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// RenderConflict answers 409, used for duplicate names and emails.
func RenderConflict(w http.ResponseWriter, r *http.Request, msg string) {
	shared.JSON(w, http.StatusConflict, errorBody{Error: msg})
}

// RenderTooManyRequests answers 429, used by the login rate limiter.
func RenderTooManyRequests(w http.ResponseWriter, r *http.Request, msg string) {
	shared.JSON(w, http.StatusTooManyRequests, errorBody{Error: msg})
}

// RenderServerError answers 500 without leaking the underlying error.
func RenderServerError(w http.ResponseWriter, r *http.Request) {
	shared.JSON(w, http.StatusInternalServerError, errorBody{Error: "an internal error occurred"})
}
