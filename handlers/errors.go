// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/secret-santa/auth"
	"github.com/danielhkuo/secret-santa/middleware"
	"github.com/danielhkuo/secret-santa/santa"
	"github.com/danielhkuo/secret-santa/store"
)

// writeError maps domain errors to HTTP status codes.
// Anything unrecognized is logged and reported as a 500 with fallback.
func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, santa.ErrUnauthorized):
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Sign in required")
	case errors.Is(err, santa.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, "Not allowed")
	case errors.Is(err, santa.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	case errors.Is(err, santa.ErrAlreadyDrawn):
		middleware.ErrorResponse(w, http.StatusConflict, "Group has already been drawn")
	case errors.Is(err, santa.ErrInsufficientParticipants):
		middleware.ErrorResponse(w, http.StatusUnprocessableEntity, "At least 2 participants are needed to draw")
	case errors.Is(err, santa.ErrInvalidToken):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid QR code")
	case errors.Is(err, store.ErrUsernameTaken):
		middleware.ErrorResponse(w, http.StatusConflict, "Username already taken")
	case errors.Is(err, store.ErrAlreadyMember):
		middleware.ErrorResponse(w, http.StatusConflict, "User is already in the group")
	default:
		slog.Error(fallback, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, fallback)
	}
}

// currentUser returns the user put in the context by middleware.RequireUser
func currentUser(r *http.Request) string {
	userID, _ := auth.UserFromContext(r.Context())
	return userID
}
