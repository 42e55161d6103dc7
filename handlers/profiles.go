// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gorilla/sessions"

	"github.com/danielhkuo/secret-santa/auth"
	"github.com/danielhkuo/secret-santa/cliparse"
	"github.com/danielhkuo/secret-santa/middleware"
	"github.com/danielhkuo/secret-santa/models"
	"github.com/danielhkuo/secret-santa/store"
)

const (
	minUsernameLength = 3
	maxUsernameLength = 32
	maxQRSize         = 1024
)

type ProfileHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	sessions sessions.Store
}

func NewProfileHandler(db *sql.DB, cfg cliparse.Config, sessions sessions.Store) *ProfileHandler {
	return &ProfileHandler{db: db, cfg: cfg, sessions: sessions}
}

// CreateProfile handles POST /profiles
// Creates the profile with its secret QR token and signs the user in
func (h *ProfileHandler) CreateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	username := strings.TrimSpace(req.Username)
	if n := utf8.RuneCountInString(username); n < minUsernameLength || n > maxUsernameLength {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username must be 3 to 32 characters")
		return
	}

	profile, err := store.CreateProfile(r.Context(), h.db, username, req.AvatarURL)
	if err != nil {
		writeError(w, err, "Failed to create profile")
		return
	}

	if err := auth.SignIn(h.sessions, w, r, profile.ID); err != nil {
		slog.Error("failed to save session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("profile created", "user_id", profile.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateProfileResponse{
		Profile: profile,
	})
}

// GetMe handles GET /profiles/me
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	caller := store.AsCaller(h.db, currentUser(r))

	profile, err := caller.Me(r.Context())
	if err != nil {
		writeError(w, err, "Failed to load profile")
		return
	}

	wishlist, err := caller.Wishlist(r.Context(), profile.ID)
	if err != nil {
		writeError(w, err, "Failed to load wishlist")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProfileWithWishlist{
		Profile:  profile,
		Wishlist: wishlist,
		IsOwner:  true,
	})
}

// GetMyQR handles GET /profiles/me/qr.png
// Optional ?size= sets the edge length in pixels
func (h *ProfileHandler) GetMyQR(w http.ResponseWriter, r *http.Request) {
	size := auth.DefaultQRSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxQRSize {
			middleware.ErrorResponse(w, http.StatusBadRequest, "size must be between 1 and 1024")
			return
		}
		size = n
	}

	profile, err := store.AsCaller(h.db, currentUser(r)).Me(r.Context())
	if err != nil {
		writeError(w, err, "Failed to load profile")
		return
	}

	png, err := auth.ChallengePNG(profile.ID, profile.QRToken, size)
	if err != nil {
		writeError(w, err, "Failed to render QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// GetProfile handles GET /profiles/{id}
// Returns the public profile and wishlist of any user
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	callerID := currentUser(r)
	caller := store.AsCaller(h.db, callerID)

	profile, err := caller.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to load profile")
		return
	}

	wishlist, err := caller.Wishlist(r.Context(), userID)
	if err != nil {
		writeError(w, err, "Failed to load wishlist")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProfileWithWishlist{
		Profile:  profile,
		Wishlist: wishlist,
		IsOwner:  userID == callerID,
	})
}

// Logout handles POST /logout
func (h *ProfileHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := auth.SignOut(h.sessions, w, r); err != nil {
		slog.Error("failed to clear session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign out")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
