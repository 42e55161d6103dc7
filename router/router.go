// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/secret-santa/auth"
	"github.com/danielhkuo/secret-santa/cliparse"
	"github.com/danielhkuo/secret-santa/handlers"
	"github.com/danielhkuo/secret-santa/middleware"
)

// NewRouter wires every route. db serves caller-scoped queries and
// serviceDB the trusted draw and guess path; they may be the same handle.
func NewRouter(db, serviceDB *sql.DB, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	sessions := auth.NewSessionStore(cfg.SessionSecret, cfg.SecureCookies)

	// Initialize handlers
	profileHandler := handlers.NewProfileHandler(db, cfg, sessions)
	groupHandler := handlers.NewGroupHandler(db, cfg)
	gameHandler := handlers.NewGameHandler(db, serviceDB, cfg)
	wishlistHandler := handlers.NewWishlistHandler(db, cfg)

	// signedIn wraps a handler with logging and a session check
	signedIn := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireUser(sessions, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Profiles
	mux.HandleFunc("POST /profiles", middleware.WithLogging(profileHandler.CreateProfile))
	mux.HandleFunc("GET /profiles/me", signedIn(profileHandler.GetMe))
	mux.HandleFunc("GET /profiles/me/qr.png", signedIn(profileHandler.GetMyQR))
	mux.HandleFunc("GET /profiles/{id}", signedIn(profileHandler.GetProfile))
	mux.HandleFunc("POST /logout", signedIn(profileHandler.Logout))

	// Groups
	mux.HandleFunc("POST /groups", signedIn(groupHandler.CreateGroup))
	mux.HandleFunc("GET /groups", signedIn(groupHandler.ListGroups))
	mux.HandleFunc("POST /groups/join", signedIn(groupHandler.JoinGroup))
	mux.HandleFunc("GET /groups/{id}", signedIn(groupHandler.GetGroup))
	mux.HandleFunc("POST /groups/{id}/participants", signedIn(groupHandler.AddParticipant))

	// Draw and guessing game
	mux.HandleFunc("POST /groups/{id}/draw", signedIn(gameHandler.Draw))
	mux.HandleFunc("POST /groups/{id}/guess", signedIn(gameHandler.Guess))

	// Wishlist
	mux.HandleFunc("POST /wishlist", signedIn(wishlistHandler.AddItem))
	mux.HandleFunc("DELETE /wishlist/{id}", signedIn(wishlistHandler.DeleteItem))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("secret-santa API v1"))
	})

	return middleware.CORS(mux, cfg.AllowedOrigins)
}
