// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/danielhkuo/secret-santa/cliparse"
	"github.com/danielhkuo/secret-santa/middleware"
	"github.com/danielhkuo/secret-santa/models"
	"github.com/danielhkuo/secret-santa/santa"
	"github.com/danielhkuo/secret-santa/store"
)

// GameHandler serves the draw and the guessing game.
// db carries caller-scoped queries; the trusted store may sit on a
// separate, more privileged connection.
type GameHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	trusted  *store.Trusted
	verifier *santa.Verifier
}

func NewGameHandler(db, serviceDB *sql.DB, cfg cliparse.Config) *GameHandler {
	trusted := store.NewTrusted(serviceDB)
	return &GameHandler{
		db:       db,
		cfg:      cfg,
		trusted:  trusted,
		verifier: santa.NewVerifier(trusted, trusted, santa.NewLifeTracker(trusted)),
	}
}

// Draw handles POST /groups/{id}/draw
// Admin only, once per group
func (h *GameHandler) Draw(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if groupID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id is required")
		return
	}

	userID := currentUser(r)
	drawer := santa.NewDrawer(store.AsCaller(h.db, userID), h.trusted)

	if err := drawer.PerformDraw(r.Context(), groupID, userID); err != nil {
		writeError(w, err, "Failed to perform draw")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DrawResponse{
		GroupID: groupID,
		Status:  models.StatusDrawn,
	})
}

// Guess handles POST /groups/{id}/guess
// The body carries the suspect and either the raw scanned payload or the
// token read from it. The response only says whether the guess was right.
func (h *GameHandler) Guess(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if groupID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id is required")
		return
	}

	var req models.GuessRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	suspectID := strings.TrimSpace(req.SuspectID)
	if suspectID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "suspect_id is required")
		return
	}
	if req.Payload == "" && req.QRToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "payload or qr_token is required")
		return
	}

	userID := currentUser(r)
	caller := store.AsCaller(h.db, userID)

	// Only members play, and a group that doesn't exist is a 404
	if _, err := caller.Group(r.Context(), groupID); err != nil {
		writeError(w, err, "Failed to load group")
		return
	}
	member, err := caller.IsParticipant(r.Context(), groupID)
	if err != nil {
		writeError(w, err, "Failed to check membership")
		return
	}
	if !member {
		writeError(w, santa.ErrForbidden, "")
		return
	}

	var result santa.GuessResult
	if req.Payload != "" {
		result, err = h.verifier.AttemptScan(r.Context(), groupID, userID, suspectID, req.Payload)
	} else {
		result, err = h.verifier.AttemptGuess(r.Context(), santa.Guess{
			GroupID:      groupID,
			CallerID:     userID,
			SuspectID:    suspectID,
			ScannedToken: req.QRToken,
		})
	}
	if err != nil {
		writeError(w, err, "Failed to evaluate guess")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GuessResponse{
		IsCorrect: result.IsCorrect,
	})
}
