// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/secret-santa/cliparse"
	"github.com/danielhkuo/secret-santa/middleware"
	"github.com/danielhkuo/secret-santa/models"
	"github.com/danielhkuo/secret-santa/store"
)

type GroupHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewGroupHandler(db *sql.DB, cfg cliparse.Config) *GroupHandler {
	return &GroupHandler{db: db, cfg: cfg}
}

// CreateGroup handles POST /groups
// The caller becomes the admin and first participant
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	group, err := store.AsCaller(h.db, currentUser(r)).CreateGroup(r.Context(), name)
	if err != nil {
		writeError(w, err, "Failed to create group")
		return
	}

	slog.Info("group created", "group_id", group.ID, "admin_id", group.AdminID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateGroupResponse{
		Group: group,
	})
}

// ListGroups handles GET /groups
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := store.AsCaller(h.db, currentUser(r)).MyGroups(r.Context())
	if err != nil {
		writeError(w, err, "Failed to load groups")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, groups)
}

// GetGroup handles GET /groups/{id}
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if groupID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id is required")
		return
	}

	detail, err := store.AsCaller(h.db, currentUser(r)).GroupDetail(r.Context(), groupID)
	if err != nil {
		writeError(w, err, "Failed to load group")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, detail)
}

// JoinGroup handles POST /groups/join
func (h *GroupHandler) JoinGroup(w http.ResponseWriter, r *http.Request) {
	var req models.JoinGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	code := strings.TrimSpace(req.InviteCode)
	if code == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invite_code is required")
		return
	}

	userID := currentUser(r)
	groupID, joined, err := store.AsCaller(h.db, userID).JoinGroup(r.Context(), code)
	if err != nil {
		writeError(w, err, "Failed to join group")
		return
	}

	resp := models.JoinGroupResponse{GroupID: groupID, Joined: joined}
	if !joined {
		resp.Message = "already a member of this group"
	} else {
		slog.Info("group joined", "group_id", groupID, "user_id", userID)
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// AddParticipant handles POST /groups/{id}/participants
// Admin only
func (h *GroupHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if groupID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "group_id is required")
		return
	}

	var req models.AddParticipantRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username is required")
		return
	}

	participant, err := store.AsCaller(h.db, currentUser(r)).AddParticipant(r.Context(), groupID, username)
	if err != nil {
		writeError(w, err, "Failed to add participant")
		return
	}

	slog.Info("participant added", "group_id", groupID, "user_id", participant.UserID)

	middleware.JSONResponse(w, http.StatusCreated, participant)
}
