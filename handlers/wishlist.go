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
	"github.com/danielhkuo/secret-santa/store"
)

type WishlistHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewWishlistHandler(db *sql.DB, cfg cliparse.Config) *WishlistHandler {
	return &WishlistHandler{db: db, cfg: cfg}
}

// AddItem handles POST /wishlist
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req models.AddWishlistItemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	url := req.URL
	if url != nil {
		if trimmed := strings.TrimSpace(*url); trimmed == "" {
			url = nil
		} else {
			url = &trimmed
		}
	}

	item, err := store.AsCaller(h.db, currentUser(r)).AddWishlistItem(r.Context(), title, url)
	if err != nil {
		writeError(w, err, "Failed to add wishlist item")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, item)
}

// DeleteItem handles DELETE /wishlist/{id}
// Only the owner can delete; other users' items look missing
func (h *WishlistHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	if itemID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := store.AsCaller(h.db, currentUser(r)).DeleteWishlistItem(r.Context(), itemID); err != nil {
		writeError(w, err, "Failed to delete wishlist item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
