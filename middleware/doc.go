// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (status, duration_ms).

# Sessions

Require a signed-in user:

	mux.HandleFunc("POST /groups", middleware.WithLogging(
		middleware.RequireUser(sessions, groupHandler.CreateGroup)))

Requests without a valid session cookie get 401. Otherwise the user ID is
available to the handler through auth.UserFromContext.

# CORS Middleware

Enable credentialed cross-origin requests from the frontend (rs/cors):

	server := http.Server{
		Handler: middleware.CORS(mux, cfg.AllowedOrigins),
	}

Allows methods GET, POST, DELETE, OPTIONS with the Content-Type header.
An empty origin list allows every origin.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Parse JSON request bodies:

	var req models.CreateGroupRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
