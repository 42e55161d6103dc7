// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Secret Santa API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints and wraps
it in the CORS middleware:

	handler := router.NewRouter(db, serviceDB, cfg)

db serves every caller-scoped query. serviceDB backs the trusted draw and
guess path and may be the same handle.

# Endpoints

Health:

	GET /health

Profiles:

	POST /profiles           - Set up profile, sign in (public)
	GET  /profiles/me        - Own profile with QR token and wishlist
	GET  /profiles/me/qr.png - QR challenge image
	GET  /profiles/{id}      - Public profile and wishlist
	POST /logout             - Sign out

Groups:

	POST /groups                   - Create group
	GET  /groups                   - My groups
	POST /groups/join              - Join by invite code
	GET  /groups/{id}              - Detail, participants, my giftee
	POST /groups/{id}/participants - Admin adds a user by username

Game:

	POST /groups/{id}/draw  - Admin performs the draw
	POST /groups/{id}/guess - Guess your santa by scanning their QR code

Wishlist:

	POST   /wishlist      - Add item
	DELETE /wishlist/{id} - Remove own item

Everything but /health, / and POST /profiles requires a session cookie.
*/
package router
