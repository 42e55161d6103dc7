// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Secret Santa API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ProfileHandler: profile setup, sign out, QR image, public profiles
  - GroupHandler: group creation, listing, detail, joining, admin adds
  - GameHandler: the draw and the guessing game
  - WishlistHandler: the caller's wishlist

Handlers are created via constructor functions:

	groupHandler := handlers.NewGroupHandler(db, cfg)
	gameHandler := handlers.NewGameHandler(db, serviceDB, cfg)

Except for POST /profiles, every handler expects middleware.RequireUser to
have put the signed-in user in the request context.

# Group Lifecycle

Groups go from open to drawn exactly once:

	POST /groups                    → CreateGroup (caller is admin and first participant)
	POST /groups/join               → JoinGroup (by invite code, open groups only)
	POST /groups/{id}/participants  → AddParticipant (admin, open groups only)
	POST /groups/{id}/draw          → Draw (admin, at least 2 participants)

After the draw GET /groups/{id} includes my_giftee for the caller and
nothing about anyone else's match.

# Guessing

	POST /groups/{id}/guess
	{"suspect_id": "...", "payload": "{\"userId\":\"...\",\"qrToken\":\"...\"}"}

The payload is the text scanned from the suspect's QR code
(GET /profiles/me/qr.png). A qr_token field may be sent instead of the
payload. The response is only {"is_correct": bool}; a wrong guess costs
one life. A payload that doesn't match the suspect is rejected with 400
and costs nothing.

# Errors

Domain errors map to status codes in writeError:

	santa.ErrUnauthorized             401
	santa.ErrForbidden                403
	santa.ErrNotFound                 404
	santa.ErrAlreadyDrawn             409
	store.ErrUsernameTaken            409
	store.ErrAlreadyMember            409
	santa.ErrInsufficientParticipants 422
	santa.ErrInvalidToken             400
*/
package handlers
