// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identity, token generation, and the QR challenge protocol.

# QR Tokens

Every profile gets one long-lived random secret at creation:

	token, err := auth.GenerateQRToken()

Tokens are 32 random bytes (256 bits), URL-safe base64 without padding.
They are never derived from the profile ID and are only shown to their
owner.

# QR Challenges

A user's QR code encodes their ID together with their token:

	payload, err := auth.EncodeChallenge(userID, token)  // {"userId":"…","qrToken":"…"}
	c, err := auth.DecodeChallenge(scanned)
	png, err := auth.ChallengePNG(userID, token, auth.DefaultQRSize)

A challenger who scans the code must name the suspect separately; the
verifier rejects the scan when c.UserID differs from the suspect or when
the token differs from the stored one. Tokens are compared with
TokensEqual, which runs in constant time.

# Sessions

The signed-in user lives in an encrypted, signed cookie (gorilla/sessions):

	store := auth.NewSessionStore(secret, secure)
	err := auth.SignIn(store, w, r, userID)
	userID, err := auth.CurrentUser(store, r)
	err := auth.SignOut(store, w, r)

Both cookie keys are HMAC-SHA256 derivations of the single configured
secret. Middleware moves the user into the request context:

	ctx := auth.WithUser(r.Context(), userID)
	userID, ok := auth.UserFromContext(ctx)

# IDs and Invite Codes

	id := auth.NewID()                     // UUID v4
	code, err := auth.GenerateInviteCode() // 10 chars, nanoid, no look-alikes
*/
package auth
