// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	SessionName    = "santa-session"
	sessionUserKey = "user_id"
	sessionMaxAge  = 30 * 24 * 60 * 60
)

type userKey struct{}

// NewSessionStore creates the cookie store holding the signed-in user.
// Hash and block keys are both derived from the one configured secret.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(
		deriveKey(secret, "session-hash"),
		deriveKey(secret, "session-block"),
	)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// deriveKey creates a 32-byte key for a given purpose using HMAC
func deriveKey(secret, purpose string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(purpose))
	return h.Sum(nil)
}

// SignIn binds the session cookie to userID
func SignIn(store sessions.Store, w http.ResponseWriter, r *http.Request, userID string) error {
	// A cookie that fails to decode still yields a usable fresh session
	session, _ := store.Get(r, SessionName)
	session.Values[sessionUserKey] = userID
	return session.Save(r, w)
}

// SignOut expires the session cookie
func SignOut(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	session, _ := store.Get(r, SessionName)
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// CurrentUser returns the user bound to the request's session cookie
func CurrentUser(store sessions.Store, r *http.Request) (string, error) {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return "", ErrNoSession
	}
	userID, ok := session.Values[sessionUserKey].(string)
	if !ok || userID == "" {
		return "", ErrNoSession
	}
	return userID, nil
}

// WithUser stores the authenticated user ID in ctx
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFromContext returns the authenticated user ID, if any
func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey{}).(string)
	return userID, ok && userID != ""
}
