// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/sessions"

	"github.com/danielhkuo/secret-santa/auth"
	"github.com/danielhkuo/secret-santa/cliparse"
	"github.com/danielhkuo/secret-santa/db"
	"github.com/danielhkuo/secret-santa/models"
	"github.com/danielhkuo/secret-santa/store"
)

// TestDBURL is the connection string for the test database
const TestDBURL = ":memory:"

// TestSessionSecret signs session cookies in tests
const TestSessionSecret = "test-session-secret"

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// The database is closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(db.TypeSQLite, TestDBURL)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseURL:        TestDBURL,
		DatabaseType:       db.TypeSQLite,
		ServiceDatabaseURL: TestDBURL,
		SessionSecret:      TestSessionSecret,
	}
}

// CreateTestProfile creates a profile and returns it with its QR token
func CreateTestProfile(t *testing.T, conn *sql.DB, username string) models.Profile {
	t.Helper()

	profile, err := store.CreateProfile(context.Background(), conn, username, nil)
	if err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}

	return profile
}

// CreateTestGroup creates an open group administered (and joined) by adminID
func CreateTestGroup(t *testing.T, conn *sql.DB, adminID, name string) models.Group {
	t.Helper()

	group, err := store.AsCaller(conn, adminID).CreateGroup(context.Background(), name)
	if err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}

	return group
}

// AddTestParticipant inserts userID into a group regardless of its status
func AddTestParticipant(t *testing.T, conn *sql.DB, groupID, userID string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO participant (id, group_id, user_id, lives, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, auth.NewID(), groupID, userID, models.DefaultLives, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to add test participant: %v", err)
	}
}

// SetTestLives overwrites a participant's remaining lives
func SetTestLives(t *testing.T, conn *sql.DB, groupID, userID string, lives int) {
	t.Helper()

	_, err := conn.Exec(`
		UPDATE participant SET lives = $1 WHERE group_id = $2 AND user_id = $3
	`, lives, groupID, userID)
	if err != nil {
		t.Fatalf("Failed to set test lives: %v", err)
	}
}

// GetTestLives reads a participant's remaining lives
func GetTestLives(t *testing.T, conn *sql.DB, groupID, userID string) int {
	t.Helper()

	var lives int
	err := conn.QueryRow(`
		SELECT lives FROM participant WHERE group_id = $1 AND user_id = $2
	`, groupID, userID).Scan(&lives)
	if err != nil {
		t.Fatalf("Failed to read test lives: %v", err)
	}

	return lives
}

// CountTestMatches counts the stored matches of a group
func CountTestMatches(t *testing.T, conn *sql.DB, groupID string) int {
	t.Helper()

	var n int
	err := conn.QueryRow("SELECT COUNT(*) FROM santa_match WHERE group_id = $1", groupID).Scan(&n)
	if err != nil {
		t.Fatalf("Failed to count matches: %v", err)
	}

	return n
}

// GifteeOf reads the giftee assigned to santaID, bypassing row policies
func GifteeOf(t *testing.T, conn *sql.DB, groupID, santaID string) string {
	t.Helper()

	var giftee string
	err := conn.QueryRow(`
		SELECT giftee_id FROM santa_match WHERE group_id = $1 AND santa_id = $2
	`, groupID, santaID).Scan(&giftee)
	if err != nil {
		t.Fatalf("Failed to read match: %v", err)
	}

	return giftee
}

// SantaOf reads the santa assigned to gifteeID, bypassing row policies
func SantaOf(t *testing.T, conn *sql.DB, groupID, gifteeID string) string {
	t.Helper()

	var santa string
	err := conn.QueryRow(`
		SELECT santa_id FROM santa_match WHERE group_id = $1 AND giftee_id = $2
	`, groupID, gifteeID).Scan(&santa)
	if err != nil {
		t.Fatalf("Failed to read match: %v", err)
	}

	return santa
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AsUser returns req as if middleware.RequireUser had authenticated userID
func AsUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), userID))
}

// SessionCookies signs userID in against store and returns the resulting cookies
func SessionCookies(t *testing.T, store sessions.Store, userID string) []*http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	if err := auth.SignIn(store, w, httptest.NewRequest("POST", "/profiles", nil), userID); err != nil {
		t.Fatalf("Failed to sign in test user: %v", err)
	}

	return w.Result().Cookies()
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
