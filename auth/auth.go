// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var (
	ErrInvalidChallenge = errors.New("invalid QR challenge")
	ErrNoSession        = errors.New("no authenticated session")
)

// inviteAlphabet avoids look-alike characters so codes survive being read aloud.
const inviteAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnpqrstuvwxyz"

// InviteCodeLength matches the ten-character codes handed out to guests.
const InviteCodeLength = 10

// NewID creates a random UUID for database records
func NewID() string {
	return uuid.NewString()
}

// GenerateQRToken creates the long-lived secret bound to a profile.
// It is pure randomness, so nothing about it can be derived from the user's ID.
func GenerateQRToken() (string, error) {
	b := make([]byte, 32) // 32 bytes = 256 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateInviteCode creates a short code for joining a group
func GenerateInviteCode() (string, error) {
	code, err := gonanoid.Generate(inviteAlphabet, InviteCodeLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate invite code: %w", err)
	}
	return code, nil
}
