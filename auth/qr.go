// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultQRSize is the PNG edge length in pixels
const DefaultQRSize = 256

// Challenge is the payload encoded in a user's QR code
type Challenge struct {
	UserID  string `json:"userId"`
	QRToken string `json:"qrToken"`
}

// EncodeChallenge serializes the QR payload for a profile
func EncodeChallenge(userID, qrToken string) (string, error) {
	b, err := json.Marshal(Challenge{UserID: userID, QRToken: qrToken})
	if err != nil {
		return "", fmt.Errorf("failed to encode challenge: %w", err)
	}
	return string(b), nil
}

// DecodeChallenge parses a scanned QR payload.
// Both fields must be present.
func DecodeChallenge(raw string) (Challenge, error) {
	var c Challenge
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &c); err != nil {
		return Challenge{}, fmt.Errorf("%w: %v", ErrInvalidChallenge, err)
	}
	if c.UserID == "" || c.QRToken == "" {
		return Challenge{}, fmt.Errorf("%w: missing userId or qrToken", ErrInvalidChallenge)
	}
	return c, nil
}

// TokensEqual compares two QR tokens in constant time.
// Empty tokens never match.
func TokensEqual(stored, scanned string) bool {
	if stored == "" || scanned == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(scanned)) == 1
}

// ChallengePNG renders the QR payload for a profile as a PNG image.
// Uses the highest error correction level so phone cameras cope with glare.
func ChallengePNG(userID, qrToken string, size int) ([]byte, error) {
	payload, err := EncodeChallenge(userID, qrToken)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = DefaultQRSize
	}
	png, err := qrcode.Encode(payload, qrcode.Highest, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
