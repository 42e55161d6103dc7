// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package santa

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/secret-santa/auth"
)

// TokenLookup reads a profile's stored QR token. Returns ErrNotFound
// when the profile does not exist.
type TokenLookup interface {
	QRToken(ctx context.Context, userID string) (string, error)
}

// SantaOracle answers whether suspectID is the santa of gifteeID in a group.
// It only ever yields a boolean, never the real santa.
type SantaOracle interface {
	IsSanta(ctx context.Context, groupID, gifteeID, suspectID string) (bool, error)
}

// Guess is one attempt by CallerID to name their santa
type Guess struct {
	GroupID      string
	CallerID     string
	SuspectID    string
	ScannedToken string
}

type GuessResult struct {
	IsCorrect bool
}

// Verifier checks guesses against the authoritative assignment
type Verifier struct {
	tokens TokenLookup
	oracle SantaOracle
	lives  *LifeTracker
}

func NewVerifier(tokens TokenLookup, oracle SantaOracle, lives *LifeTracker) *Verifier {
	return &Verifier{tokens: tokens, oracle: oracle, lives: lives}
}

// AttemptScan handles a raw scanned QR payload. The payload's subject must
// be the suspect the challenger named before scanning.
func (v *Verifier) AttemptScan(ctx context.Context, groupID, callerID, suspectID, payload string) (GuessResult, error) {
	if callerID == "" {
		return GuessResult{}, ErrUnauthorized
	}

	challenge, err := auth.DecodeChallenge(payload)
	if err != nil {
		return GuessResult{}, ErrInvalidToken
	}

	// A stale or mismatched scan is a malformed request, not a wrong guess
	if challenge.UserID != suspectID {
		return GuessResult{}, ErrInvalidToken
	}

	return v.AttemptGuess(ctx, Guess{
		GroupID:      groupID,
		CallerID:     callerID,
		SuspectID:    suspectID,
		ScannedToken: challenge.QRToken,
	})
}

// AttemptGuess reports whether g.SuspectID is the caller's santa.
//
// The scanned token must match the suspect's stored token, otherwise the
// attempt fails with ErrInvalidToken and costs nothing. A wrong guess
// costs one life; a right one changes nothing and may be repeated.
func (v *Verifier) AttemptGuess(ctx context.Context, g Guess) (GuessResult, error) {
	if g.CallerID == "" {
		return GuessResult{}, ErrUnauthorized
	}

	stored, err := v.tokens.QRToken(ctx, g.SuspectID)
	if errors.Is(err, ErrNotFound) {
		return GuessResult{}, ErrInvalidToken
	}
	if err != nil {
		return GuessResult{}, fmt.Errorf("failed to load suspect token: %w", err)
	}

	if !auth.TokensEqual(stored, g.ScannedToken) {
		return GuessResult{}, ErrInvalidToken
	}

	correct, err := v.oracle.IsSanta(ctx, g.GroupID, g.CallerID, g.SuspectID)
	if err != nil {
		return GuessResult{}, fmt.Errorf("failed to check assignment: %w", err)
	}

	if !correct {
		if err := v.lives.DecrementLife(ctx, g.GroupID, g.CallerID); err != nil {
			return GuessResult{}, err
		}
	}

	slog.Info("guess evaluated", "group_id", g.GroupID, "caller_id", g.CallerID, "is_correct", correct)
	return GuessResult{IsCorrect: correct}, nil
}
