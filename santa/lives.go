// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package santa

import (
	"context"
	"fmt"
	"log/slog"
)

// LivesCounter decrements a participant's lives in one conditional write.
// It reports false when the counter was already zero (or the row is absent).
type LivesCounter interface {
	DecrementLives(ctx context.Context, groupID, userID string) (bool, error)
}

// LifeTracker spends lives on wrong guesses. Lives never go below zero
// and are never restored.
type LifeTracker struct {
	counter LivesCounter
}

func NewLifeTracker(counter LivesCounter) *LifeTracker {
	return &LifeTracker{counter: counter}
}

// DecrementLife takes one life from userID in groupID, or does nothing at zero
func (l *LifeTracker) DecrementLife(ctx context.Context, groupID, userID string) error {
	spent, err := l.counter.DecrementLives(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to decrement lives: %w", err)
	}
	if !spent {
		slog.Debug("no lives left to spend", "group_id", groupID, "user_id", userID)
	}
	return nil
}
