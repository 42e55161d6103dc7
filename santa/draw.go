// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package santa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/secret-santa/models"
)

// GroupReader is the caller-scoped view used to check draw preconditions
type GroupReader interface {
	Group(ctx context.Context, groupID string) (models.Group, error)
	ParticipantCount(ctx context.Context, groupID string) (int, error)
}

// MatchCommitter is the trusted write path for a draw.
//
// CommitDraw must, as one atomic unit: flip the group from open to drawn
// only if it is still open (ErrAlreadyDrawn otherwise), snapshot the
// participant IDs, call assign with them, and insert every returned pair.
// Any error leaves the group open with no matches.
type MatchCommitter interface {
	CommitDraw(ctx context.Context, groupID string, assign func(participantIDs []string) ([]Pair, error)) error
}

// Drawer runs the one-time draw for a group
type Drawer struct {
	groups    GroupReader
	committer MatchCommitter
	generate  func([]string) ([]Pair, error)
}

func NewDrawer(groups GroupReader, committer MatchCommitter) *Drawer {
	return &Drawer{groups: groups, committer: committer, generate: Generate}
}

// PerformDraw assigns every participant of groupID a giftee.
// Only the group admin may draw, and only once.
func (d *Drawer) PerformDraw(ctx context.Context, groupID, callerID string) error {
	if callerID == "" {
		return ErrUnauthorized
	}

	group, err := d.groups.Group(ctx, groupID)
	if err != nil {
		return err
	}

	if group.AdminID != callerID {
		return ErrForbidden
	}

	if group.Status != models.StatusOpen {
		return ErrAlreadyDrawn
	}

	count, err := d.groups.ParticipantCount(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to count participants: %w", err)
	}
	if count < models.MinParticipants {
		return ErrInsufficientParticipants
	}

	// The committer re-checks status and participants inside its transaction;
	// the reads above only give early, caller-friendly errors.
	drawn := 0
	err = d.committer.CommitDraw(ctx, groupID, func(participantIDs []string) ([]Pair, error) {
		pairs, err := d.generate(participantIDs)
		drawn = len(pairs)
		return pairs, err
	})
	if err != nil {
		return err
	}

	slog.Info("draw completed", "group_id", groupID, "participants", drawn)
	return nil
}
