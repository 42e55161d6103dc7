// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielhkuo/secret-santa/auth"
	"github.com/danielhkuo/secret-santa/models"
	"github.com/danielhkuo/secret-santa/santa"
)

// Trusted runs the few operations that must read or write rows no single
// user may touch: every match of a group, other users' QR tokens, and lives.
// It is handed to the santa package only through narrow interfaces.
type Trusted struct {
	db *sql.DB
}

func NewTrusted(conn *sql.DB) *Trusted {
	return &Trusted{db: conn}
}

// CommitDraw flips the group from open to drawn, snapshots its
// participants, and inserts the assignment returned by assign, all in one
// transaction. Only one caller can win the status flip; the rest get
// santa.ErrAlreadyDrawn and nothing is written.
func (t *Trusted) CommitDraw(ctx context.Context, groupID string, assign func([]string) ([]santa.Pair, error)) error {
	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE santa_group
		SET status = $1, drawn_at = $2
		WHERE id = $3 AND status = $4
	`, models.StatusDrawn, time.Now().UTC(), groupID, models.StatusOpen)
	if err != nil {
		return fmt.Errorf("failed to mark group drawn: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to mark group drawn: %w", err)
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM santa_group WHERE id = $1`, groupID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to query group: %w", err)
		}
		if exists == 0 {
			return santa.ErrNotFound
		}
		return santa.ErrAlreadyDrawn
	}

	ids, err := participantIDs(ctx, tx, groupID)
	if err != nil {
		return err
	}

	pairs, err := assign(ids)
	if err != nil {
		return err
	}

	if err := insertMatches(ctx, tx, groupID, pairs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// participantIDs reads the group's members inside the draw transaction.
// The rows are drained before returning so the same tx can write next.
func participantIDs(ctx context.Context, tx *sql.Tx, groupID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT user_id FROM participant WHERE group_id = $1 ORDER BY joined_at, user_id
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}
	return ids, nil
}

// insertMatches writes every pair in a single multi-row INSERT
func insertMatches(ctx context.Context, tx *sql.Tx, groupID string, pairs []santa.Pair) error {
	if len(pairs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO santa_match (id, group_id, santa_id, giftee_id) VALUES ")
	args := make([]any, 0, len(pairs)*4)
	for i, p := range pairs {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 4
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4)
		args = append(args, auth.NewID(), groupID, p.Santa, p.Giftee)
	}

	if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("failed to insert matches: %w", err)
	}
	return nil
}

// QRToken returns the stored token for a profile
func (t *Trusted) QRToken(ctx context.Context, userID string) (string, error) {
	var token string
	err := t.db.QueryRowContext(ctx, `
		SELECT qr_token FROM profile WHERE id = $1
	`, userID).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", santa.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query QR token: %w", err)
	}
	return token, nil
}

// IsSanta reports whether suspectID is the santa of gifteeID in the group
func (t *Trusted) IsSanta(ctx context.Context, groupID, gifteeID, suspectID string) (bool, error) {
	var n int
	err := t.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM santa_match
		WHERE group_id = $1 AND giftee_id = $2 AND santa_id = $3
	`, groupID, gifteeID, suspectID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query match: %w", err)
	}
	return n > 0, nil
}

// DecrementLives spends one life if any remain. The floor is enforced in
// the statement itself, so concurrent misses never go below zero.
func (t *Trusted) DecrementLives(ctx context.Context, groupID, userID string) (bool, error) {
	res, err := t.db.ExecContext(ctx, `
		UPDATE participant
		SET lives = lives - 1
		WHERE group_id = $1 AND user_id = $2 AND lives > 0
	`, groupID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
