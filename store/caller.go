// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/secret-santa/auth"
	"github.com/danielhkuo/secret-santa/db"
	"github.com/danielhkuo/secret-santa/models"
	"github.com/danielhkuo/secret-santa/santa"
)

var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrAlreadyMember = errors.New("user is already in the group")
)

// inviteCodeAttempts bounds retries on the (unlikely) invite code collision
const inviteCodeAttempts = 3

// Caller runs queries with one user's access rights. Every statement
// filters on the caller so it only sees or changes rows the user owns,
// belongs to, or administers.
type Caller struct {
	db     *sql.DB
	userID string
}

func AsCaller(conn *sql.DB, userID string) *Caller {
	return &Caller{db: conn, userID: userID}
}

func (c *Caller) UserID() string {
	return c.userID
}

// CreateProfile registers a new profile with a fresh QR token
func CreateProfile(ctx context.Context, conn *sql.DB, username string, avatarURL *string) (models.Profile, error) {
	token, err := auth.GenerateQRToken()
	if err != nil {
		return models.Profile{}, err
	}

	profile := models.Profile{
		ID:        auth.NewID(),
		Username:  username,
		AvatarURL: avatarURL,
		QRToken:   token,
		CreatedAt: time.Now().UTC(),
	}

	_, err = conn.ExecContext(ctx, `
		INSERT INTO profile (id, username, avatar_url, qr_token, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, profile.ID, profile.Username, profile.AvatarURL, profile.QRToken, profile.CreatedAt)
	if db.IsUniqueViolation(err) {
		return models.Profile{}, ErrUsernameTaken
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to insert profile: %w", err)
	}

	return profile, nil
}

// Me returns the caller's own profile, QR token included
func (c *Caller) Me(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	err := c.db.QueryRowContext(ctx, `
		SELECT id, username, avatar_url, qr_token, created_at
		FROM profile
		WHERE id = $1
	`, c.userID).Scan(&p.ID, &p.Username, &p.AvatarURL, &p.QRToken, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, santa.ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to query profile: %w", err)
	}
	return p, nil
}

// Profile returns the public view of any profile (never the QR token)
func (c *Caller) Profile(ctx context.Context, userID string) (models.Profile, error) {
	var p models.Profile
	err := c.db.QueryRowContext(ctx, `
		SELECT id, username, avatar_url, created_at
		FROM profile
		WHERE id = $1
	`, userID).Scan(&p.ID, &p.Username, &p.AvatarURL, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Profile{}, santa.ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("failed to query profile: %w", err)
	}
	return p, nil
}

// Group returns group metadata. The invite code is only shown to the admin.
func (c *Caller) Group(ctx context.Context, groupID string) (models.Group, error) {
	var g models.Group
	err := c.db.QueryRowContext(ctx, `
		SELECT id, name, admin_id, status, invite_code, created_at, drawn_at
		FROM santa_group
		WHERE id = $1
	`, groupID).Scan(&g.ID, &g.Name, &g.AdminID, &g.Status, &g.InviteCode, &g.CreatedAt, &g.DrawnAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, santa.ErrNotFound
	}
	if err != nil {
		return models.Group{}, fmt.Errorf("failed to query group: %w", err)
	}

	if g.AdminID != c.userID {
		g.InviteCode = ""
	}
	return g, nil
}

// ParticipantCount counts the members of a group
func (c *Caller) ParticipantCount(ctx context.Context, groupID string) (int, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM participant WHERE group_id = $1
	`, groupID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return n, nil
}

// IsParticipant reports whether the caller belongs to the group
func (c *Caller) IsParticipant(ctx context.Context, groupID string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM participant WHERE group_id = $1 AND user_id = $2
	`, groupID, c.userID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return n > 0, nil
}

// Participants lists a group's members with their remaining lives.
// Only members and the admin may list them.
func (c *Caller) Participants(ctx context.Context, groupID string) ([]models.Participant, error) {
	group, err := c.Group(ctx, groupID)
	if err != nil {
		return nil, err
	}
	member, err := c.IsParticipant(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !member && group.AdminID != c.userID {
		return nil, santa.ErrForbidden
	}

	rows, err := c.db.QueryContext(ctx, `
		SELECT pa.id, pa.group_id, pa.user_id, pr.username, pa.lives, pa.joined_at
		FROM participant pa
		JOIN profile pr ON pr.id = pa.user_id
		WHERE pa.group_id = $1
		ORDER BY pa.joined_at, pr.username
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.GroupID, &p.UserID, &p.Username, &p.Lives, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read participants: %w", err)
	}

	return participants, nil
}

// MyGiftee returns the profile the caller gives to, or nil before the draw.
// Only the match row where the caller is santa is readable.
func (c *Caller) MyGiftee(ctx context.Context, groupID string) (*models.Profile, error) {
	var p models.Profile
	err := c.db.QueryRowContext(ctx, `
		SELECT pr.id, pr.username, pr.avatar_url, pr.created_at
		FROM santa_match m
		JOIN profile pr ON pr.id = m.giftee_id
		WHERE m.group_id = $1 AND m.santa_id = $2
	`, groupID, c.userID).Scan(&p.ID, &p.Username, &p.AvatarURL, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query match: %w", err)
	}
	return &p, nil
}

// GroupDetail assembles everything the group page shows the caller
func (c *Caller) GroupDetail(ctx context.Context, groupID string) (models.GroupDetail, error) {
	participants, err := c.Participants(ctx, groupID)
	if err != nil {
		return models.GroupDetail{}, err
	}

	group, err := c.Group(ctx, groupID)
	if err != nil {
		return models.GroupDetail{}, err
	}

	detail := models.GroupDetail{
		Group:        group,
		Participants: participants,
		IsAdmin:      group.AdminID == c.userID,
	}
	for _, p := range participants {
		if p.UserID == c.userID {
			detail.IsParticipant = true
			break
		}
	}

	if group.Status == models.StatusDrawn {
		detail.MyGiftee, err = c.MyGiftee(ctx, groupID)
		if err != nil {
			return models.GroupDetail{}, err
		}
	}

	return detail, nil
}

// MyGroups lists the groups the caller administers or belongs to
func (c *Caller) MyGroups(ctx context.Context) ([]models.Group, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.admin_id, g.status, g.invite_code, g.created_at, g.drawn_at
		FROM santa_group g
		WHERE g.admin_id = $1
		   OR EXISTS (SELECT 1 FROM participant pa WHERE pa.group_id = g.id AND pa.user_id = $1)
		ORDER BY g.created_at DESC
	`, c.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups: %w", err)
	}
	defer rows.Close()

	groups := []models.Group{}
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.AdminID, &g.Status, &g.InviteCode, &g.CreatedAt, &g.DrawnAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		if g.AdminID != c.userID {
			g.InviteCode = ""
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read groups: %w", err)
	}

	return groups, nil
}

// CreateGroup creates an open group administered by the caller, who joins it
func (c *Caller) CreateGroup(ctx context.Context, name string) (models.Group, error) {
	now := time.Now().UTC()
	group := models.Group{
		ID:        auth.NewID(),
		Name:      name,
		AdminID:   c.userID,
		Status:    models.StatusOpen,
		CreatedAt: now,
	}

	for attempt := 1; ; attempt++ {
		code, err := auth.GenerateInviteCode()
		if err != nil {
			return models.Group{}, err
		}
		group.InviteCode = code

		err = c.insertGroup(ctx, group)
		if err == nil {
			return group, nil
		}
		if !db.IsUniqueViolation(err) || attempt == inviteCodeAttempts {
			return models.Group{}, err
		}
	}
}

func (c *Caller) insertGroup(ctx context.Context, group models.Group) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO santa_group (id, name, admin_id, status, invite_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, group.ID, group.Name, group.AdminID, group.Status, group.InviteCode, group.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertParticipant(ctx, tx, group.ID, group.AdminID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// JoinGroup adds the caller to the group with the given invite code.
// Joining twice is not an error; joined reports whether a row was added.
func (c *Caller) JoinGroup(ctx context.Context, inviteCode string) (groupID string, joined bool, err error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		SELECT id FROM santa_group WHERE invite_code = $1
	`, inviteCode).Scan(&groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, santa.ErrNotFound
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query group: %w", err)
	}

	if err := lockOpenGroup(ctx, tx, groupID); err != nil {
		return "", false, err
	}

	err = insertParticipant(ctx, tx, groupID, c.userID)
	if db.IsUniqueViolation(err) {
		return groupID, false, nil
	}
	if err != nil {
		return "", false, err
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return groupID, true, nil
}

// AddParticipant lets the admin add another user by username
func (c *Caller) AddParticipant(ctx context.Context, groupID, username string) (models.Participant, error) {
	group, err := c.Group(ctx, groupID)
	if err != nil {
		return models.Participant{}, err
	}
	if group.AdminID != c.userID {
		return models.Participant{}, santa.ErrForbidden
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Participant{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var userID string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM profile WHERE username = $1
	`, username).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Participant{}, santa.ErrNotFound
	}
	if err != nil {
		return models.Participant{}, fmt.Errorf("failed to query profile: %w", err)
	}

	if err := lockOpenGroup(ctx, tx, groupID); err != nil {
		return models.Participant{}, err
	}

	err = insertParticipant(ctx, tx, groupID, userID)
	if db.IsUniqueViolation(err) {
		return models.Participant{}, ErrAlreadyMember
	}
	if err != nil {
		return models.Participant{}, err
	}

	var p models.Participant
	err = tx.QueryRowContext(ctx, `
		SELECT id, group_id, user_id, lives, joined_at
		FROM participant
		WHERE group_id = $1 AND user_id = $2
	`, groupID, userID).Scan(&p.ID, &p.GroupID, &p.UserID, &p.Lives, &p.JoinedAt)
	if err != nil {
		return models.Participant{}, fmt.Errorf("failed to read participant: %w", err)
	}
	p.Username = username

	if err := tx.Commit(); err != nil {
		return models.Participant{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return p, nil
}

// Wishlist lists a user's wishlist, newest first. Wishlists are public.
func (c *Caller) Wishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, user_id, title, url, created_at
		FROM wishlist_item
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	items := []models.WishlistItem{}
	for rows.Next() {
		var item models.WishlistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.URL, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read wishlist: %w", err)
	}

	return items, nil
}

// AddWishlistItem appends an item to the caller's wishlist
func (c *Caller) AddWishlistItem(ctx context.Context, title string, url *string) (models.WishlistItem, error) {
	item := models.WishlistItem{
		ID:        auth.NewID(),
		UserID:    c.userID,
		Title:     title,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO wishlist_item (id, user_id, title, url, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, item.ID, item.UserID, item.Title, item.URL, item.CreatedAt)
	if err != nil {
		return models.WishlistItem{}, fmt.Errorf("failed to insert wishlist item: %w", err)
	}
	return item, nil
}

// DeleteWishlistItem removes one of the caller's own items
func (c *Caller) DeleteWishlistItem(ctx context.Context, itemID string) error {
	res, err := c.db.ExecContext(ctx, `
		DELETE FROM wishlist_item WHERE id = $1 AND user_id = $2
	`, itemID, c.userID)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	if n == 0 {
		return santa.ErrNotFound
	}
	return nil
}

// lockOpenGroup takes the group's row lock and fails if it is no longer open.
// A draw flips the same row first, so a join either lands before the draw's
// participant snapshot or sees the group drawn.
func lockOpenGroup(ctx context.Context, tx *sql.Tx, groupID string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE santa_group SET status = status WHERE id = $1 AND status = $2
	`, groupID, models.StatusOpen)
	if err != nil {
		return fmt.Errorf("failed to lock group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to lock group: %w", err)
	}
	if n == 0 {
		return santa.ErrAlreadyDrawn
	}
	return nil
}

func insertParticipant(ctx context.Context, tx *sql.Tx, groupID, userID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO participant (id, group_id, user_id, lives, joined_at)
		VALUES ($1, $2, $3, $4, $5)
	`, auth.NewID(), groupID, userID, models.DefaultLives, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}
