// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The DDL is shared by PostgreSQL and SQLite, so it sticks to the common subset.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema is exported so tests can build the exact production tables.
const Schema = `
-- Profiles
CREATE TABLE IF NOT EXISTS profile (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    avatar_url TEXT,
    qr_token TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Groups
CREATE TABLE IF NOT EXISTS santa_group (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    admin_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'drawn')),
    invite_code TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    drawn_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_santa_group_admin_id ON santa_group(admin_id);

-- Participants
CREATE TABLE IF NOT EXISTS participant (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES santa_group(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    lives INTEGER NOT NULL DEFAULT 3 CHECK (lives >= 0),
    joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (group_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_participant_group_id ON participant(group_id);
CREATE INDEX IF NOT EXISTS idx_participant_user_id ON participant(user_id);

-- Matches
CREATE TABLE IF NOT EXISTS santa_match (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES santa_group(id) ON DELETE CASCADE,
    santa_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    giftee_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    CHECK (santa_id <> giftee_id),
    UNIQUE (group_id, santa_id),
    UNIQUE (group_id, giftee_id)
);

CREATE INDEX IF NOT EXISTS idx_santa_match_group_id ON santa_match(group_id);

-- Wishlist items
CREATE TABLE IF NOT EXISTS wishlist_item (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES profile(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    url TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_wishlist_item_user_id ON wishlist_item(user_id);
`
