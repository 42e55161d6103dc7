// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections and schema creation.

# Connections

Open selects the driver from the configured database type:

	conn, err := db.Open(db.TypePostgres, "postgres://...")
	conn, err := db.Open(db.TypeSQLite, "file:santa.db")

PostgreSQL uses github.com/lib/pq. SQLite uses modernc.org/sqlite and is
limited to a single open connection with foreign keys enabled.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - profile: users and their secret QR token
  - santa_group: exchange events, status open → drawn
  - participant: group membership with remaining lives
  - santa_match: santa → giftee edges written by the draw
  - wishlist_item: gift ideas owned by a profile

# Relationships

	profile 1──* santa_group (admin)
	santa_group 1──* participant *──1 profile
	santa_group 1──* santa_match
	profile 1──* wishlist_item

All foreign keys use ON DELETE CASCADE.

# Constraints

  - participant.lives >= 0
  - santa_match: santa_id <> giftee_id, one row per santa and one per
    giftee within a group
  - santa_group.status IN ('open', 'drawn')

# Errors

IsUniqueViolation recognizes duplicate-key failures from both drivers
(pq code 23505, SQLite constraint codes).
*/
package db
