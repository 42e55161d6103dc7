// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the only place SQL is written.

It offers two views of the same schema.

# Caller

A Caller is bound to one user ID with AsCaller. Every statement it runs
filters on that user, which gives the row policy of the app:

  - profiles and wishlists are public, QR tokens are only returned by Me
  - a group's invite code is only shown to its admin
  - participants are listed to members and the admin
  - a user reads only the match where they are the santa
  - wishlist items are deleted only by their owner

Joining and admin adds take the group row lock first, so they are
serialized against a draw of the same group and fail with
santa.ErrAlreadyDrawn once it has happened.

# Trusted

Trusted implements the santa.MatchCommitter, santa.TokenLookup,
santa.SantaOracle and santa.LivesCounter interfaces. It may be opened on a
separate connection (SERVICE_DATABASE_URL) with wider grants than the
connection used by Caller.

CommitDraw performs the whole draw in one transaction:

	UPDATE santa_group SET status = 'drawn' WHERE id = $1 AND status = 'open'
	SELECT user_id FROM participant WHERE group_id = $1
	INSERT INTO santa_match ... (one statement, every pair)

If the first statement changes no row the draw already happened and
nothing else runs.

# Errors

Missing rows map to santa.ErrNotFound. Duplicate usernames map to
ErrUsernameTaken and re-adding a member maps to ErrAlreadyMember.
*/
package store
