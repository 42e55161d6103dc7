// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package santa implements the draw and the santa-guessing game.

# Assignment

Generate shuffles the participants uniformly and links them into one cycle:

	pairs, err := santa.Generate([]string{"ana", "ben", "cai"})
	// e.g. ben→ana, ana→cai, cai→ben

Every participant gives exactly once and receives exactly once, and with
two or more participants nobody draws themselves. Fewer than two distinct
IDs fail with ErrInsufficientParticipants.

# Draw

A Drawer checks, in order: an authenticated caller, the group exists
(ErrNotFound), the caller is its admin (ErrForbidden), the group is still
open (ErrAlreadyDrawn), at least two participants
(ErrInsufficientParticipants). It then hands generation to a
MatchCommitter, which flips the status and inserts the matches in one
transaction:

	d := santa.NewDrawer(callerStore, trustedStore)
	err := d.PerformDraw(ctx, groupID, callerID)

The status flip is conditional on the group still being open, so of two
concurrent draws exactly one commits; the other gets ErrAlreadyDrawn.

# Guessing

A challenger names a suspect, scans the suspect's QR code, and submits it:

	v := santa.NewVerifier(trusted, trusted, santa.NewLifeTracker(trusted))
	res, err := v.AttemptScan(ctx, groupID, callerID, suspectID, payload)

The scan is rejected with ErrInvalidToken (no life spent) when the payload
names someone other than the suspect or when its token does not match the
suspect's stored token. Otherwise the trusted SantaOracle answers with a
boolean only. A wrong guess costs one life through the LifeTracker; lives
stop at zero and the guess still succeeds with IsCorrect false.

# Capabilities

Each operation receives only the store capability it uses:

  - GroupReader: caller-scoped group and participant count
  - MatchCommitter: atomic draw commit
  - TokenLookup: a suspect's stored QR token
  - SantaOracle: boolean "is this my santa"
  - LivesCounter: conditional lives decrement
*/
package santa
