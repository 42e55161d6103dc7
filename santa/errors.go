// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package santa

import "errors"

var (
	ErrUnauthorized             = errors.New("not authenticated")
	ErrForbidden                = errors.New("not allowed")
	ErrNotFound                 = errors.New("not found")
	ErrAlreadyDrawn             = errors.New("draw already performed")
	ErrInsufficientParticipants = errors.New("need at least 2 participants")
	ErrInvalidToken             = errors.New("invalid QR code")
)
