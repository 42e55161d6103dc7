// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateProfileRequest: username, avatar_url
  - CreateGroupRequest: name
  - JoinGroupRequest: invite_code
  - AddParticipantRequest: username
  - GuessRequest: suspect_id, payload or qr_token
  - AddWishlistItemRequest: title, url

# Response Types

Types for JSON responses:

  - CreateProfileResponse, CreateGroupResponse, JoinGroupResponse
  - DrawResponse: group_id, status
  - GuessResponse: is_correct and nothing else
  - GroupDetail: group, participants, my_giftee
  - ProfileWithWishlist: profile, wishlist, is_owner
  - ErrorResponse: error, message

# Domain Types

  - Profile: a user; QRToken is only filled for its owner
  - Group: a gift exchange, status open → drawn
  - Participant: membership with remaining lives
  - WishlistItem: owned by a profile

# Constants

	StatusOpen, StatusDrawn   // group lifecycle
	DefaultLives = 3          // starting guesses per participant
	MinParticipants = 2       // smallest drawable group
*/
package models
