package models

import "time"

// Group status constants
const (
	StatusOpen  = "open"
	StatusDrawn = "drawn"
)

// DefaultLives is the number of guesses a participant starts with.
const DefaultLives = 3

// MinParticipants is the smallest group that can be drawn.
const MinParticipants = 2

// Request types

type CreateProfileRequest struct {
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type JoinGroupRequest struct {
	InviteCode string `json:"invite_code"`
}

type AddParticipantRequest struct {
	Username string `json:"username"`
}

// GuessRequest carries either the raw scanned QR payload or the token
// recovered from it. Payload takes precedence when both are set.
type GuessRequest struct {
	SuspectID string `json:"suspect_id"`
	Payload   string `json:"payload,omitempty"`
	QRToken   string `json:"qr_token,omitempty"`
}

type AddWishlistItemRequest struct {
	Title string  `json:"title"`
	URL   *string `json:"url,omitempty"`
}

// Response types

type CreateProfileResponse struct {
	Profile Profile `json:"profile"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type JoinGroupResponse struct {
	GroupID string `json:"group_id"`
	Joined  bool   `json:"joined"`
	Message string `json:"message,omitempty"`
}

type DrawResponse struct {
	GroupID string `json:"group_id"`
	Status  string `json:"status"`
}

// GuessResponse carries only the outcome, never the real santa.
type GuessResponse struct {
	IsCorrect bool `json:"is_correct"`
}

type GroupDetail struct {
	Group         Group         `json:"group"`
	Participants  []Participant `json:"participants"`
	MyGiftee      *Profile      `json:"my_giftee,omitempty"`
	IsAdmin       bool          `json:"is_admin"`
	IsParticipant bool          `json:"is_participant"`
}

type ProfileWithWishlist struct {
	Profile  Profile        `json:"profile"`
	Wishlist []WishlistItem `json:"wishlist"`
	IsOwner  bool           `json:"is_owner"`
}

// Domain types

type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	QRToken   string    `json:"qr_token,omitempty"` // Only populated for the owner
	CreatedAt time.Time `json:"created_at"`
}

type Group struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	AdminID    string     `json:"admin_id"`
	Status     string     `json:"status"`
	InviteCode string     `json:"invite_code,omitempty"` // Only populated for the admin
	CreatedAt  time.Time  `json:"created_at"`
	DrawnAt    *time.Time `json:"drawn_at,omitempty"`
}

type Participant struct {
	ID       string    `json:"id"`
	GroupID  string    `json:"group_id"`
	UserID   string    `json:"user_id"`
	Username string    `json:"username,omitempty"`
	Lives    int       `json:"lives"`
	JoinedAt time.Time `json:"joined_at"`
}

type WishlistItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	URL       *string   `json:"url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
