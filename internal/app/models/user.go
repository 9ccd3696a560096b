package models

import "time"

// User mirrors the identity provider's view of an account. Rows are written
// once when a token for an unknown subject is first seen and are otherwise
// read-only; the provider stays the source of truth for profile data.
type User struct {
	ID          string    `json:"id" db:"id"` // identity provider subject
	DisplayName string    `json:"displayName" db:"display_name"`
	AvatarURL   *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
