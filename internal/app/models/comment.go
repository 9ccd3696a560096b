package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxCommentLength caps a discussion comment's body.
const MaxCommentLength = 500

// Comment is a discussion message on a challenge.
type Comment struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ChallengeID uuid.UUID `json:"challengeId" db:"challenge_id"`
	UserID      string    `json:"userId" db:"user_id"`
	Body        string    `json:"body" db:"body"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Author *User `json:"author,omitempty"`
}
