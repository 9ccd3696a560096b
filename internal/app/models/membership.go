package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership is a user's enrollment in a challenge. Streak and LastCheckin
// are derived state: only the check-in ledger mutates them, through the
// streak calculator, as a side effect of entry writes.
type Membership struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	ChallengeID uuid.UUID  `json:"challengeId" db:"challenge_id"`
	UserID      string     `json:"userId" db:"user_id"`
	Streak      int        `json:"streak" db:"streak"`
	LastCheckin *time.Time `json:"lastCheckin,omitempty" db:"last_checkin"`
	JoinedAt    time.Time  `json:"joinedAt" db:"joined_at"`

	// Related entities
	User *User `json:"user,omitempty"`
}
