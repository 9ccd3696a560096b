package dto

import (
	"time"

	"github.com/google/uuid"
)

// CheckinRequest is the multipart check-in form. The photo part, when
// present, is read from the request separately.
type CheckinRequest struct {
	EntryDate    string  `form:"entryDate" binding:"omitempty"` // YYYY-MM-DD, defaults to today (UTC)
	ValueNumeric *int    `form:"valueNumeric" binding:"omitempty,min=0"`
	Note         *string `form:"note" binding:"omitempty,max=220"`
}

// CheckinResponse reports the recorded entry and the streak it produced.
type CheckinResponse struct {
	Entry       EntryResponse `json:"entry"`
	Streak      int           `json:"streak"`
	LastCheckin string        `json:"lastCheckin"` // YYYY-MM-DD
}

// EntryResponse is one ledger entry in API payloads.
type EntryResponse struct {
	ID           uuid.UUID       `json:"id"`
	MembershipID uuid.UUID       `json:"membershipId"`
	EntryDate    string          `json:"entryDate"` // YYYY-MM-DD
	ValueNumeric *int            `json:"valueNumeric,omitempty"`
	Note         *string         `json:"note,omitempty"`
	PhotoURL     *string         `json:"photoUrl,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	Member       *MemberIdentity `json:"member,omitempty"`
}
