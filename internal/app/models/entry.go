package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxNoteLength caps the free-text note on a check-in.
const MaxNoteLength = 220

// Entry is one recorded check-in in the append-only ledger. Entries are
// immutable; the unique (membership_id, entry_date) pair is the idempotency
// contract for check-ins.
type Entry struct {
	ID           uuid.UUID `json:"id" db:"id"`
	MembershipID uuid.UUID `json:"membershipId" db:"membership_id"`
	EntryDate    time.Time `json:"entryDate" db:"entry_date"`
	ValueNumeric *int      `json:"valueNumeric,omitempty" db:"value_numeric"`
	Note         *string   `json:"note,omitempty" db:"note"`
	PhotoURL     *string   `json:"photoUrl,omitempty" db:"photo_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Member *User `json:"member,omitempty"`
}
