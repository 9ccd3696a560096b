package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/huddleapp/huddle/internal/engine"
)

// Challenge represents a time-boxed habit challenge. Immutable once created;
// there is no edit path.
type Challenge struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	Slug        string           `json:"slug" db:"slug"`
	Title       string           `json:"title" db:"title"`
	Description *string          `json:"description,omitempty" db:"description"`
	Category    string           `json:"category" db:"category"`
	Frequency   engine.Frequency `json:"frequency" db:"frequency"`
	StartDate   time.Time        `json:"startDate" db:"start_date"`
	EndDate     time.Time        `json:"endDate" db:"end_date"`
	GoalNumeric *int             `json:"goalNumeric,omitempty" db:"goal_numeric"`
	UnitLabel   *string          `json:"unitLabel,omitempty" db:"unit_label"`
	IsPublic    bool             `json:"isPublic" db:"is_public"`
	OwnerID     string           `json:"ownerId" db:"owner_id"`
	CreatedAt   time.Time        `json:"createdAt" db:"created_at"`

	// Related entities
	Owner       *User         `json:"owner,omitempty"`
	Memberships []*Membership `json:"memberships,omitempty"`
}

// ContainsDate reports whether day falls inside the challenge window.
// Both bounds are inclusive calendar days.
func (c *Challenge) ContainsDate(day time.Time) bool {
	return !day.Before(c.StartDate) && !day.After(c.EndDate)
}
