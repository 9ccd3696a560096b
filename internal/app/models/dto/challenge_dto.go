package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateChallengeRequest is the challenge creation form.
type CreateChallengeRequest struct {
	Title       string  `json:"title" binding:"required,min=3,max=120"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Category    string  `json:"category" binding:"required,max=60"`
	Frequency   string  `json:"frequency" binding:"required,oneof=daily weekly"`
	StartDate   string  `json:"startDate" binding:"required"` // YYYY-MM-DD
	EndDate     string  `json:"endDate" binding:"required"`   // YYYY-MM-DD
	GoalNumeric *int    `json:"goalNumeric" binding:"omitempty,min=1"`
	UnitLabel   *string `json:"unitLabel" binding:"omitempty,max=40"`
	IsPublic    *bool   `json:"isPublic"`
}

// MemberIdentity is the display identity attached to feed and leaderboard rows.
type MemberIdentity struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// ChallengeResponse is a challenge in list and detail payloads.
type ChallengeResponse struct {
	ID          uuid.UUID       `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	Category    string          `json:"category"`
	Frequency   string          `json:"frequency"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	GoalNumeric *int            `json:"goalNumeric,omitempty"`
	UnitLabel   *string         `json:"unitLabel,omitempty"`
	IsPublic    bool            `json:"isPublic"`
	Owner       *MemberIdentity `json:"owner,omitempty"`
	MemberCount int             `json:"memberCount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ChallengeDetailResponse adds the caller's membership, when one exists.
type ChallengeDetailResponse struct {
	ChallengeResponse
	Membership *MembershipResponse `json:"membership,omitempty"`
}

// MembershipResponse is one membership with its derived streak state.
type MembershipResponse struct {
	ID          uuid.UUID  `json:"id"`
	ChallengeID uuid.UUID  `json:"challengeId"`
	Streak      int        `json:"streak"`
	LastCheckin *string    `json:"lastCheckin,omitempty"` // YYYY-MM-DD
	JoinedAt    time.Time  `json:"joinedAt"`
	Member      *MemberIdentity `json:"member,omitempty"`
}
