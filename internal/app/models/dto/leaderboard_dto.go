package dto

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardRow is one ranked membership.
type LeaderboardRow struct {
	Rank         int            `json:"rank"`
	MembershipID uuid.UUID      `json:"membershipId"`
	Member       MemberIdentity `json:"member"`
	Streak       int            `json:"streak"`
	EntryCount   int            `json:"entryCount"`
	JoinedAt     time.Time      `json:"joinedAt"`
}

// LeaderboardResponse is a deterministic ranking snapshot for one challenge.
type LeaderboardResponse struct {
	ChallengeID uuid.UUID        `json:"challengeId"`
	Rows        []LeaderboardRow `json:"rows"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// FeedResponse is a reverse-chronological snapshot of recent entries.
type FeedResponse struct {
	ChallengeID uuid.UUID       `json:"challengeId"`
	Entries     []EntryResponse `json:"entries"`
	GeneratedAt time.Time       `json:"generatedAt"`
}
