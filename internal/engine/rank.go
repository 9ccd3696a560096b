package engine

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Standing is one membership's row in a leaderboard snapshot.
type Standing struct {
	MembershipID uuid.UUID
	UserID       string
	DisplayName  string
	AvatarURL    *string
	Streak       int
	EntryCount   int
	JoinedAt     time.Time
}

// Rank orders a membership snapshot deterministically: streak descending,
// entry count descending, then join time ascending and membership id
// ascending so that ties have a total order. The input is not modified;
// calling Rank twice on the same snapshot yields identical output.
func Rank(standings []Standing) []Standing {
	ranked := make([]Standing, len(standings))
	copy(ranked, standings)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Streak != b.Streak {
			return a.Streak > b.Streak
		}
		if a.EntryCount != b.EntryCount {
			return a.EntryCount > b.EntryCount
		}
		if !a.JoinedAt.Equal(b.JoinedAt) {
			return a.JoinedAt.Before(b.JoinedAt)
		}
		return bytes.Compare(a.MembershipID[:], b.MembershipID[:]) < 0
	})

	return ranked
}
