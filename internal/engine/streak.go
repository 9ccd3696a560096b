package engine

import (
	"sort"
	"time"
)

// Frequency is the check-in cadence of a challenge. It selects the period
// unit used by the streak gap test: consecutive calendar days for daily
// challenges, consecutive Monday-based weeks for weekly ones.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}

// StreakState is the derived per-membership state maintained by the ledger.
// Streak and LastCheckin are a cache of FromHistory over the full entry set;
// they are never an independent source of truth.
type StreakState struct {
	Streak      int
	LastCheckin *time.Time
}

// Advance returns the state after recording a check-in on entryDate.
//
// First-ever check-in starts the streak at 1. A check-in in the period
// immediately after LastCheckin's period extends it by one. Anything else,
// including a date at or before LastCheckin (which the ledger's uniqueness
// rule should prevent), resets to 1.
func (s StreakState) Advance(entryDate time.Time, freq Frequency) StreakState {
	day := dateOnly(entryDate)
	next := StreakState{Streak: 1, LastCheckin: &day}

	if s.LastCheckin == nil {
		return next
	}
	if periodIndex(day, freq)-periodIndex(*s.LastCheckin, freq) == 1 {
		next.Streak = s.Streak + 1
	}
	return next
}

// FromHistory recomputes the streak state from scratch over a membership's
// full entry history. Replaying the dates in ascending order through Advance
// reproduces exactly what the incremental path maintains, which makes this
// the audit/repair tool for a drifted streak cache.
func FromHistory(entryDates []time.Time, freq Frequency) StreakState {
	if len(entryDates) == 0 {
		return StreakState{}
	}

	days := make([]time.Time, len(entryDates))
	for i, d := range entryDates {
		days[i] = dateOnly(d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var state StreakState
	for _, day := range days {
		state = state.Advance(day, freq)
	}
	return state
}

// dateOnly normalizes to midnight UTC. The engine's timezone policy: a
// "calendar day" is always the UTC day.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// periodIndex maps a calendar day to its ordinal period under freq. Daily
// periods count days since the Unix epoch; weekly periods count Monday-based
// weeks (1970-01-01 was a Thursday, hence the +3 shift).
func periodIndex(day time.Time, freq Frequency) int {
	days := floorDiv(day.Unix(), 86400)
	if freq == FrequencyWeekly {
		return int(floorDiv(days+3, 7))
	}
	return int(days)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
