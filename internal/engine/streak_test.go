package engine

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	d := day(s)
	return &d
}

func TestAdvanceDaily(t *testing.T) {
	tests := []struct {
		name       string
		state      StreakState
		entryDate  time.Time
		wantStreak int
	}{
		{
			name:       "first ever check-in starts at one",
			state:      StreakState{},
			entryDate:  day("2025-06-10"),
			wantStreak: 1,
		},
		{
			name:       "consecutive day extends",
			state:      StreakState{Streak: 5, LastCheckin: dayPtr("2025-06-09")},
			entryDate:  day("2025-06-10"),
			wantStreak: 6,
		},
		{
			name:       "gap resets",
			state:      StreakState{Streak: 5, LastCheckin: dayPtr("2025-06-07")},
			entryDate:  day("2025-06-10"),
			wantStreak: 1,
		},
		{
			name:       "same day resets",
			state:      StreakState{Streak: 5, LastCheckin: dayPtr("2025-06-10")},
			entryDate:  day("2025-06-10"),
			wantStreak: 1,
		},
		{
			name:       "earlier day resets",
			state:      StreakState{Streak: 5, LastCheckin: dayPtr("2025-06-10")},
			entryDate:  day("2025-06-08"),
			wantStreak: 1,
		},
		{
			name:       "extends across month boundary",
			state:      StreakState{Streak: 2, LastCheckin: dayPtr("2025-06-30")},
			entryDate:  day("2025-07-01"),
			wantStreak: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.state.Advance(tt.entryDate, FrequencyDaily)
			if got.Streak != tt.wantStreak {
				t.Errorf("Advance() streak = %d, want %d", got.Streak, tt.wantStreak)
			}
			if got.LastCheckin == nil || !got.LastCheckin.Equal(tt.entryDate) {
				t.Errorf("Advance() lastCheckin = %v, want %v", got.LastCheckin, tt.entryDate)
			}
		})
	}
}

func TestAdvanceWeekly(t *testing.T) {
	tests := []struct {
		name       string
		state      StreakState
		entryDate  time.Time
		wantStreak int
	}{
		{
			name:       "following week extends",
			state:      StreakState{Streak: 3, LastCheckin: dayPtr("2025-06-04")}, // Wednesday
			entryDate:  day("2025-06-09"),                                         // next Monday
			wantStreak: 4,
		},
		{
			name:       "same week resets",
			state:      StreakState{Streak: 3, LastCheckin: dayPtr("2025-06-09")}, // Monday
			entryDate:  day("2025-06-13"),                                         // Friday, same week
			wantStreak: 1,
		},
		{
			name:       "sunday to monday crosses the week boundary",
			state:      StreakState{Streak: 1, LastCheckin: dayPtr("2025-06-08")}, // Sunday
			entryDate:  day("2025-06-09"),                                         // Monday
			wantStreak: 2,
		},
		{
			name:       "two week gap resets",
			state:      StreakState{Streak: 7, LastCheckin: dayPtr("2025-06-02")},
			entryDate:  day("2025-06-16"),
			wantStreak: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.state.Advance(tt.entryDate, FrequencyWeekly)
			if got.Streak != tt.wantStreak {
				t.Errorf("Advance() streak = %d, want %d", got.Streak, tt.wantStreak)
			}
		})
	}
}

func TestAdvanceNormalizesTimezones(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	state := StreakState{Streak: 1, LastCheckin: dayPtr("2025-06-09")}

	// 20:00 EST on June 9 is already June 10 in UTC.
	got := state.Advance(time.Date(2025, 6, 9, 20, 0, 0, 0, est), FrequencyDaily)
	if got.Streak != 2 {
		t.Errorf("streak = %d, want 2 (entry should land on the UTC day)", got.Streak)
	}
	if want := day("2025-06-10"); !got.LastCheckin.Equal(want) {
		t.Errorf("lastCheckin = %v, want %v", got.LastCheckin, want)
	}
}

func TestFromHistoryEmpty(t *testing.T) {
	got := FromHistory(nil, FrequencyDaily)
	if got.Streak != 0 || got.LastCheckin != nil {
		t.Errorf("FromHistory(nil) = %+v, want zero state", got)
	}
}

func TestFromHistoryMatchesIncremental(t *testing.T) {
	histories := map[string][]string{
		"unbroken run":        {"2025-06-01", "2025-06-02", "2025-06-03", "2025-06-04"},
		"reset mid-history":   {"2025-06-01", "2025-06-02", "2025-06-05", "2025-06-06", "2025-06-07"},
		"single entry":        {"2025-06-01"},
		"gaps everywhere":     {"2025-06-01", "2025-06-04", "2025-06-09", "2025-06-20"},
		"ends after a reset":  {"2025-06-01", "2025-06-02", "2025-06-03", "2025-06-10"},
		"month boundary runs": {"2025-05-30", "2025-05-31", "2025-06-01", "2025-06-02"},
	}

	for name, dates := range histories {
		t.Run(name, func(t *testing.T) {
			// Incremental path: fold entries in chronological order as the
			// ledger would have recorded them.
			var incremental StreakState
			for _, d := range dates {
				incremental = incremental.Advance(day(d), FrequencyDaily)
			}

			// Audit path: full recompute, fed in shuffled order.
			shuffled := make([]time.Time, 0, len(dates))
			for i := len(dates) - 1; i >= 0; i-- {
				shuffled = append(shuffled, day(dates[i]))
			}
			audited := FromHistory(shuffled, FrequencyDaily)

			if audited.Streak != incremental.Streak {
				t.Errorf("FromHistory streak = %d, incremental = %d", audited.Streak, incremental.Streak)
			}
			if !audited.LastCheckin.Equal(*incremental.LastCheckin) {
				t.Errorf("FromHistory lastCheckin = %v, incremental = %v", audited.LastCheckin, incremental.LastCheckin)
			}
		})
	}
}

func TestFrequencyValid(t *testing.T) {
	if !FrequencyDaily.Valid() || !FrequencyWeekly.Valid() {
		t.Error("known frequencies reported invalid")
	}
	if Frequency("monthly").Valid() {
		t.Error("unknown frequency reported valid")
	}
}
