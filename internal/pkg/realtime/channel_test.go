package realtime

import "testing"

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Filter
		wantErr bool
	}{
		{"empty matches all", "", Filter{}, false},
		{"column equality", "challenge_id=eq.42", Filter{Column: "challenge_id", Value: "42"}, false},
		{"uuid value", "challenge_id=eq.0b80e9de-8f39-4c7e-9b2c-000000000001", Filter{Column: "challenge_id", Value: "0b80e9de-8f39-4c7e-9b2c-000000000001"}, false},
		{"missing operator", "challenge_id=42", Filter{}, true},
		{"unsupported operator", "streak=gt.3", Filter{}, true},
		{"missing column", "=eq.42", Filter{}, true},
		{"missing value", "challenge_id=eq.", Filter{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilter(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFilter(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFilter(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFilterMatches(t *testing.T) {
	event := ChangeEvent{
		Table: "memberships",
		Op:    OpInsert,
		Record: map[string]interface{}{
			"challenge_id": "abc-123",
			"streak":       float64(4), // numbers arrive as float64 from JSON
		},
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"zero filter matches", Filter{}, true},
		{"matching string value", Filter{Column: "challenge_id", Value: "abc-123"}, true},
		{"non-matching value", Filter{Column: "challenge_id", Value: "other"}, false},
		{"numeric value compared as text", Filter{Column: "streak", Value: "4"}, true},
		{"column absent from record", Filter{Column: "membership_id", Value: "abc"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(event); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	removed := 0
	sub := &Subscription{
		events: make(chan ChangeEvent, 1),
		cancel: func(*Subscription) { removed++ },
	}

	sub.Unsubscribe()
	sub.Unsubscribe()

	if removed != 1 {
		t.Errorf("cancel ran %d times, want 1", removed)
	}
	if _, open := <-sub.Events(); open {
		t.Error("events channel still open after Unsubscribe")
	}
}
