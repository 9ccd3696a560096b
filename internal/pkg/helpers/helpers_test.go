package helpers

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		prefix string
	}{
		{"simple title", "10,000 Steps Daily", "10000-steps-daily-"},
		{"collapses whitespace", "Read   More  Books", "read-more-books-"},
		{"strips punctuation", "Don't Skip Leg Day!", "dont-skip-leg-day-"},
		{"already hyphenated", "no-sugar-november", "no-sugar-november-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug := GenerateSlug(tt.title)
			if !strings.HasPrefix(slug, tt.prefix) {
				t.Errorf("GenerateSlug(%q) = %q, want prefix %q", tt.title, slug, tt.prefix)
			}
			suffix := strings.TrimPrefix(slug, tt.prefix)
			if len(suffix) != 8 {
				t.Errorf("random suffix = %q, want 8 characters", suffix)
			}
		})
	}
}

func TestGenerateSlugUnique(t *testing.T) {
	a := GenerateSlug("Morning Run")
	b := GenerateSlug("Morning Run")
	if a == b {
		t.Errorf("two slugs from the same title collided: %q", a)
	}
}

func TestGenerateSlugSymbolOnlyTitle(t *testing.T) {
	slug := GenerateSlug("!!!")
	if len(slug) != 8 {
		t.Errorf("GenerateSlug(%q) = %q, want bare 8-character suffix", "!!!", slug)
	}
}

func TestDateOnly(t *testing.T) {
	est := time.FixedZone("EST", -5*60*60)
	// 23:30 EST on Jan 1 is already Jan 2 in UTC.
	in := time.Date(2025, 1, 1, 23, 30, 0, 0, est)
	got := DateOnly(in)
	want := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly(%v) = %v, want %v", in, got, want)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if FormatDate(d) != "2025-03-09" {
		t.Errorf("round trip = %q, want 2025-03-09", FormatDate(d))
	}
	if _, err := ParseDate("03/09/2025"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
