package validation

import (
	"strings"
	"testing"

	"github.com/huddleapp/huddle/internal/app/models"
)

func TestIsSlug(t *testing.T) {
	tests := []struct {
		name string
		slug string
		want bool
	}{
		{"simple", "morning-run", true},
		{"single word", "walking", true},
		{"with digits", "30-days-of-walking-x7k2", true},
		{"empty", "", false},
		{"uppercase", "Morning-Run", false},
		{"double hyphen", "morning--run", false},
		{"leading hyphen", "-morning", false},
		{"trailing hyphen", "morning-", false},
		{"spaces", "morning run", false},
		{"too long", strings.Repeat("a", 161), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSlug(tt.slug); got != tt.want {
				t.Errorf("IsSlug(%q) = %v, want %v", tt.slug, got, tt.want)
			}
		})
	}
}

func TestValidateNote(t *testing.T) {
	long := strings.Repeat("x", models.MaxNoteLength+1)
	ok := strings.Repeat("x", models.MaxNoteLength)

	if err := ValidateNote(nil); err != nil {
		t.Errorf("ValidateNote(nil) = %v, want nil", err)
	}
	if err := ValidateNote(&ok); err != nil {
		t.Errorf("ValidateNote(max length) = %v, want nil", err)
	}
	if err := ValidateNote(&long); err == nil {
		t.Error("ValidateNote(over limit) = nil, want error")
	}

	// The limit counts characters, not bytes: a note in a multibyte script
	// that fits the column must pass.
	multibyte := strings.Repeat("é", models.MaxNoteLength)
	if err := ValidateNote(&multibyte); err != nil {
		t.Errorf("ValidateNote(max-length multibyte note) = %v, want nil", err)
	}
	multibyteLong := strings.Repeat("é", models.MaxNoteLength+1)
	if err := ValidateNote(&multibyteLong); err == nil {
		t.Error("ValidateNote(multibyte over limit) = nil, want error")
	}
}

func TestValidateCheckinValue(t *testing.T) {
	zero, neg := 0, -1

	if err := ValidateCheckinValue(nil); err != nil {
		t.Errorf("ValidateCheckinValue(nil) = %v, want nil", err)
	}
	if err := ValidateCheckinValue(&zero); err != nil {
		t.Errorf("ValidateCheckinValue(0) = %v, want nil", err)
	}
	if err := ValidateCheckinValue(&neg); err == nil {
		t.Error("ValidateCheckinValue(-1) = nil, want error")
	}
}

func TestValidateCommentBody(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"plain", "nice pace today", "nice pace today", false},
		{"trimmed", "  well done  ", "well done", false},
		{"empty", "", "", true},
		{"whitespace only", "   \n\t", "", true},
		{"over limit", strings.Repeat("x", models.MaxCommentLength+1), "", true},
		{"multibyte at limit", strings.Repeat("ü", models.MaxCommentLength), strings.Repeat("ü", models.MaxCommentLength), false},
		{"multibyte over limit", strings.Repeat("ü", models.MaxCommentLength+1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateCommentBody(tt.body)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}
