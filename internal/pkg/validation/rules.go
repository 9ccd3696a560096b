package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// Slug pattern: lowercase words joined by single hyphens
	SlugPattern = `^[a-z0-9]+(-[a-z0-9]+)*$`

	// Category pattern - short lowercase tag
	CategoryPattern = `^[a-z][a-z0-9-]{0,59}$`
)

// CompiledPatterns caches compiled regex patterns for better performance
var CompiledPatterns = struct {
	Slug     *regexp.Regexp
	Category *regexp.Regexp
}{
	Slug:     regexp.MustCompile(SlugPattern),
	Category: regexp.MustCompile(CategoryPattern),
}

// IsSlug reports whether s has the canonical slug shape.
func IsSlug(s string) bool {
	return s != "" && len(s) <= 160 && CompiledPatterns.Slug.MatchString(s)
}

// ValidateNote checks an optional check-in note.
func ValidateNote(note *string) error {
	if note == nil {
		return nil
	}
	if utf8.RuneCountInString(*note) > models.MaxNoteLength {
		return apperrors.NewValidationError("note exceeds maximum length")
	}
	return nil
}

// ValidateCheckinValue checks an optional numeric progress value.
func ValidateCheckinValue(value *int) error {
	if value != nil && *value < 0 {
		return apperrors.NewValidationError("value must not be negative")
	}
	return nil
}

// ValidateCommentBody normalizes and checks a discussion comment body,
// returning the trimmed text.
func ValidateCommentBody(body string) (string, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return "", apperrors.NewValidationError("comment body must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > models.MaxCommentLength {
		return "", apperrors.NewValidationError("comment exceeds maximum length")
	}
	return trimmed, nil
}
