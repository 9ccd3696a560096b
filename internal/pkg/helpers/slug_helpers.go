package helpers

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateSlug derives a URL-safe, unique slug from a challenge title.
// Lowercased, non-alphanumerics stripped, spaces collapsed to hyphens, with
// a short random suffix so distinct challenges can share a title.
func GenerateSlug(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if slug == "" {
		return suffix
	}
	return slug + "-" + suffix
}
