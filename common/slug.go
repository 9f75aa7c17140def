package common

import (
	"fmt"
	"strings"
	"unicode"
)

const maxSlugLen = 64

// Slugify derives a URL-safe slug from input. When input yields nothing
// usable the fallback is used instead; an empty fallback is an error.
func Slugify(input, fallback string) (string, error) {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(input)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.Trim(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		if fallback == "" {
			return "", fmt.Errorf("cannot derive slug from %q", input)
		}
		slug = fallback
	}
	return slug, nil
}
