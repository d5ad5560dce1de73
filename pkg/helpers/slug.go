package helpers

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// Slugify lowercases the title, collapses runs of non-alphanumerics into
// single hyphens and appends a millisecond timestamp so two articles with the
// same title never collide.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "untitled"
	}
	return fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
}
