package commons

import (
	"strings"
	"time"
)

func HumanUTC(t time.Time) string {
	return t.UTC().Format(UTC_LAYOUT)
}

// Snippet flattens a comment body onto one line and truncates it to
// SNIPPET_MAX characters.
func Snippet(body string) string {
	s := strings.ReplaceAll(body, "\n", " ")
	r := []rune(s)
	if len(r) > SNIPPET_MAX {
		return string(r[:SNIPPET_KEEP]) + ELLIPSIS
	}
	return s
}

func Cutoff(now time.Time, olderThanDays int) time.Time {
	return now.Add(-time.Duration(olderThanDays) * SECONDS_PER_DAY * time.Second)
}
