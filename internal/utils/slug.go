package utils

import (
	"regexp"
	"strings"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the lowercase URL slug stored alongside catalog item
// names. Recomputed explicitly whenever the name changes.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}
