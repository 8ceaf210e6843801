// Package slug derives URL-safe identifiers from section titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	invalid    = regexp.MustCompile(`[^\w-]`)
	hyphenRun  = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases the title, turns whitespace runs into single hyphens,
// strips everything that is not a word character or hyphen, collapses hyphen
// runs, and trims hyphens from both ends. The transformation is idempotent:
// applying it to an existing slug returns the slug unchanged.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = whitespace.ReplaceAllString(s, "-")
	s = invalid.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
