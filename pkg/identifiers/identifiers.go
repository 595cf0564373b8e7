// Package identifiers derives the canonical keys used to join subjects and
// media files across manifests, the catalog and legacy sources.
package identifiers

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumRE = regexp.MustCompile(`[^a-z0-9]+`)
	extRE      = regexp.MustCompile(`\.[^.]+$`)
)

// Slugify lowercases text, strips diacritics, collapses every run of
// non-alphanumeric characters into a single hyphen and trims hyphens from both
// ends. "  Émilia  Bryan " becomes "emilia-bryan".
func Slugify(text string) string {
	if text == "" {
		return ""
	}

	lower := strings.ToLower(text)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	stripped, _, err := transform.String(t, lower)
	if err != nil {
		stripped = lower
	}

	slug := nonAlnumRE.ReplaceAllString(stripped, "-")
	return strings.Trim(slug, "-")
}

// BasenameKey reduces a relative path or a URL to the slug of its last path
// segment without the extension. The same photo keeps the same key after it
// moves between storage backends.
func BasenameKey(value string) string {
	normalized := strings.ReplaceAll(value, "\\", "/")
	if i := strings.IndexAny(normalized, "?#"); i >= 0 {
		normalized = normalized[:i]
	}
	normalized = strings.TrimRight(normalized, "/")
	if normalized == "" {
		return ""
	}

	base := path.Base(normalized)
	return Slugify(extRE.ReplaceAllString(base, ""))
}
