// Package sortname provides the natural ordering used everywhere a list of
// names or relative paths has to be deterministic: numeric-aware ("2" sorts
// before "10"), case-insensitive and diacritic-insensitive.
package sortname

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric, collate.IgnoreCase, collate.IgnoreDiacritics)
}

// Compare returns -1, 0 or 1. Strings that differ only by case or accents
// compare equal.
func Compare(a, b string) int {
	return newCollator().CompareString(a, b)
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

// Strings sorts values in place. Equal values keep their relative order.
func Strings(values []string) {
	c := newCollator()
	sort.SliceStable(values, func(i, j int) bool {
		return c.CompareString(values[i], values[j]) < 0
	})
}

// SliceBy sorts items in place by the string returned from key. Equal keys
// keep their relative order.
func SliceBy[T any](items []T, key func(T) string) {
	c := newCollator()
	sort.SliceStable(items, func(i, j int) bool {
		return c.CompareString(key(items[i]), key(items[j])) < 0
	})
}
