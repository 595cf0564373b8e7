// Package media puts a subject's photos into their published order.
package media

import (
	"strings"

	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
	"github.com/Cyberdude00/aura-scouting-web/pkg/sortname"
)

// Kind is the semantic bucket a photo falls into.
type Kind int

const (
	KindPrimary Kind = iota
	KindSupplementary
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindSupplementary:
		return "supplementary"
	default:
		return "other"
	}
}

// Prefixes lists the relative path prefixes of each bucket.
type Prefixes struct {
	Primary       []string
	Supplementary []string
}

// DefaultPrefixes matches the layout of the upload folders.
var DefaultPrefixes = Prefixes{
	Primary:       []string{"book/"},
	Supplementary: []string{"polas/", "snaps/"},
}

// Item is a photo to order.
type Item struct {
	RelativePath string
	URL          string
}

// key is the basename key of the relative path, or of the URL when the path is
// unknown.
func (it Item) key() string {
	if k := identifiers.BasenameKey(it.RelativePath); k != "" {
		return k
	}
	return identifiers.BasenameKey(it.URL)
}

// Bucket classifies a relative path. Matching ignores case and treats "\" as
// "/".
func Bucket(relativePath string, prefixes Prefixes) Kind {
	p := strings.ToLower(strings.TrimLeft(strings.ReplaceAll(relativePath, "\\", "/"), "/"))
	if hasAnyPrefix(p, prefixes.Primary) {
		return KindPrimary
	}
	if hasAnyPrefix(p, prefixes.Supplementary) {
		return KindSupplementary
	}
	return KindOther
}

func hasAnyPrefix(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		prefix = strings.ToLower(strings.ReplaceAll(prefix, "\\", "/"))
		if prefix != "" && strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// Order returns the URLs of items in publishing order: primary photos, then
// supplementary, then everything else, each bucket in natural order of the
// relative path. Legacy hints are then threaded on top. Items without a URL
// are left out; every other item appears exactly once.
func Order(items []Item, hints []string, prefixes Prefixes) []string {
	buckets := make([][]Item, KindOther+1)
	for _, it := range items {
		if it.URL == "" {
			continue
		}
		k := Bucket(it.RelativePath, prefixes)
		buckets[k] = append(buckets[k], it)
	}

	base := make([]Item, 0, len(items))
	for _, bucket := range buckets {
		sortname.SliceBy(bucket, func(it Item) string {
			if it.RelativePath != "" {
				return it.RelativePath
			}
			return it.URL
		})
		base = append(base, bucket...)
	}

	ordered := Rethread(base, hints, Item.key)

	urls := make([]string, len(ordered))
	for i, it := range ordered {
		urls[i] = it.URL
	}
	return urls
}

// PreserveOrder reorders urls to follow the photos currently published in a
// record, matched by basename key. URLs without a match keep their relative
// order after the matched ones.
func PreserveOrder(urls, current []string) []string {
	hints := make([]string, 0, len(current))
	for _, u := range current {
		if k := identifiers.BasenameKey(u); k != "" {
			hints = append(hints, k)
		}
	}
	return Rethread(urls, hints, identifiers.BasenameKey)
}

// Rethread moves items to follow hints. Each hint takes the first item not yet
// placed whose key equals it; items no hint claims follow in their base order.
// The result is always a permutation of items.
func Rethread[T any](items []T, hints []string, key func(T) string) []T {
	if len(hints) == 0 {
		return append([]T(nil), items...)
	}

	positions := make(map[string][]int, len(items))
	for i, it := range items {
		k := key(it)
		positions[k] = append(positions[k], i)
	}

	placed := make([]bool, len(items))
	out := make([]T, 0, len(items))
	for _, hint := range hints {
		queue := positions[hint]
		if len(queue) == 0 {
			continue
		}
		i := queue[0]
		positions[hint] = queue[1:]
		placed[i] = true
		out = append(out, items[i])
	}

	for i, it := range items {
		if !placed[i] {
			out = append(out, it)
		}
	}
	return out
}

// Cover returns the first URL, or "" when there are none.
func Cover(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}
