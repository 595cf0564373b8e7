package identifiers

import (
	"fmt"
	"sort"

	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
)

// Aliases maps the slug of a name as it appears in one data source to the slug
// of the same subject in another. It is a partial function: every key maps to
// exactly one value and no value is itself a key.
type Aliases struct {
	forward map[string]string
	reverse map[string][]string
}

// NewAliases builds an alias table. Keys and values are slugified first so the
// table can be written with display names.
func NewAliases(table map[string]string) (*Aliases, error) {
	a := &Aliases{
		forward: make(map[string]string, len(table)),
		reverse: make(map[string][]string, len(table)),
	}

	for from, to := range table {
		fromSlug := Slugify(from)
		toSlug := Slugify(to)
		if fromSlug == "" || toSlug == "" {
			return nil, errcodes.InvalidConfig(fmt.Sprintf("alias %q -> %q has an empty side", from, to))
		}
		if fromSlug == toSlug {
			return nil, errcodes.InvalidConfig(fmt.Sprintf("alias %q maps to itself", from))
		}
		if existing, ok := a.forward[fromSlug]; ok && existing != toSlug {
			return nil, errcodes.InvalidConfig(fmt.Sprintf("alias %q maps to both %q and %q", fromSlug, existing, toSlug))
		}
		a.forward[fromSlug] = toSlug
	}

	for from, to := range a.forward {
		if _, chained := a.forward[to]; chained {
			return nil, errcodes.InvalidConfig(fmt.Sprintf("alias %q -> %q chains into another alias", from, to))
		}
		a.reverse[to] = append(a.reverse[to], from)
	}
	for to := range a.reverse {
		sort.Strings(a.reverse[to])
	}

	return a, nil
}

// MustAliases is NewAliases for static tables.
func MustAliases(table map[string]string) *Aliases {
	a, err := NewAliases(table)
	if err != nil {
		panic(err)
	}
	return a
}

// Resolve returns the aliased slug, or slug itself when the table has no
// entry for it.
func (a *Aliases) Resolve(slug string) string {
	if a == nil {
		return slug
	}
	if to, ok := a.forward[slug]; ok {
		return to
	}
	return slug
}

func (a *Aliases) Len() int {
	if a == nil {
		return 0
	}
	return len(a.forward)
}

// Same reports whether two display names refer to the same subject. The
// alias table is consulted in both directions.
func (a *Aliases) Same(nameA, nameB string) bool {
	return a.SameSlug(Slugify(nameA), Slugify(nameB))
}

// SameSlug is Same for values that are already slugs.
func (a *Aliases) SameSlug(slugA, slugB string) bool {
	if slugA == "" || slugB == "" {
		return false
	}
	if slugA == slugB {
		return true
	}
	resolvedA := a.Resolve(slugA)
	resolvedB := a.Resolve(slugB)
	return resolvedA == slugB || resolvedB == slugA || resolvedA == resolvedB
}

// Canonical maps slug onto a member of candidates: the slug itself, its
// alias, or any slug aliasing to it. Returns false when none is present.
func (a *Aliases) Canonical(slug string, candidates map[string]struct{}) (string, bool) {
	for _, variant := range a.Variants(slug) {
		if _, ok := candidates[variant]; ok {
			return variant, true
		}
	}
	return "", false
}

// Variants returns slug followed by every slug the table relates it to, in a
// deterministic order.
func (a *Aliases) Variants(slug string) []string {
	out := []string{slug}
	if a == nil || slug == "" {
		return out
	}
	if to, ok := a.forward[slug]; ok {
		out = append(out, to)
		// Two names aliasing onto the same value are the same subject.
		for _, sibling := range a.reverse[to] {
			if sibling != slug {
				out = append(out, sibling)
			}
		}
	}
	return append(out, a.reverse[slug]...)
}
