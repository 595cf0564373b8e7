package identifiers

import (
	"strings"

	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
)

// FuzzyPolicy controls the last-resort join used when neither slugs nor
// aliases match.
type FuzzyPolicy string

const (
	FuzzyOff FuzzyPolicy = "off"
	// FuzzyToken accepts a match when every token of the shorter slug is a
	// whole token of the longer one: "pilar" matches "pilar-sampaio" but "ana"
	// doesn't match "ariana".
	FuzzyToken FuzzyPolicy = "token"
	// FuzzySubstring accepts any substring containment between slugs.
	FuzzySubstring FuzzyPolicy = "substring"
)

// ParseFuzzyPolicy validates a configured policy name. The empty string
// selects FuzzyToken.
func ParseFuzzyPolicy(value string) (FuzzyPolicy, error) {
	switch p := FuzzyPolicy(strings.ToLower(strings.TrimSpace(value))); p {
	case "":
		return FuzzyToken, nil
	case FuzzyOff, FuzzyToken, FuzzySubstring:
		return p, nil
	default:
		return "", errcodes.InvalidConfig("unknown fuzzy match policy " + value)
	}
}

// Fuzzy reports whether two slugs are a fuzzy match under the policy.
func (p FuzzyPolicy) Fuzzy(slugA, slugB string) bool {
	if slugA == "" || slugB == "" {
		return false
	}

	switch p {
	case FuzzySubstring:
		return strings.Contains(slugA, slugB) || strings.Contains(slugB, slugA)
	case FuzzyToken:
		short, long := strings.Split(slugA, "-"), strings.Split(slugB, "-")
		if len(short) > len(long) {
			short, long = long, short
		}
		tokens := make(map[string]struct{}, len(long))
		for _, tok := range long {
			tokens[tok] = struct{}{}
		}
		for _, tok := range short {
			if _, ok := tokens[tok]; !ok {
				return false
			}
		}
		return true
	default:
		return false
	}
}
