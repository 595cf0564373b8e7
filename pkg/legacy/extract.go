package legacy

import (
	"regexp"
	"strings"

	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
)

var (
	nameRE      = regexp.MustCompile(`name\s*:\s*(?:"([^"]+)"|'([^']+)')`)
	nameLineRE  = regexp.MustCompile(`^name\s*:\s*(?:"([^"]*)"|'([^']*)')`)
	mediaLineRE = regexp.MustCompile(`^portfolio\s*:\s*\[(.*)$`)
	quotedRE    = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)
)

func submatch(m []string) string {
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// ExtractGroupOrder returns the slug of every name field in text, in order of
// first appearance, without duplicates.
func ExtractGroupOrder(text string) []string {
	order := []string{}
	seen := map[string]struct{}{}
	for _, m := range nameRE.FindAllStringSubmatch(text, -1) {
		slug := identifiers.Slugify(submatch(m))
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		order = append(order, slug)
	}
	return order
}

// ExtractMediaOrder maps the slug of each record in text to the basename keys
// of its media list. Comment lines inside the list are ignored, records with
// an empty list are left out and the first record for a slug wins.
func ExtractMediaOrder(text string) map[string][]string {
	out := map[string][]string{}

	slug := ""
	inList := false
	var keys []string

	finish := func() {
		if slug != "" && len(keys) > 0 {
			if _, ok := out[slug]; !ok {
				out[slug] = keys
			}
		}
		inList = false
		keys = nil
	}
	addAll := func(s string) {
		for _, m := range quotedRE.FindAllStringSubmatch(s, -1) {
			if key := identifiers.BasenameKey(submatch(m)); key != "" {
				keys = append(keys, key)
			}
		}
	}

	for _, line := range strings.Split(text, "\n") {
		t := strings.TrimSpace(line)

		if inList {
			switch {
			case strings.HasPrefix(t, "]"):
				finish()
			case t == "" || strings.HasPrefix(t, "//"):
			case t[0] == '"' || t[0] == '\'':
				if m := quotedRE.FindStringSubmatch(t); m != nil {
					if key := identifiers.BasenameKey(submatch(m)); key != "" {
						keys = append(keys, key)
					}
				}
			}
			continue
		}

		if m := nameLineRE.FindStringSubmatch(t); m != nil {
			slug = identifiers.Slugify(submatch(m))
			continue
		}
		if m := mediaLineRE.FindStringSubmatch(t); m != nil {
			keys = nil
			rest := m[1]
			if end := strings.Index(rest, "]"); end >= 0 {
				addAll(rest[:end])
				finish()
				continue
			}
			inList = true
			continue
		}
		if strings.HasPrefix(t, "}") {
			slug = ""
		}
	}

	return out
}
