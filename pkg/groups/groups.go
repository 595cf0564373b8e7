// Package groups decides which subjects each gallery group lists, and in
// which order.
package groups

import (
	"strings"

	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
	"github.com/Cyberdude00/aura-scouting-web/pkg/sortname"
)

// Policy decides which groups a subject missing from every legacy order joins.
type Policy string

const (
	// PolicyAll appends new subjects to every group.
	PolicyAll Policy = "all"
	// PolicyListed appends new subjects only to the groups named in
	// AssignInput.NewSubjectGroups.
	PolicyListed Policy = "listed"
)

// Group is a configured gallery group and its historical subject order.
type Group struct {
	Key  string
	Name string
	// LegacyOrder lists subject slugs as they appeared in the group's legacy
	// file. Slugs may be stale names that only match through aliases.
	LegacyOrder []string
}

type AssignInput struct {
	Groups []Group
	// Subjects are the slugs of every subject that has a record with a cover.
	Subjects         []string
	Aliases          *identifiers.Aliases
	Policy           Policy
	NewSubjectGroups []string
}

// Assignment is the ordered subject list of one group.
type Assignment struct {
	Key        string
	Name       string
	SubjectIDs []string
}

// Assign computes group membership. Each group keeps its legacy order,
// translated onto current slugs and filtered to present subjects. Subjects
// that no legacy order mentions are appended in natural order to the groups
// the policy selects, so they are never dropped from all of them.
func Assign(in AssignInput) ([]Assignment, []string) {
	present := make(map[string]struct{}, len(in.Subjects))
	for _, s := range in.Subjects {
		if s != "" {
			present[s] = struct{}{}
		}
	}

	covered := map[string]struct{}{}
	out := make([]Assignment, 0, len(in.Groups))
	for _, g := range in.Groups {
		a := Assignment{Key: g.Key, Name: groupName(g), SubjectIDs: []string{}}
		seen := map[string]struct{}{}
		for _, slug := range g.LegacyOrder {
			canonical, ok := in.Aliases.Canonical(slug, present)
			if !ok {
				continue
			}
			covered[canonical] = struct{}{}
			if _, dup := seen[canonical]; dup {
				continue
			}
			seen[canonical] = struct{}{}
			a.SubjectIDs = append(a.SubjectIDs, canonical)
		}
		out = append(out, a)
	}

	newSubjects := []string{}
	for s := range present {
		if _, ok := covered[s]; !ok {
			newSubjects = append(newSubjects, s)
		}
	}
	sortname.Strings(newSubjects)
	// Collation treats some distinct slugs as equal, so fall back to byte order
	// to keep the result independent of map iteration.
	stableTies(newSubjects)

	targets := map[string]struct{}{}
	for _, key := range in.NewSubjectGroups {
		targets[key] = struct{}{}
	}
	for i := range out {
		if in.Policy == PolicyListed {
			if _, ok := targets[out[i].Key]; !ok {
				continue
			}
		}
		out[i].SubjectIDs = append(out[i].SubjectIDs, newSubjects...)
	}

	return out, newSubjects
}

func stableTies(values []string) {
	for i := 1; i < len(values); i++ {
		for j := i; j > 0 && sortname.Compare(values[j-1], values[j]) == 0 && values[j-1] > values[j]; j-- {
			values[j-1], values[j] = values[j], values[j-1]
		}
	}
}

func groupName(g Group) string {
	if g.Name != "" {
		return g.Name
	}
	return strings.ToUpper(g.Key)
}

// Render writes the group assignment file.
func Render(assignments []Assignment) string {
	var b strings.Builder
	b.WriteString("export interface AgencyGalleryConfig {\n")
	b.WriteString("  galleryKey: string;\n")
	b.WriteString("  galleryName: string;\n")
	b.WriteString("  modelIds: string[];\n")
	b.WriteString("}\n\n")
	b.WriteString("export const agencyGalleriesConfig: AgencyGalleryConfig[] = [\n")
	for _, a := range assignments {
		b.WriteString("  {\n")
		b.WriteString("    galleryKey: " + quote(a.Key) + ",\n")
		b.WriteString("    galleryName: " + quote(a.Name) + ",\n")
		b.WriteString("    modelIds: [\n")
		for _, id := range a.SubjectIDs {
			b.WriteString("      " + quote(id) + ",\n")
		}
		b.WriteString("    ],\n")
		b.WriteString("  },\n")
	}
	b.WriteString("];\n")
	return b.String()
}

func quote(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}
