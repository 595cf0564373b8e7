package legacy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Cyberdude00/aura-scouting-web/pkg/catalog"
	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
	"github.com/robinjoseph08/golib/logger"
)

// Source is one legacy file.
type Source struct {
	Path string
	// Order is the subject order of the file, as slugs.
	Order []string
	// Media maps subject slugs to the basename keys of their media lists.
	Media map[string][]string
	// Doc is nil when the file couldn't be parsed into records.
	Doc *catalog.Document
}

// Sources merges legacy files in precedence order: when several files know a
// subject, the first one wins.
type Sources struct {
	sources []*Source

	mediaSlugs []string
	media      map[string][]string
	blockSlugs []string
	blocks     map[string]*catalog.Record

	// Warnings describe files that were skipped or only partly used.
	Warnings []string
}

// Load reads the legacy files at paths. Unreadable files are skipped with a
// warning.
func Load(ctx context.Context, paths []string) *Sources {
	log := logger.FromContext(ctx)

	s := &Sources{
		media:  map[string][]string{},
		blocks: map[string]*catalog.Record{},
	}

	seen := map[string]struct{}{}
	for _, path := range paths {
		clean := filepath.Clean(path)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}

		data, err := os.ReadFile(clean)
		if err != nil {
			log.Warn("skipping legacy file", logger.Data{"path": path, "error": err.Error()})
			s.Warnings = append(s.Warnings, "Skipped unreadable legacy file: "+path)
			continue
		}
		s.add(ctx, clean, string(data))
	}

	return s
}

// FromText builds Sources from in-memory legacy files, in precedence order.
func FromText(ctx context.Context, files map[string]string, order []string) *Sources {
	s := &Sources{
		media:  map[string][]string{},
		blocks: map[string]*catalog.Record{},
	}
	for _, path := range order {
		s.add(ctx, filepath.Clean(path), files[path])
	}
	return s
}

func (s *Sources) add(ctx context.Context, path, text string) {
	src := &Source{
		Path:  path,
		Order: ExtractGroupOrder(text),
		Media: ExtractMediaOrder(text),
	}

	doc, err := catalog.Parse(text)
	if err != nil {
		logger.FromContext(ctx).Warn("legacy file has no usable records", logger.Data{"path": path, "error": err.Error()})
		s.Warnings = append(s.Warnings, "Legacy file records unusable: "+path)
	} else {
		src.Doc = doc
	}
	s.sources = append(s.sources, src)

	// Media orders are merged in the order the file lists them so that fuzzy
	// lookups are deterministic.
	for _, slug := range src.Order {
		keys, ok := src.Media[slug]
		if !ok {
			continue
		}
		if _, exists := s.media[slug]; !exists {
			s.media[slug] = keys
			s.mediaSlugs = append(s.mediaSlugs, slug)
		}
	}

	if src.Doc == nil {
		return
	}
	for _, rec := range src.Doc.Records() {
		slug := rec.Slug()
		if slug == "" {
			continue
		}
		if _, exists := s.blocks[slug]; !exists {
			s.blocks[slug] = rec
			s.blockSlugs = append(s.blockSlugs, slug)
		}
	}
}

// Len returns the number of files loaded.
func (s *Sources) Len() int {
	return len(s.sources)
}

// GroupOrder returns the subject order recovered from the file at path, or nil
// when that file wasn't loaded.
func (s *Sources) GroupOrder(path string) []string {
	clean := filepath.Clean(path)
	for _, src := range s.sources {
		if src.Path == clean {
			return src.Order
		}
	}
	return nil
}

// AllOrders returns every loaded file's subject order, in precedence order.
func (s *Sources) AllOrders() [][]string {
	out := make([][]string, 0, len(s.sources))
	for _, src := range s.sources {
		out = append(out, src.Order)
	}
	return out
}

// Lookup configures how a subject name is matched against legacy subjects.
type Lookup struct {
	Aliases *identifiers.Aliases
	Fuzzy   identifiers.FuzzyPolicy
}

// MediaOrder returns the legacy media order for the named subject, matched by
// slug, then alias, then fuzzy policy.
func (s *Sources) MediaOrder(ctx context.Context, name string, lookup Lookup) ([]string, bool) {
	slug, ok := s.match(ctx, name, lookup, s.mediaSlugs)
	if !ok {
		return nil, false
	}
	return s.media[slug], true
}

// Block returns the legacy record for the named subject, matched the same way
// as MediaOrder.
func (s *Sources) Block(ctx context.Context, name string, lookup Lookup) (*catalog.Record, bool) {
	slug, ok := s.match(ctx, name, lookup, s.blockSlugs)
	if !ok {
		return nil, false
	}
	return s.blocks[slug].Clone(), true
}

// match finds name among candidates, which are listed in precedence order.
func (s *Sources) match(ctx context.Context, name string, lookup Lookup, candidates []string) (string, bool) {
	slug := identifiers.Slugify(name)
	if slug == "" {
		return "", false
	}

	// A subject may be listed under its current name in one file and under an
	// alias in another. The file with the higher precedence wins either way.
	variants := map[string]struct{}{}
	for _, variant := range lookup.Aliases.Variants(slug) {
		variants[variant] = struct{}{}
	}
	for _, candidate := range candidates {
		if _, ok := variants[candidate]; ok {
			return candidate, true
		}
	}

	for _, candidate := range candidates {
		if lookup.Fuzzy.Fuzzy(slug, candidate) {
			logger.FromContext(ctx).Info("fuzzy legacy match", logger.Data{
				"subject": slug,
				"legacy":  candidate,
				"policy":  string(lookup.Fuzzy),
			})
			return candidate, true
		}
	}
	return "", false
}
