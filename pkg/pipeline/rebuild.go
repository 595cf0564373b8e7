package pipeline

import (
	"context"

	"github.com/Cyberdude00/aura-scouting-web/pkg/catalog"
	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/Cyberdude00/aura-scouting-web/pkg/groups"
	"github.com/Cyberdude00/aura-scouting-web/pkg/legacy"
	"github.com/Cyberdude00/aura-scouting-web/pkg/manifests"
	"github.com/Cyberdude00/aura-scouting-web/pkg/media"
	"github.com/Cyberdude00/aura-scouting-web/pkg/sortname"
	"github.com/robinjoseph08/golib/logger"
)

type subjectMedia struct {
	loaded *manifests.Loaded
	urls   []string
}

// Rebuild regenerates the catalog and the group file from the uploaded
// manifests. Records already in the catalog keep every field except the cover
// and media list; subjects without a record get a new one. Records without a
// manifest are dropped. Records are written in natural order of their slug.
func (p *Pipeline) Rebuild(ctx context.Context, dryRun bool) (*Report, error) {
	log := logger.FromContext(ctx).Data(logger.Data{"mode": string(ModeRebuild)})
	report := newReport(ModeRebuild, dryRun)

	set, sources, err := p.loadInputs(ctx, report)
	if err != nil {
		return nil, err
	}
	if len(set.Manifests) == 0 {
		return nil, errcodes.NoManifests(p.cfg.ManifestsDir)
	}

	doc, err := p.readCatalog(true)
	if err != nil {
		return nil, err
	}

	// Later manifests for the same subject replace earlier ones.
	bySlug := map[string]subjectMedia{}
	slugs := []string{}
	for _, l := range set.Manifests {
		urls := p.orderedMedia(ctx, l.Manifest, sources)
		slug := l.Manifest.Slug()
		if _, ok := bySlug[slug]; !ok {
			slugs = append(slugs, slug)
		}
		bySlug[slug] = subjectMedia{loaded: l, urls: urls}
	}
	sortname.Strings(slugs)

	records := []*catalog.Record{}
	kept := map[int]struct{}{}
	recordSlugs := map[string]struct{}{}
	for _, slug := range slugs {
		s := bySlug[slug]
		m := s.loaded.Manifest
		cover := media.Cover(s.urls)

		var rec *catalog.Record
		if i := doc.Find(m.SubjectName, p.aliases); i >= 0 {
			if _, dup := kept[i]; dup {
				report.warn(log, "Several manifests match model: "+doc.Record(i).Name()+" ("+s.loaded.FileName+" ignored)")
				continue
			}
			kept[i] = struct{}{}

			var changed bool
			rec, changed = catalog.ApplyMediaUpdate(doc.Record(i), cover, s.urls)
			if changed {
				report.Updated = append(report.Updated, rec.Name())
			} else {
				report.Unchanged = append(report.Unchanged, rec.Name())
			}
		} else {
			rec = catalog.NewRecord(catalog.NewRecordInput{
				Name:  m.SubjectName,
				Group: m.Group,
				Cover: cover,
				Media: s.urls,
			})
			report.Added = append(report.Added, rec.Name())
		}

		if _, dup := recordSlugs[rec.Slug()]; dup {
			report.warn(log, "Duplicate model name skipped: "+rec.Name())
			continue
		}
		recordSlugs[rec.Slug()] = struct{}{}
		records = append(records, rec)
	}
	sortname.SliceBy(records, (*catalog.Record).Slug)

	for i, rec := range doc.Records() {
		if _, ok := kept[i]; !ok {
			report.Removed = append(report.Removed, rec.Name())
			log.Info("dropping model without manifest", logger.Data{"name": rec.Name()})
		}
	}

	subjects := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.Cover() != "" {
			subjects = append(subjects, rec.Slug())
		}
	}
	assignments, added := groups.Assign(groups.AssignInput{
		Groups:           p.groupOrders(sources),
		Subjects:         subjects,
		Aliases:          p.aliases,
		Policy:           groups.Policy(p.cfg.NewSubjectPolicy),
		NewSubjectGroups: p.cfg.NewSubjectGroups,
	})
	report.NewSubjects = added

	if err := p.write(ctx, report, p.cfg.CatalogFile, catalog.Render(records)); err != nil {
		return nil, err
	}
	if err := p.write(ctx, report, p.cfg.GroupsFile, groups.Render(assignments)); err != nil {
		return nil, err
	}

	log.Info("rebuild finished", report.Data())
	return report, nil
}

func (p *Pipeline) groupOrders(sources *legacy.Sources) []groups.Group {
	out := make([]groups.Group, 0, len(p.cfg.Groups))
	for _, g := range p.cfg.Groups {
		var order []string
		if g.LegacyFile != "" {
			order = sources.GroupOrder(g.LegacyFile)
		}
		out = append(out, groups.Group{Key: g.Key, Name: g.Name, LegacyOrder: order})
	}
	return out
}
