package pipeline

import (
	"context"

	"github.com/Cyberdude00/aura-scouting-web/pkg/catalog"
	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/Cyberdude00/aura-scouting-web/pkg/media"
	"github.com/robinjoseph08/golib/logger"
)

// ImportMissing copies whole legacy records, unchanged, for manifest subjects
// the catalog doesn't have. Subjects without a legacy record are reported.
func (p *Pipeline) ImportMissing(ctx context.Context, dryRun bool) (*Report, error) {
	log := logger.FromContext(ctx).Data(logger.Data{"mode": string(ModeImportMissing)})
	report := newReport(ModeImportMissing, dryRun)

	set, sources, err := p.loadInputs(ctx, report)
	if err != nil {
		return nil, err
	}
	doc, err := p.readCatalog(false)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	for _, l := range set.Manifests {
		name := l.Manifest.SubjectName
		if _, ok := seen[l.Manifest.Slug()]; ok {
			continue
		}
		seen[l.Manifest.Slug()] = struct{}{}
		if doc.Find(name, p.aliases) >= 0 {
			continue
		}

		rec, ok := sources.Block(ctx, name, p.lookup)
		if !ok {
			report.NotFound = append(report.NotFound, name)
			report.warn(log, "Not found in legacy: "+name)
			continue
		}
		// A fuzzy match may land on a record that is already present.
		if doc.Find(rec.Name(), nil) >= 0 {
			log.Info("legacy record already in catalog", logger.Data{"subject": name, "legacy": rec.Name()})
			continue
		}

		doc.Insert(rec)
		report.Added = append(report.Added, rec.Name())
	}

	if len(report.Added) > 0 {
		if err := p.write(ctx, report, p.cfg.CatalogFile, doc.String()); err != nil {
			return nil, err
		}
	}

	log.Info("import finished", report.Data())
	return report, nil
}

// AddMissing appends a new record, built from the manifest, for each uploaded
// subject the catalog doesn't have. Operator-owned fields are left blank.
func (p *Pipeline) AddMissing(ctx context.Context, dryRun bool) (*Report, error) {
	log := logger.FromContext(ctx).Data(logger.Data{"mode": string(ModeAddMissing)})
	report := newReport(ModeAddMissing, dryRun)

	set, sources, err := p.loadInputs(ctx, report)
	if err != nil {
		return nil, err
	}
	if len(set.Manifests) == 0 {
		return nil, errcodes.NoManifests(p.cfg.ManifestsDir)
	}
	doc, err := p.readCatalog(false)
	if err != nil {
		return nil, err
	}

	for _, l := range set.Manifests {
		m := l.Manifest
		if doc.Find(m.SubjectName, p.aliases) >= 0 {
			continue
		}
		urls := p.orderedMedia(ctx, m, sources)

		doc.Insert(catalog.NewRecord(catalog.NewRecordInput{
			Name:  m.SubjectName,
			Group: m.Group,
			Cover: media.Cover(urls),
			Media: urls,
		}))
		report.Added = append(report.Added, m.SubjectName)
	}

	if len(report.Added) > 0 {
		if err := p.write(ctx, report, p.cfg.CatalogFile, doc.String()); err != nil {
			return nil, err
		}
	}

	log.Info("add missing finished", report.Data())
	return report, nil
}
