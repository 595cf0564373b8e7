package pipeline

import (
	"context"
	"fmt"

	"github.com/Cyberdude00/aura-scouting-web/pkg/catalog"
	"github.com/Cyberdude00/aura-scouting-web/pkg/config"
	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/Cyberdude00/aura-scouting-web/pkg/legacy"
	"github.com/Cyberdude00/aura-scouting-web/pkg/manifests"
	"github.com/Cyberdude00/aura-scouting-web/pkg/media"
	"github.com/robinjoseph08/golib/logger"
	"golang.org/x/sync/errgroup"
)

type SyncOptions struct {
	DryRun bool
	// OrderMode overrides the configured sync order mode when set.
	OrderMode string
}

// Sync applies every uploaded manifest to the matching catalog record,
// rewriting only covers and media lists. Manifests without a record are
// reported as warnings.
func (p *Pipeline) Sync(ctx context.Context, opts SyncOptions) (*Report, error) {
	log := logger.FromContext(ctx).Data(logger.Data{"mode": string(ModeSync)})
	report := newReport(ModeSync, opts.DryRun)

	report.OrderMode = opts.OrderMode
	if report.OrderMode == "" {
		report.OrderMode = p.cfg.SyncOrderMode
	}
	if report.OrderMode != config.OrderPreserveCurrent && report.OrderMode != config.OrderLegacy {
		return nil, errcodes.ValidationError(fmt.Sprintf("Unknown order mode %q", report.OrderMode))
	}

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

	changed := false
	for _, l := range set.Manifests {
		m := l.Manifest

		i := doc.Find(m.SubjectName, p.aliases)
		if i < 0 {
			report.NotFound = append(report.NotFound, m.SubjectName)
			report.warn(log, fmt.Sprintf("Model not found in dataset: %s (%s)", m.SubjectName, l.FileName))
			continue
		}

		urls := p.orderedMedia(ctx, m, sources)
		if report.OrderMode == config.OrderPreserveCurrent {
			urls = media.PreserveOrder(urls, doc.Record(i).Media())
		}
		updated, ok := catalog.ApplyMediaUpdate(doc.Record(i), media.Cover(urls), urls)
		if !ok {
			report.Unchanged = append(report.Unchanged, updated.Name())
			continue
		}
		doc.Replace(i, updated)
		report.Updated = append(report.Updated, updated.Name())
		changed = true
		log.Debug("updated model", logger.Data{"name": updated.Name(), "media": len(urls)})
	}

	if changed {
		if err := p.write(ctx, report, p.cfg.CatalogFile, doc.String()); err != nil {
			return nil, err
		}
	}

	log.Info("sync finished", report.Data())
	return report, nil
}

type ApplyOptions struct {
	DryRun bool
	// Strict treats an update that changes nothing as an error unless the
	// config allows no-ops.
	Strict bool
}

// ApplyOne applies a single manifest file named by the operator. A missing
// record is always an error.
func (p *Pipeline) ApplyOne(ctx context.Context, path string, opts ApplyOptions) (*Report, error) {
	log := logger.FromContext(ctx).Data(logger.Data{"mode": string(ModeApplyOne), "manifest": path})
	report := newReport(ModeApplyOne, opts.DryRun)

	var (
		m       *manifests.Manifest
		sources *legacy.Sources
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		m, err = manifests.ReadFile(gctx, path)
		return err
	})
	g.Go(func() error {
		sources = legacy.Load(gctx, p.legacyPaths())
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.Warnings = append(report.Warnings, sources.Warnings...)

	if !m.Uploaded {
		return nil, errcodes.ValidationError("Manifest is not an uploaded manifest: " + path)
	}
	if m.SubjectName == "" || len(m.ConfirmedItems()) == 0 {
		return nil, errcodes.ValidationError("Manifest missing subject name or remote URLs: " + path)
	}
	report.Manifests = 1

	doc, err := p.readCatalog(false)
	if err != nil {
		return nil, err
	}

	i := doc.Find(m.SubjectName, p.aliases)
	if i < 0 {
		return nil, errcodes.NotMatched(m.SubjectName)
	}

	urls := p.orderedMedia(ctx, m, sources)
	updated, changed := catalog.ApplyMediaUpdate(doc.Record(i), media.Cover(urls), urls)
	if !changed {
		if opts.Strict && !p.cfg.AllowNoop {
			return nil, errcodes.NoChange(m.SubjectName)
		}
		report.Unchanged = append(report.Unchanged, updated.Name())
		log.Info("apply finished without changes", report.Data())
		return report, nil
	}

	doc.Replace(i, updated)
	report.Updated = append(report.Updated, updated.Name())
	if err := p.write(ctx, report, p.cfg.CatalogFile, doc.String()); err != nil {
		return nil, err
	}

	log.Info("apply finished", report.Data())
	return report, nil
}
