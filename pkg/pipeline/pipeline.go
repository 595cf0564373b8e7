// Package pipeline runs the catalog reconciliation modes: it reads upload
// manifests, legacy catalog generations and the current catalog, and writes
// the catalog and group files back.
package pipeline

import (
	"context"
	"path/filepath"

	"github.com/Cyberdude00/aura-scouting-web/pkg/catalog"
	"github.com/Cyberdude00/aura-scouting-web/pkg/config"
	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/Cyberdude00/aura-scouting-web/pkg/fileutils"
	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
	"github.com/Cyberdude00/aura-scouting-web/pkg/legacy"
	"github.com/Cyberdude00/aura-scouting-web/pkg/manifests"
	"github.com/Cyberdude00/aura-scouting-web/pkg/media"
	"github.com/Cyberdude00/aura-scouting-web/pkg/storage"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"golang.org/x/sync/errgroup"
)

// Written files are meant to be committed, so they're world-readable.
const outputPerm = 0644

type Pipeline struct {
	cfg      *config.Config
	aliases  *identifiers.Aliases
	lookup   legacy.Lookup
	prefixes media.Prefixes
	store    storage.Storage
}

// New builds a pipeline from a validated config. store is only used by Upload
// and may be nil, in which case Upload connects to Cloudinary with the
// configured credentials.
func New(cfg *config.Config, store storage.Storage) (*Pipeline, error) {
	aliases, err := cfg.AliasTable()
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		cfg:     cfg,
		aliases: aliases,
		lookup:  legacy.Lookup{Aliases: aliases, Fuzzy: cfg.Fuzzy()},
		prefixes: media.Prefixes{
			Primary:       cfg.PrimaryPrefixes,
			Supplementary: cfg.SupplementaryPrefixes,
		},
		store: store,
	}, nil
}

// legacyPaths lists the legacy files in precedence order: the configured list
// first, then group files it doesn't already name.
func (p *Pipeline) legacyPaths() []string {
	paths := append([]string{}, p.cfg.LegacyFiles...)
	seen := map[string]struct{}{}
	for _, path := range paths {
		seen[filepath.Clean(path)] = struct{}{}
	}
	for _, g := range p.cfg.Groups {
		if g.LegacyFile == "" {
			continue
		}
		if _, ok := seen[filepath.Clean(g.LegacyFile)]; ok {
			continue
		}
		seen[filepath.Clean(g.LegacyFile)] = struct{}{}
		paths = append(paths, g.LegacyFile)
	}
	return paths
}

// loadInputs reads the manifests directory and the legacy files concurrently.
// The two reads share no state.
func (p *Pipeline) loadInputs(ctx context.Context, report *Report) (*manifests.Set, *legacy.Sources, error) {
	var (
		set     *manifests.Set
		sources *legacy.Sources
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		set, err = manifests.Load(gctx, p.cfg.ManifestsDir)
		return err
	})
	g.Go(func() error {
		sources = legacy.Load(gctx, p.legacyPaths())
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	report.Manifests = len(set.Manifests)
	report.Warnings = append(report.Warnings, set.Warnings...)
	report.Warnings = append(report.Warnings, sources.Warnings...)
	return set, sources, nil
}

// readCatalog parses the catalog file. When optional is set, a missing file
// yields an empty catalog instead of an error.
func (p *Pipeline) readCatalog(optional bool) (*catalog.Document, error) {
	data, err := fileutils.ReadRequired(p.cfg.CatalogFile)
	if err != nil {
		var e *errcodes.Error
		if optional && errors.As(err, &e) && e.Code == "missing_file" {
			return catalog.Parse(catalog.Render(nil))
		}
		return nil, err
	}
	return catalog.ParseFile(p.cfg.CatalogFile, string(data))
}

func (p *Pipeline) write(ctx context.Context, report *Report, path, content string) error {
	if report.DryRun {
		logger.FromContext(ctx).Info("dry run, not writing", logger.Data{"path": path})
		return nil
	}
	if err := fileutils.WriteFileAtomic(path, []byte(content), outputPerm); err != nil {
		return errors.Wrapf(err, "can't write %s", path)
	}
	report.Files = append(report.Files, path)
	return nil
}

// orderedMedia returns the manifest's confirmed URLs in publishing order with
// the subject's legacy order threaded on top.
func (p *Pipeline) orderedMedia(ctx context.Context, m *manifests.Manifest, sources *legacy.Sources) []string {
	confirmed := m.ConfirmedItems()
	items := make([]media.Item, 0, len(confirmed))
	for _, it := range confirmed {
		items = append(items, media.Item{RelativePath: it.RelativePath, URL: it.RemoteURL})
	}

	var hints []string
	if sources != nil {
		hints, _ = sources.MediaOrder(ctx, m.SubjectName, p.lookup)
	}
	return media.Order(items, hints, p.prefixes)
}
