package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Cyberdude00/aura-scouting-web/pkg/config"
	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/Cyberdude00/aura-scouting-web/pkg/fileutils"
	"github.com/Cyberdude00/aura-scouting-web/pkg/pipeline"
	"github.com/Cyberdude00/aura-scouting-web/pkg/version"
	"github.com/google/uuid"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New().Data(logger.Data{"run_id": uuid.New().String()})
	ctx := log.WithContext(context.Background())

	var pipe *pipeline.Pipeline

	app := &cli.App{
		Name:        "catalog",
		Usage:       "reconcile the gallery catalog with upload manifests",
		Description: "Rebuilds and updates the gallery catalog and group files from upload manifests and legacy catalogs.",
		Version:     version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "path to the YAML config file"},
			&cli.StringFlag{Name: "manifests-dir", Usage: "directory holding upload manifests"},
			&cli.StringFlag{Name: "catalog-file", Usage: "catalog file to read and write"},
			&cli.StringFlag{Name: "legacy-files", Usage: "comma-separated legacy catalog files, highest precedence first"},
			&cli.BoolFlag{Name: "dry-run", Usage: "report what would change without writing files"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			pipe, err = pipeline.New(cfg, nil)
			return err
		},
		Commands: []*cli.Command{
			{
				Name:  "rebuild",
				Usage: "regenerate the catalog and group files from uploaded manifests",
				Action: func(c *cli.Context) error {
					return printReport(pipe.Rebuild(c.Context, c.Bool("dry-run")))
				},
			},
			{
				Name:  "sync",
				Usage: "apply every uploaded manifest to its catalog record",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "order-mode", Usage: "media order: preserve-current or legacy"},
				},
				Action: func(c *cli.Context) error {
					return printReport(pipe.Sync(c.Context, pipeline.SyncOptions{
						DryRun:    c.Bool("dry-run"),
						OrderMode: c.String("order-mode"),
					}))
				},
			},
			{
				Name:  "apply",
				Usage: "apply a single manifest to its catalog record",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "manifest", Usage: "path to the manifest", Required: true},
					&cli.BoolFlag{Name: "strict", Usage: "fail when the manifest changes nothing", Value: true},
				},
				Action: func(c *cli.Context) error {
					return printReport(pipe.ApplyOne(c.Context, c.String("manifest"), pipeline.ApplyOptions{
						DryRun: c.Bool("dry-run"),
						Strict: c.Bool("strict"),
					}))
				},
			},
			{
				Name:  "import-legacy",
				Usage: "copy legacy records for uploaded subjects missing from the catalog",
				Action: func(c *cli.Context) error {
					return printReport(pipe.ImportMissing(c.Context, c.Bool("dry-run")))
				},
			},
			{
				Name:  "add-missing",
				Usage: "add new records for uploaded subjects missing from the catalog",
				Action: func(c *cli.Context) error {
					return printReport(pipe.AddMissing(c.Context, c.Bool("dry-run")))
				},
			},
			{
				Name:  "remove",
				Usage: "remove records by name",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "names", Usage: "comma-separated subject names", Required: true},
				},
				Action: func(c *cli.Context) error {
					return printReport(pipe.Remove(c.Context, fileutils.SplitList(c.String("names")), c.Bool("dry-run")))
				},
			},
			{
				Name:  "upload",
				Usage: "scan source folders, upload missing photos and write manifests",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Usage: "only process subject folders matching this name"},
					&cli.IntFlag{Name: "limit", Usage: "process at most this many subjects"},
					&cli.StringFlag{Name: "groups", Usage: "comma-separated group folders to scan"},
					&cli.StringFlag{Name: "exclude", Usage: "comma-separated subject folders to skip, added to the configured ones"},
					&cli.BoolFlag{Name: "upload", Usage: "upload files; without it only preview manifests are written"},
				},
				Action: func(c *cli.Context) error {
					return printReport(pipe.Upload(c.Context, pipeline.UploadOptions{
						Subject: c.String("subject"),
						Limit:   c.Int("limit"),
						Groups:  fileutils.SplitList(c.String("groups")),
						Exclude: fileutils.SplitList(c.String("exclude")),
						Upload:  c.Bool("upload"),
						DryRun:  c.Bool("dry-run"),
					}))
				},
			},
		},
	}

	log.Info("starting catalog", logger.Data{"version": version.Version})
	if err := app.RunContext(ctx, os.Args); err != nil {
		os.Exit(errcodes.Handle(ctx, err))
	}
}

// loadConfig reads the config and applies the global flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if v := c.String("manifests-dir"); v != "" {
		cfg.ManifestsDir = v
	}
	if v := c.String("catalog-file"); v != "" {
		cfg.CatalogFile = v
	}
	if v := c.String("legacy-files"); v != "" {
		cfg.LegacyFiles = fileutils.SplitList(v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printReport(report *pipeline.Report, err error) error {
	if err != nil {
		return err
	}
	for _, line := range report.Lines() {
		fmt.Println(line)
	}
	return nil
}
