package pipeline

import (
	"context"

	"github.com/Cyberdude00/aura-scouting-web/pkg/storage"
	"github.com/Cyberdude00/aura-scouting-web/pkg/uploader"
	"github.com/robinjoseph08/golib/logger"
)

type UploadOptions struct {
	// Subject filters subject folders by slug.
	Subject string
	Limit   int
	// Groups overrides the configured upload groups when set.
	Groups []string
	// Exclude adds subject folders to the configured exclusion set.
	Exclude []string
	// Upload sends files to storage. Without it only previews are written.
	Upload bool
	// DryRun lists what would be processed without uploading or writing
	// manifests.
	DryRun bool
}

// Upload scans the source folders and writes a manifest per subject,
// uploading missing photos when asked to.
func (p *Pipeline) Upload(ctx context.Context, opts UploadOptions) (*Report, error) {
	log := logger.FromContext(ctx).Data(logger.Data{"mode": string(ModeUpload)})
	report := newReport(ModeUpload, opts.DryRun)

	store := p.store
	if opts.Upload && !opts.DryRun && store == nil {
		c, err := storage.NewCloudinary(storage.CloudinaryConfig{
			BaseURL:           p.cfg.CloudinaryBaseURL,
			CloudName:         p.cfg.CloudinaryCloudName,
			APIKey:            p.cfg.CloudinaryAPIKey,
			APISecret:         p.cfg.CloudinaryAPISecret,
			RequestsPerSecond: p.cfg.UploadRequestsPerSecond,
			Timeout:           p.cfg.UploadTimeout,
		})
		if err != nil {
			return nil, err
		}
		store = c
	}

	groupKeys := opts.Groups
	if len(groupKeys) == 0 {
		groupKeys = p.cfg.UploadGroups
	}

	summary, err := uploader.New(store).Run(ctx, uploader.Options{
		SourceRoot:   p.cfg.UploadSourceRoot,
		ManifestsDir: p.cfg.ManifestsDir,
		BaseFolder:   p.cfg.UploadBaseFolder,
		Groups:       groupKeys,
		Exclude:      append(append([]string{}, p.cfg.Exclude...), opts.Exclude...),
		Subject:      opts.Subject,
		Limit:        opts.Limit,
		Upload:       opts.Upload,
		DryRun:       opts.DryRun,
	})
	if err != nil {
		return nil, err
	}

	report.Upload = summary
	if !opts.DryRun {
		for _, s := range summary.Subjects {
			report.Files = append(report.Files, s.ManifestPath)
		}
	}

	log.Info("upload finished", report.Data())
	return report, nil
}
