// Package uploader pushes subject photo folders to remote storage and writes
// the per-subject manifests the catalog pipeline consumes.
package uploader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/Cyberdude00/aura-scouting-web/pkg/manifests"
	"github.com/Cyberdude00/aura-scouting-web/pkg/storage"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

type Options struct {
	SourceRoot   string
	ManifestsDir string
	BaseFolder   string
	Groups       []string
	Exclude      []string
	// Subject filters subject folders by slug. Empty means every subject.
	Subject string
	// Limit caps the number of subjects processed. Zero means no limit.
	Limit int
	// Upload sends files to storage and writes .uploaded.json manifests.
	// Otherwise only .preview.json manifests are written.
	Upload bool
	// DryRun builds preview manifests without uploading or writing anything.
	// It wins over Upload.
	DryRun bool
}

// SubjectResult is the outcome for one subject.
type SubjectResult struct {
	Subject      Subject
	ManifestPath string
	Items        int
	Uploaded     int
	Skipped      int
	Bytes        int64
}

type Summary struct {
	Subjects []SubjectResult
	Uploaded int
	Skipped  int
	Bytes    int64
}

type Uploader struct {
	store storage.Storage
	now   func() time.Time
}

// New builds an uploader. store may be nil when only previews are written.
func New(store storage.Storage) *Uploader {
	return &Uploader{store: store, now: time.Now}
}

// Run processes subjects one at a time and writes each subject's manifest as
// soon as it is done, so an interrupted run keeps its progress.
func (u *Uploader) Run(ctx context.Context, opts Options) (*Summary, error) {
	log := logger.FromContext(ctx)

	if opts.DryRun {
		opts.Upload = false
	}
	if opts.Upload && u.store == nil {
		return nil, errors.New("uploader has no storage configured")
	}

	subjects, err := FindSubjects(ctx, opts.SourceRoot, opts.Groups, opts.Exclude, opts.Subject)
	if err != nil {
		return nil, err
	}
	if len(subjects) == 0 {
		return nil, errcodes.ValidationError("No model directories found with current filters.")
	}
	if opts.Limit > 0 && len(subjects) > opts.Limit {
		subjects = subjects[:opts.Limit]
	}

	index := manifests.RemoteIndex(ctx, opts.ManifestsDir)

	log.Info("processing subjects", logger.Data{"count": len(subjects), "upload": opts.Upload, "dry_run": opts.DryRun})

	summary := &Summary{}
	for i, subject := range subjects {
		log := log.Data(logger.Data{"group": subject.Group, "subject": subject.Folder})
		log.Info(fmt.Sprintf("[%d/%d] processing subject", i+1, len(subjects)))

		res, err := u.processSubject(log.WithContext(ctx), subject, opts, index)
		if err != nil {
			return summary, err
		}

		summary.Subjects = append(summary.Subjects, *res)
		summary.Uploaded += res.Uploaded
		summary.Skipped += res.Skipped
		summary.Bytes += res.Bytes

		msg := "saved manifest"
		if opts.DryRun {
			msg = "dry run, manifest not written"
		}
		log.Info(msg, logger.Data{
			"path":     res.ManifestPath,
			"uploaded": res.Uploaded,
			"skipped":  res.Skipped,
			"size":     humanize.Bytes(uint64(res.Bytes)),
		})
	}

	log.Info("finished upload run", logger.Data{
		"subjects": len(summary.Subjects),
		"uploaded": summary.Uploaded,
		"skipped":  summary.Skipped,
		"size":     humanize.Bytes(uint64(summary.Bytes)),
	})
	return summary, nil
}

func (u *Uploader) processSubject(ctx context.Context, subject Subject, opts Options, index map[string]string) (*SubjectResult, error) {
	log := logger.FromContext(ctx)

	images, err := WalkImages(ctx, subject.Dir)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, errcodes.ValidationError(fmt.Sprintf("No images found in %s/%s", subject.Group, subject.Folder))
	}

	m := &manifests.Manifest{
		SubjectQuery: subject.Folder,
		Group:        subject.Group,
		SubjectName:  subject.Folder,
		SourceFolder: subject.Dir,
		TotalItems:   len(images),
		Uploaded:     opts.Upload,
		GeneratedAt:  u.now().UTC().Format(time.RFC3339),
		Items:        make([]manifests.Item, 0, len(images)),
	}
	res := &SubjectResult{Subject: subject, Items: len(images)}

	for i, img := range images {
		id := RemoteID(opts.BaseFolder, subject.Group, subject.Folder, img.RelativePath)
		item := manifests.Item{
			LocalPath:    img.Path,
			RelativePath: img.RelativePath,
			RemoteID:     id,
			RemoteFolder: RemoteFolder(id),
		}

		if !opts.Upload {
			m.Items = append(m.Items, item)
			continue
		}

		if url, ok := index[id]; ok {
			item.RemoteURL, item.Skipped, item.Reason = url, true, manifests.ReasonExistingManifest
			m.Items = append(m.Items, item)
			res.Skipped++
			continue
		}

		url, err := u.store.Lookup(ctx, id)
		switch {
		case err == nil:
			item.RemoteURL, item.Skipped, item.Reason = url, true, manifests.ReasonAlreadyRemote
			m.Items = append(m.Items, item)
			index[id] = url
			res.Skipped++
			continue
		case !errors.Is(err, storage.ErrNotFound):
			return nil, err
		}

		data, err := os.ReadFile(img.Path)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		url, err = u.store.Upload(ctx, data, storage.UploadOptions{
			RemoteID: id,
			Folder:   item.RemoteFolder,
			FileName: img.RelativePath,
		})
		if err != nil {
			return nil, err
		}

		item.RemoteURL = url
		m.Items = append(m.Items, item)
		index[id] = url
		res.Uploaded++
		res.Bytes += img.Size
		log.Info(fmt.Sprintf("[%d/%d] uploaded", i+1, len(images)), logger.Data{
			"file": img.RelativePath,
			"size": humanize.Bytes(uint64(img.Size)),
		})
	}

	if opts.DryRun {
		res.ManifestPath = filepath.Join(opts.ManifestsDir, manifests.FileName(m.Group, m.SubjectName, m.Uploaded))
		return res, nil
	}

	path, err := manifests.Write(opts.ManifestsDir, m)
	if err != nil {
		return nil, err
	}
	res.ManifestPath = path
	return res, nil
}
