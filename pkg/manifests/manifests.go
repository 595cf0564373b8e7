package manifests

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Cyberdude00/aura-scouting-web/pkg/binder"
	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/Cyberdude00/aura-scouting-web/pkg/fileutils"
	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
	"github.com/Cyberdude00/aura-scouting-web/pkg/sortname"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

const (
	UploadedSuffix = ".uploaded.json"
	PreviewSuffix  = ".preview.json"
)

var (
	docBinder     *binder.Binder
	docBinderErr  error
	docBinderOnce sync.Once
)

func documentBinder() (*binder.Binder, error) {
	docBinderOnce.Do(func() {
		docBinder, docBinderErr = binder.New()
	})
	return docBinder, docBinderErr
}

// Loaded is a manifest together with the file it was read from.
type Loaded struct {
	Path     string
	FileName string
	Manifest *Manifest
}

// Set is the result of loading a manifests directory.
type Set struct {
	Manifests []*Loaded
	// Warnings describe files that were skipped.
	Warnings []string
}

// FileName returns the manifest file name for a subject:
// {group-slug}-{subject-slug}.uploaded.json or .preview.json.
func FileName(group, subject string, uploaded bool) string {
	suffix := PreviewSuffix
	if uploaded {
		suffix = UploadedSuffix
	}
	return identifiers.Slugify(group) + "-" + identifiers.Slugify(subject) + suffix
}

// Slug is the canonical identifier of the manifest's subject.
func (m *Manifest) Slug() string {
	return identifiers.Slugify(m.SubjectName)
}

// ConfirmedItems returns the items that carry a remote URL, in manifest order.
func (m *Manifest) ConfirmedItems() []Item {
	items := make([]Item, 0, len(m.Items))
	for _, it := range m.Items {
		if it.RemoteURL != "" {
			items = append(items, it)
		}
	}
	return items
}

// Contributes reports whether the manifest can change the catalog: it must be
// a confirmed upload with at least one remote URL.
func (m *Manifest) Contributes() bool {
	if !m.Uploaded {
		return false
	}
	for _, it := range m.Items {
		if it.RemoteURL != "" {
			return true
		}
	}
	return false
}

// Parse decodes a single manifest document.
func Parse(ctx context.Context, data []byte) (*Manifest, error) {
	b, err := documentBinder()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	doc := &document{}
	if err := b.Bind(ctx, data, doc, binder.Options{}); err != nil {
		return nil, err
	}
	return doc.manifest(), nil
}

// ReadFile reads one manifest named explicitly by the operator. Unlike Load,
// a malformed file is an error.
func ReadFile(ctx context.Context, path string) (*Manifest, error) {
	data, err := fileutils.ReadRequired(path)
	if err != nil {
		return nil, err
	}

	m, err := Parse(ctx, data)
	if err != nil {
		var e *errcodes.Error
		if errors.As(err, &e) {
			return nil, errcodes.MalformedManifest(path, e.Message)
		}
		return nil, errors.Wrapf(err, "can't parse manifest %s", path)
	}
	return m, nil
}

// Load reads every confirmed-upload manifest in dir, ordered by file name
// (numeric-aware, case-insensitive). Only manifests that can change the catalog
// are kept (see Contributes), and they need a subject name. Skipped files other
// than unconfirmed ones are reported as warnings. A missing directory is an
// input error.
func Load(ctx context.Context, dir string) (*Set, error) {
	log := logger.FromContext(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errcodes.MissingFile(dir)
		}
		return nil, errors.WithStack(err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), UploadedSuffix) {
			names = append(names, entry.Name())
		}
	}
	sortname.Strings(names)

	set := &Set{}
	for _, name := range names {
		path := filepath.Join(dir, name)

		m, err := ReadFile(ctx, path)
		if err != nil {
			log.Warn("skipping manifest", logger.Data{"file": name, "error": err.Error()})
			set.Warnings = append(set.Warnings, "Skipped malformed manifest: "+name)
			continue
		}
		if !m.Uploaded {
			log.Debug("skipping unconfirmed manifest", logger.Data{"file": name})
			continue
		}
		if !m.Contributes() {
			log.Warn("skipping manifest without remote URLs", logger.Data{"file": name})
			set.Warnings = append(set.Warnings, "Skipped manifest without remote URLs: "+name)
			continue
		}
		if m.SubjectName == "" {
			log.Warn("skipping manifest without subject name", logger.Data{"file": name})
			set.Warnings = append(set.Warnings, "Skipped manifest without subject name: "+name)
			continue
		}

		set.Manifests = append(set.Manifests, &Loaded{Path: path, FileName: name, Manifest: m})
	}

	return set, nil
}

// Write stores m in dir under its conventional file name and returns the
// path written.
func Write(dir string, m *Manifest) (string, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}

	path := filepath.Join(dir, FileName(m.Group, m.SubjectName, m.Uploaded))
	// Manifests are meant to be read and committed by operators.
	if err := fileutils.WriteFileAtomic(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}

// RemoteIndex maps remote ids to remote URLs across every confirmed-upload
// manifest in dir. Unreadable manifests and a missing directory are ignored.
func RemoteIndex(ctx context.Context, dir string) map[string]string {
	log := logger.FromContext(ctx)
	index := map[string]string{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return index
	}

	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasSuffix(entry.Name(), UploadedSuffix) {
			continue
		}
		m, err := ReadFile(ctx, filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Debug("ignoring manifest in remote index", logger.Data{"file": entry.Name(), "error": err.Error()})
			continue
		}
		for _, it := range m.Items {
			if it.RemoteID != "" && it.RemoteURL != "" {
				index[it.RemoteID] = it.RemoteURL
			}
		}
	}

	return index
}
