package uploader

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Cyberdude00/aura-scouting-web/pkg/fileutils"
	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
	"github.com/Cyberdude00/aura-scouting-web/pkg/sortname"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
)

// extensionsToUpload maps accepted file extensions to the MIME types their
// content has to match.
var extensionsToUpload = map[string]map[string]struct{}{
	".jpg":  {"image/jpeg": {}},
	".jpeg": {"image/jpeg": {}},
	".png":  {"image/png": {}, "image/vnd.mozilla.apng": {}},
	".webp": {"image/webp": {}},
	".avif": {"image/avif": {}},
	".gif":  {"image/gif": {}},
}

var (
	repeatedSlashRE = regexp.MustCompile(`/+`)
	remoteIDCharsRE = regexp.MustCompile(`[^a-z0-9/_-]+`)
	extRE           = regexp.MustCompile(`\.[^./]+$`)
)

// Subject is one subject folder under a group folder of the source root.
type Subject struct {
	Group  string
	Folder string
	Dir    string
}

// FindSubjects lists subject folders of the given groups, in group order and
// then natural folder order. Folders whose slug is excluded are left out; a
// non-empty query keeps only folders whose slug equals or contains the query's
// slug. Missing group folders are skipped.
func FindSubjects(ctx context.Context, root string, groups, exclude []string, query string) ([]Subject, error) {
	log := logger.FromContext(ctx)

	excluded := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		excluded[identifiers.Slugify(e)] = struct{}{}
	}
	filter := identifiers.Slugify(query)

	subjects := []Subject{}
	for _, group := range groups {
		groupDir := filepath.Join(root, group)
		entries, err := os.ReadDir(groupDir)
		if err != nil {
			log.Debug("skipping group folder", logger.Data{"group": group, "error": err.Error()})
			continue
		}

		names := []string{}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			slug := identifiers.Slugify(entry.Name())
			if _, ok := excluded[slug]; ok {
				continue
			}
			if filter != "" && slug != filter && !strings.Contains(slug, filter) {
				continue
			}
			names = append(names, entry.Name())
		}
		sortname.Strings(names)

		for _, name := range names {
			subjects = append(subjects, Subject{Group: group, Folder: name, Dir: filepath.Join(groupDir, name)})
		}
	}
	return subjects, nil
}

// Image is an image file found under a subject folder.
type Image struct {
	Path         string
	RelativePath string
	Size         int64
}

// WalkImages finds every image below dir in natural order of relative path.
// Junk files are ignored and files whose content doesn't match their
// extension are skipped with a warning.
func WalkImages(ctx context.Context, dir string) ([]Image, error) {
	log := logger.FromContext(ctx)
	images := []Image{}

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return errors.WithStack(err)
		}
		if entry.IsDir() || fileutils.IsJunkFile(entry.Name()) {
			return nil
		}
		expected, ok := extensionsToUpload[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		mtype, err := mimetype.DetectFile(path)
		if err != nil {
			log.Warn("can't detect the mime type of an image", logger.Data{"path": path, "err": err.Error()})
			return nil
		}
		if _, ok := expected[mtype.String()]; !ok {
			log.Warn("mime type is not expected for extension", logger.Data{"path": path, "mimetype": mtype.String()})
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return errors.WithStack(err)
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return errors.WithStack(err)
		}
		images = append(images, Image{Path: path, RelativePath: fileutils.ToSlash(rel), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortname.SliceBy(images, func(img Image) string { return img.RelativePath })
	return images, nil
}

// RemoteID derives the stable remote id of an image:
// base/group/subject-slug/relative-path-without-extension, lower-cased, with
// characters outside [a-z0-9/_-] replaced by "-".
func RemoteID(base, group, subject, relativePath string) string {
	rel := extRE.ReplaceAllString(fileutils.ToSlash(relativePath), "")
	id := base + "/" + group + "/" + identifiers.Slugify(subject) + "/" + rel
	id = repeatedSlashRE.ReplaceAllString(id, "/")
	return remoteIDCharsRE.ReplaceAllString(strings.ToLower(id), "-")
}

// RemoteFolder is the id without its last segment.
func RemoteFolder(remoteID string) string {
	id := strings.TrimRight(remoteID, "/")
	i := strings.LastIndex(id, "/")
	if i <= 0 {
		return id
	}
	return id[:i]
}
