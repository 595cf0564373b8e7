package fileutils

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/pkg/errors"
)

// ReadRequired reads a whole file, reporting a missing file as an input error.
func ReadRequired(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errcodes.MissingFile(path)
		}
		return nil, errors.WithStack(err)
	}
	return data, nil
}

// WriteFileAtomic replaces path with data. The content is written to a
// temporary file in the same directory which is then renamed over the target,
// so readers see either the old file or the new one.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WithStack(err)
	}

	// Keep the mode of the file being replaced.
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.WithStack(err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.WithStack(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.WithStack(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.WithStack(err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return errors.WithStack(err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.WithStack(err)
	}
	return nil
}
