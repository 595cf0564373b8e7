package fileutils

import (
	"path/filepath"
	"strings"
)

var ignoredFileNames = map[string]struct{}{
	".ds_store":   {},
	".xnviewsort": {},
	"thumbs.db":   {},
}

// SplitList splits a comma separated command-line value, dropping blanks.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}

	var parts []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// IsJunkFile reports files left behind by operating systems and image
// viewers, including macOS resource forks ("._name").
func IsJunkFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, "._") {
		return true
	}
	_, ok := ignoredFileNames[strings.ToLower(base)]
	return ok
}

// ToSlash normalises a relative path written on any platform to forward
// slashes.
func ToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
