package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single entry",
			input:    "models-japan.js",
			expected: []string{"models-japan.js"},
		},
		{
			name:     "with extra whitespace",
			input:    "  a.js  ,  b.js ",
			expected: []string{"a.js", "b.js"},
		},
		{
			name:     "empty parts filtered",
			input:    "a.js,,b.js,",
			expected: []string{"a.js", "b.js"},
		},
		{
			name:     "only delimiters",
			input:    ",,,",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input))
		})
	}
}

func TestIsJunkFile(t *testing.T) {
	assert.True(t, IsJunkFile("._01.jpg"))
	assert.True(t, IsJunkFile("book/.DS_Store"))
	assert.True(t, IsJunkFile(".xnviewsort"))
	assert.False(t, IsJunkFile("book/01.jpg"))
}

func TestToSlash(t *testing.T) {
	assert.Equal(t, "book/01.jpg", ToSlash(`book\01.jpg`))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "catalog.ts")

	require.NoError(t, WriteFileAtomic(path, []byte("first\n"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("second\n"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestReadRequired(t *testing.T) {
	_, err := ReadRequired(filepath.Join(t.TempDir(), "missing.ts"))
	require.Error(t, err)
	assert.Equal(t, errcodes.ExitInput, errcodes.ExitCode(err))
	assert.Contains(t, err.Error(), "missing.ts")
}
