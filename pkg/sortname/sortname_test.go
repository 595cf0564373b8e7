package sortname

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"numeric aware", "page2", "page10", -1},
		{"numeric aware reversed", "page10", "page2", 1},
		{"case insensitive", "Adan", "adan", 0},
		{"diacritic insensitive", "Émilia", "emilia", 0},
		{"alphabetical", "adan", "bernardo", -1},
		{"nested paths", "book/2.jpg", "book/10.jpg", -1},
		{"empty first", "", "a", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Compare(tt.a, tt.b))
		})
	}
}

func TestStrings(t *testing.T) {
	values := []string{"girls-zoe.uploaded.json", "Boys-Adan.uploaded.json", "boys-10.uploaded.json", "boys-2.uploaded.json"}
	Strings(values)
	assert.Equal(t, []string{"boys-2.uploaded.json", "boys-10.uploaded.json", "Boys-Adan.uploaded.json", "girls-zoe.uploaded.json"}, values)
}

func TestSliceBy(t *testing.T) {
	type item struct {
		path string
		id   int
	}
	items := []item{{"book/10.jpg", 1}, {"book/2.jpg", 2}, {"BOOK/2.jpg", 3}}
	SliceBy(items, func(i item) string { return i.path })

	assert.Equal(t, 2, items[0].id)
	assert.Equal(t, 3, items[1].id)
	assert.Equal(t, 1, items[2].id)
}
