package identifiers

import (
	"testing"

	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"two words", "Pilar Sampaio", "pilar-sampaio"},
		{"diacritics and padding", "  Émilia  Bryan ", "emilia-bryan"},
		{"punctuation runs", "Agos -- Martínez!!", "agos-martinez"},
		{"digits kept", "Model 23", "model-23"},
		{"already a slug", "angel-bret", "angel-bret"},
		{"leading and trailing symbols", "__Salih__", "salih"},
		{"tilde n", "Ñandú", "nandu"},
		{"empty", "", ""},
		{"only symbols", "***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.input))
		})
	}
}

func TestBasenameKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"relative path", "book/01.jpg", "01"},
		{"windows path", `polas\IMG_0042.JPG`, "img-0042"},
		{"cdn url", "https://res.cloudinary.com/demo/image/upload/v17/aura/boys/adan/book/03.webp", "03"},
		{"url with query", "https://cdn.example.com/a/Foto Final.png?w=300", "foto-final"},
		{"no extension", "book/cover", "cover"},
		{"trailing slash", "book/", "book"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BasenameKey(tt.input))
		})
	}
}

func TestAliases_Same(t *testing.T) {
	aliases := MustAliases(map[string]string{
		"pilar-sampaio": "pilar",
		"angel-bret":    "angel",
	})

	assert.True(t, aliases.Same("Pilar Sampaio", "Pilar"))
	assert.True(t, aliases.Same("Pilar", "Pilar Sampaio"))
	assert.True(t, aliases.Same("ANGEL", "Angel Bret"))
	assert.True(t, aliases.Same("Adan", "adan"))
	assert.False(t, aliases.Same("Pilar", "Angel"))
	assert.False(t, aliases.Same("", ""))
}

func TestAliases_NilTable(t *testing.T) {
	var aliases *Aliases
	assert.Equal(t, "adan", aliases.Resolve("adan"))
	assert.True(t, aliases.Same("Adan", "adan"))
	assert.Equal(t, []string{"adan"}, aliases.Variants("adan"))
	assert.Equal(t, 0, aliases.Len())
}

func TestAliases_Canonical(t *testing.T) {
	aliases := MustAliases(map[string]string{
		"pilar-sampaio":      "pilar",
		"luciana-imoberdorf": "luciana-imoberdof",
	})
	current := map[string]struct{}{
		"pilar-sampaio":      {},
		"luciana-imoberdorf": {},
		"adan":               {},
	}

	got, ok := aliases.Canonical("pilar", current)
	require.True(t, ok)
	assert.Equal(t, "pilar-sampaio", got)

	got, ok = aliases.Canonical("luciana-imoberdof", current)
	require.True(t, ok)
	assert.Equal(t, "luciana-imoberdorf", got)

	got, ok = aliases.Canonical("adan", current)
	require.True(t, ok)
	assert.Equal(t, "adan", got)

	_, ok = aliases.Canonical("maximo", current)
	assert.False(t, ok)
}

func TestNewAliases_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		table map[string]string
	}{
		{"chain", map[string]string{"a": "b", "b": "c"}},
		{"cycle", map[string]string{"a": "b", "b": "a"}},
		{"self", map[string]string{"Adan": "adan"}},
		{"empty value", map[string]string{"adan": "!!"}},
		{"conflicting keys", map[string]string{"Pilar Sampaio": "pilar", "pilar-sampaio": "pili"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAliases(tt.table)
			require.Error(t, err)
			var e *errcodes.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, errcodes.KindInput, e.Kind)
		})
	}
}

func TestFuzzyPolicy(t *testing.T) {
	tests := []struct {
		name     string
		policy   FuzzyPolicy
		a        string
		b        string
		expected bool
	}{
		{"token prefix", FuzzyToken, "pilar", "pilar-sampaio", true},
		{"token reversed", FuzzyToken, "pilar-sampaio", "pilar", true},
		{"token partial word", FuzzyToken, "ana", "ariana", false},
		{"token disjoint", FuzzyToken, "adan", "maximo", false},
		{"substring partial word", FuzzySubstring, "ana", "ariana", true},
		{"off", FuzzyOff, "pilar", "pilar-sampaio", false},
		{"empty", FuzzyToken, "", "pilar", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.policy.Fuzzy(tt.a, tt.b))
		})
	}
}

func TestParseFuzzyPolicy(t *testing.T) {
	p, err := ParseFuzzyPolicy("")
	require.NoError(t, err)
	assert.Equal(t, FuzzyToken, p)

	p, err = ParseFuzzyPolicy(" Substring ")
	require.NoError(t, err)
	assert.Equal(t, FuzzySubstring, p)

	_, err = ParseFuzzyPolicy("levenshtein")
	require.Error(t, err)
}
