package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "catalog.yaml")
	err := os.WriteFile(configPath, []byte(content), 0644)
	require.NoError(t, err)
	return configPath
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, "src/app/features/pages/gallery/data/import/models/_cloudinary-manifests", cfg.ManifestsDir)
	assert.Equal(t, "src/app/features/pages/gallery/data/gallery-models.data.ts", cfg.CatalogFile)
	assert.Equal(t, "src/app/features/pages/gallery/data/groups/agency-galleries.config.ts", cfg.GroupsFile)
	require.Len(t, cfg.Groups, 3)
	assert.Equal(t, "korea", cfg.Groups[0].Key)
	assert.Equal(t, "KOREA", cfg.Groups[0].Name)
	assert.Len(t, cfg.LegacyFiles, 3)
	assert.Equal(t, NewSubjectsAll, cfg.NewSubjectPolicy)
	assert.Equal(t, OrderPreserveCurrent, cfg.SyncOrderMode)
	assert.Equal(t, identifiers.FuzzyToken, cfg.Fuzzy())
	assert.Equal(t, []string{"book/"}, cfg.PrimaryPrefixes)
	assert.Equal(t, []string{"polas/", "snaps/"}, cfg.SupplementaryPrefixes)
	assert.Equal(t, []string{"boys", "girls"}, cfg.UploadGroups)
	assert.Equal(t, "aura/gallery/models", cfg.UploadBaseFolder)
	assert.Equal(t, time.Minute, cfg.UploadTimeout)
	assert.Equal(t, "pilar", cfg.Aliases["pilar-sampaio"])
	assert.False(t, cfg.AllowNoop)
	assert.False(t, cfg.HasCredentials())
}

func TestNew_WithConfigFile(t *testing.T) {
	configPath := writeConfig(t, `
catalog_file: /data/models.ts
fuzzy_policy: "off"
sync_order_mode: legacy
upload_timeout: 90s
groups:
  - key: korea
    name: KOREA
    legacy_file: /data/korea.js
aliases:
  adan-perez: adan
`)
	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/models.ts", cfg.CatalogFile)
	assert.Equal(t, identifiers.FuzzyOff, cfg.Fuzzy())
	assert.Equal(t, OrderLegacy, cfg.SyncOrderMode)
	assert.Equal(t, 90*time.Second, cfg.UploadTimeout)
	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "/data/korea.js", cfg.Groups[0].LegacyFile)
	assert.Equal(t, map[string]string{"adan-perez": "adan"}, cfg.Aliases)
}

func TestLoad_ExplicitPath(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")

	configPath := writeConfig(t, "catalog_file: /data/explicit.ts\n")
	cfg, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, "/data/explicit.ts", cfg.CatalogFile)

	tests := []struct {
		name string
		env  string
		path string
	}{
		{"flag path", "", "/nonexistent/catalog.yaml"},
		{"env path", "/nonexistent/catalog.yaml", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", tt.env)

			_, err := Load(tt.path)
			require.Error(t, err)
			assert.Equal(t, errcodes.ExitInput, errcodes.ExitCode(err))
			assert.Contains(t, err.Error(), "/nonexistent/catalog.yaml")
		})
	}
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	configPath := writeConfig(t, `
catalog_file: /data/from-file.ts
upload_groups: [boys]
`)
	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("CATALOG_FILE", "/data/from-env.ts")
	t.Setenv("UPLOAD_GROUPS", "girls,boys")
	t.Setenv("ALLOW_NOOP", "true")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "key")
	t.Setenv("CLOUDINARY_API_SECRET", "secret")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/from-env.ts", cfg.CatalogFile)
	assert.Equal(t, []string{"girls", "boys"}, cfg.UploadGroups)
	assert.True(t, cfg.AllowNoop)
	assert.True(t, cfg.HasCredentials())
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{
			name:     "unknown new subject policy",
			content:  "new_subject_policy: some\n",
			contains: `"new_subject_policy" must be one of the following`,
		},
		{
			name:     "listed policy without groups",
			content:  "new_subject_policy: listed\n",
			contains: "needs at least one entry",
		},
		{
			name:     "listed policy with unknown group",
			content:  "new_subject_policy: listed\nnew_subject_groups: [peru]\n",
			contains: "unknown group: peru",
		},
		{
			name:     "alias chain",
			content:  "aliases:\n  a: b\n  b: c\n",
			contains: "alias",
		},
		{
			name:     "unknown fuzzy policy",
			content:  "fuzzy_policy: levenshtein\n",
			contains: `"fuzzy_policy" must be one of the following`,
		},
		{
			name:     "duplicate group",
			content:  "groups:\n  - key: korea\n  - key: korea\n",
			contains: "duplicate group key: korea",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", writeConfig(t, tt.content))

			cfg, err := New()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
			assert.Equal(t, errcodes.ExitInput, errcodes.ExitCode(err))
		})
	}
}

func TestValidate_RequiredFieldMissing(t *testing.T) {
	cfg := NewForTest()
	cfg.CatalogFile = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "CATALOG_FILE")
	assert.Contains(t, err.Error(), "catalog_file")
}

func TestNewForTest(t *testing.T) {
	cfg := NewForTest()
	require.NoError(t, cfg.Validate())
	aliases, err := cfg.AliasTable()
	require.NoError(t, err)
	assert.Equal(t, len(DefaultAliases()), aliases.Len())
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "catalog_file", toSnakeCase("CatalogFile"))
	assert.Equal(t, "manifests_dir", toSnakeCase("ManifestsDir"))
	assert.Equal(t, "upload_requests_per_second", toSnakeCase("UploadRequestsPerSecond"))
}
