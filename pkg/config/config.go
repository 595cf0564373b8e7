package config

import (
	"context"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/Cyberdude00/aura-scouting-web/pkg/binder"
	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
	"github.com/go-viper/mapstructure/v2"
	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "./catalog.yaml"

	dataDir    = "src/app/features/pages/gallery/data"
	importDir  = dataDir + "/import/models"
	koreaFile  = importDir + "/models-korea-feb.js"
	japanFile  = importDir + "/models-japan.js"
	chinaFile  = importDir + "/models-china-feb.js"
	koanfTag   = "koanf"
	listSep    = ","
	keyDelim   = "."
	noEnvValue = ""
)

// New-subject group policies.
const (
	NewSubjectsAll    = "all"
	NewSubjectsListed = "listed"
)

// Sync order modes.
const (
	OrderPreserveCurrent = "preserve-current"
	OrderLegacy          = "legacy"
)

// Group is one named gallery. Its subject order is recovered from LegacyFile.
type Group struct {
	Key        string `koanf:"key" validate:"required"`
	Name       string `koanf:"name"`
	LegacyFile string `koanf:"legacy_file"`
}

type Config struct {
	ManifestsDir string   `koanf:"manifests_dir" mod:"trim" validate:"required"`
	CatalogFile  string   `koanf:"catalog_file" mod:"trim" validate:"required"`
	GroupsFile   string   `koanf:"groups_file" mod:"trim" validate:"required"`
	LegacyFiles  []string `koanf:"legacy_files"`
	Groups       []Group  `koanf:"groups" validate:"dive"`

	Aliases map[string]string `koanf:"aliases"`
	Exclude []string          `koanf:"exclude"`

	NewSubjectPolicy string   `koanf:"new_subject_policy" validate:"oneof=all listed"`
	NewSubjectGroups []string `koanf:"new_subject_groups"`
	FuzzyPolicy      string   `koanf:"fuzzy_policy" validate:"oneof=off token substring"`
	SyncOrderMode    string   `koanf:"sync_order_mode" validate:"oneof=preserve-current legacy"`
	AllowNoop        bool     `koanf:"allow_noop"`

	PrimaryPrefixes       []string `koanf:"primary_prefixes"`
	SupplementaryPrefixes []string `koanf:"supplementary_prefixes"`

	UploadSourceRoot        string        `koanf:"upload_source_root"`
	UploadBaseFolder        string        `koanf:"upload_base_folder"`
	UploadGroups            []string      `koanf:"upload_groups"`
	UploadRequestsPerSecond float64       `koanf:"upload_requests_per_second" validate:"gt=0"`
	UploadTimeout           time.Duration `koanf:"upload_timeout" validate:"gt=0"`

	CloudinaryBaseURL   string `koanf:"cloudinary_base_url" validate:"url"`
	CloudinaryCloudName string `koanf:"cloudinary_cloud_name"`
	CloudinaryAPIKey    string `koanf:"cloudinary_api_key"`
	CloudinaryAPISecret string `koanf:"cloudinary_api_secret"`
}

// New is Load with the config file named by CONFIG_FILE.
func New() (*Config, error) {
	return Load("")
}

// Load reads the config file at path, lets environment variables named after
// the upper-cased keys override it, and fills the remaining defaults. An empty
// path falls back to CONFIG_FILE and then to ./catalog.yaml. Only that last
// default may be missing.
func Load(path string) (*Config, error) {
	k := koanf.New(keyDelim)

	if path == "" {
		path = os.Getenv(configFileENV)
	}
	optional := path == ""
	if optional {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errcodes.InvalidConfig(errors.Wrapf(err, "can't read %s", path).Error())
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.WithStack(err)
	} else if !optional {
		return nil, errcodes.MissingFile(path)
	}

	known := envKeys()
	err := k.Load(env.Provider(noEnvValue, keyDelim, func(s string) string {
		key := strings.ToLower(s)
		if _, ok := known[key]; !ok {
			return noEnvValue
		}
		return key
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{}
	err = k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: koanfTag,
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(listSep),
			),
			Result:           cfg,
			TagName:          koanfTag,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, errcodes.InvalidConfig(err.Error())
	}

	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewForTest returns a config with every default filled and no file or
// environment input.
func NewForTest() *Config {
	cfg := &Config{}
	fillDefaults(cfg)
	return cfg
}

// Validate checks the whole config. It's run by New and should be run again
// after command-line overrides are applied.
func (cfg *Config) Validate() error {
	if cfg.ManifestsDir == "" || cfg.CatalogFile == "" || cfg.GroupsFile == "" {
		missing := []string{}
		for _, field := range []struct{ name, value string }{
			{"ManifestsDir", cfg.ManifestsDir},
			{"CatalogFile", cfg.CatalogFile},
			{"GroupsFile", cfg.GroupsFile},
		} {
			if field.value == "" {
				key := toSnakeCase(field.name)
				missing = append(missing, strings.ToUpper(key)+" env var or "+key+" in config file")
			}
		}
		return errcodes.InvalidConfig("missing required config: " + strings.Join(missing, "; "))
	}

	b, err := binder.New()
	if err != nil {
		return errors.WithStack(err)
	}
	if err := b.Struct(context.Background(), cfg); err != nil {
		return errcodes.InvalidConfig(err.Error())
	}

	if _, err := identifiers.NewAliases(cfg.Aliases); err != nil {
		return err
	}
	if _, err := identifiers.ParseFuzzyPolicy(cfg.FuzzyPolicy); err != nil {
		return err
	}

	keys := map[string]struct{}{}
	for _, g := range cfg.Groups {
		if _, ok := keys[g.Key]; ok {
			return errcodes.InvalidConfig("duplicate group key: " + g.Key)
		}
		keys[g.Key] = struct{}{}
	}
	if cfg.NewSubjectPolicy == NewSubjectsListed {
		if len(cfg.NewSubjectGroups) == 0 {
			return errcodes.InvalidConfig("new_subject_policy listed needs at least one entry in new_subject_groups")
		}
		for _, key := range cfg.NewSubjectGroups {
			if _, ok := keys[key]; !ok {
				return errcodes.InvalidConfig("new_subject_groups names unknown group: " + key)
			}
		}
	}
	return nil
}

// AliasTable builds the alias table. The error only surfaces when a caller
// skipped Validate.
func (cfg *Config) AliasTable() (*identifiers.Aliases, error) {
	return identifiers.NewAliases(cfg.Aliases)
}

// Fuzzy returns the parsed fuzzy-match policy.
func (cfg *Config) Fuzzy() identifiers.FuzzyPolicy {
	p, err := identifiers.ParseFuzzyPolicy(cfg.FuzzyPolicy)
	if err != nil {
		return identifiers.FuzzyToken
	}
	return p
}

// HasCredentials reports whether every storage credential is set.
func (cfg *Config) HasCredentials() bool {
	return cfg.CloudinaryCloudName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != ""
}

func fillDefaults(cfg *Config) {
	if cfg.ManifestsDir == "" {
		cfg.ManifestsDir = importDir + "/_cloudinary-manifests"
	}
	if cfg.CatalogFile == "" {
		cfg.CatalogFile = dataDir + "/gallery-models.data.ts"
	}
	if cfg.GroupsFile == "" {
		cfg.GroupsFile = dataDir + "/groups/agency-galleries.config.ts"
	}
	if cfg.Groups == nil {
		cfg.Groups = []Group{
			{Key: "korea", Name: "KOREA", LegacyFile: koreaFile},
			{Key: "japan", Name: "JAPAN", LegacyFile: japanFile},
			{Key: "china", Name: "CHINA", LegacyFile: chinaFile},
		}
	}
	if cfg.LegacyFiles == nil {
		cfg.LegacyFiles = []string{koreaFile, japanFile, chinaFile}
	}
	if cfg.Aliases == nil {
		cfg.Aliases = DefaultAliases()
	}
	if cfg.PrimaryPrefixes == nil {
		cfg.PrimaryPrefixes = []string{"book/"}
	}
	if cfg.SupplementaryPrefixes == nil {
		cfg.SupplementaryPrefixes = []string{"polas/", "snaps/"}
	}
	if cfg.UploadGroups == nil {
		cfg.UploadGroups = []string{"boys", "girls"}
	}
	if cfg.NewSubjectPolicy == "" {
		cfg.NewSubjectPolicy = NewSubjectsAll
	}
	if cfg.FuzzyPolicy == "" {
		cfg.FuzzyPolicy = string(identifiers.FuzzyToken)
	}
	if cfg.SyncOrderMode == "" {
		cfg.SyncOrderMode = OrderPreserveCurrent
	}
	if cfg.UploadSourceRoot == "" {
		cfg.UploadSourceRoot = importDir
	}
	if cfg.UploadBaseFolder == "" {
		cfg.UploadBaseFolder = "aura/gallery/models"
	}
	if cfg.UploadRequestsPerSecond == 0 {
		cfg.UploadRequestsPerSecond = 5
	}
	if cfg.UploadTimeout == 0 {
		cfg.UploadTimeout = time.Minute
	}
	if cfg.CloudinaryBaseURL == "" {
		cfg.CloudinaryBaseURL = "https://api.cloudinary.com"
	}
}

// DefaultAliases maps current subject names onto the names older catalog
// generations used for them.
func DefaultAliases() map[string]string {
	return map[string]string{
		"agos-martinez":      "agostina-martinez",
		"angel-bret":         "angel",
		"bernardo-romano":    "bernardo",
		"emilia-bryan":       "emilia",
		"luciana-imoberdorf": "luciana-imoberdof",
		"moana-buezas":       "moana",
		"pilar-sampaio":      "pilar",
		"salih-topcouglu":    "salih",
		"mafer-bezanilla":    "mafer",
	}
}

// envKeys lists the keys that may be set through the environment. Maps and
// nested lists only come from the config file.
func envKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		//exhaustive:ignore
		switch f.Type.Kind() {
		case reflect.Map:
			continue
		case reflect.Slice:
			if f.Type.Elem().Kind() != reflect.String {
				continue
			}
		}
		keys[f.Tag.Get(koanfTag)] = struct{}{}
	}
	return keys
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
