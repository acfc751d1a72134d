// Package config holds the per-smell threshold records and the layered
// loading logic that merges a user file over documented defaults. All
// validation happens here; the engine assumes thresholds it receives
// are sane.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
	kjson "github.com/knadh/koanf/parsers/json"
	ktoml "github.com/knadh/koanf/parsers/toml"
	kyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/jparkin/whiff/pkg/models"
)

// Config holds all configuration options for whiff.
type Config struct {
	Smells             SmellsConfig             `koanf:"smells" json:"smells" toml:"smells"`
	LongMethod         LongMethodConfig         `koanf:"long_method" json:"long_method" toml:"long_method"`
	GodClass           GodClassConfig           `koanf:"god_class" json:"god_class" toml:"god_class"`
	DuplicatedCode     DuplicatedCodeConfig     `koanf:"duplicated_code" json:"duplicated_code" toml:"duplicated_code"`
	LargeParameterList LargeParameterListConfig `koanf:"large_parameter_list" json:"large_parameter_list" toml:"large_parameter_list"`
	MagicNumbers       MagicNumbersConfig       `koanf:"magic_numbers" json:"magic_numbers" toml:"magic_numbers"`
	FeatureEnvy        FeatureEnvyConfig        `koanf:"feature_envy" json:"feature_envy" toml:"feature_envy"`
	Exclude            ExcludeConfig            `koanf:"exclude" json:"exclude" toml:"exclude"`
	Cache              CacheConfig              `koanf:"cache" json:"cache" toml:"cache"`
	Output             OutputConfig             `koanf:"output" json:"output" toml:"output"`
}

// SmellsConfig toggles individual detectors.
type SmellsConfig struct {
	LongMethod         bool `koanf:"long_method" json:"long_method" toml:"long_method"`
	GodClass           bool `koanf:"god_class" json:"god_class" toml:"god_class"`
	DuplicatedCode     bool `koanf:"duplicated_code" json:"duplicated_code" toml:"duplicated_code"`
	LargeParameterList bool `koanf:"large_parameter_list" json:"large_parameter_list" toml:"large_parameter_list"`
	MagicNumbers       bool `koanf:"magic_numbers" json:"magic_numbers" toml:"magic_numbers"`
	FeatureEnvy        bool `koanf:"feature_envy" json:"feature_envy" toml:"feature_envy"`
}

// LongMethodConfig thresholds.
type LongMethodConfig struct {
	SLOC       int `koanf:"sloc" json:"sloc" toml:"sloc"`
	Cyclomatic int `koanf:"cyclomatic" json:"cyclomatic" toml:"cyclomatic"`
}

// GodClassConfig thresholds for the ATFD/WMC/TCC rule.
type GodClassConfig struct {
	ATFDFew     int     `koanf:"atfd_few" json:"atfd_few" toml:"atfd_few"`
	WMCVeryHigh int     `koanf:"wmc_very_high" json:"wmc_very_high" toml:"wmc_very_high"`
	TCCOneThird float64 `koanf:"tcc_one_third" json:"tcc_one_third" toml:"tcc_one_third"`
}

// DuplicatedCodeConfig thresholds.
type DuplicatedCodeConfig struct {
	MinBlockLines int `koanf:"min_block_lines" json:"min_block_lines" toml:"min_block_lines"`
}

// LargeParameterListConfig thresholds.
type LargeParameterListConfig struct {
	MaxParams int `koanf:"max_params" json:"max_params" toml:"max_params"`
}

// MagicNumbersConfig thresholds.
type MagicNumbersConfig struct {
	MinOccurrences int       `koanf:"min_occurrences" json:"min_occurrences" toml:"min_occurrences"`
	Whitelist      []float64 `koanf:"whitelist" json:"whitelist" toml:"whitelist"`
}

// FeatureEnvyConfig thresholds for the ATFD/LAA/FDP rule.
type FeatureEnvyConfig struct {
	MinSLOC       int     `koanf:"min_sloc" json:"min_sloc" toml:"min_sloc"`
	ATFDThreshold int     `koanf:"atfd_threshold" json:"atfd_threshold" toml:"atfd_threshold"`
	LAAThreshold  float64 `koanf:"laa_threshold" json:"laa_threshold" toml:"laa_threshold"`
	FDPThreshold  int     `koanf:"fdp_threshold" json:"fdp_threshold" toml:"fdp_threshold"`
}

// ExcludeConfig defines file exclusion patterns for directory scans.
type ExcludeConfig struct {
	Patterns []string `koanf:"patterns" json:"patterns" toml:"patterns"`
	Dirs     []string `koanf:"dirs" json:"dirs" toml:"dirs"`
}

// CacheConfig controls result caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" json:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" json:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" json:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" json:"format" toml:"format"` // json, table, toon
	Color  bool   `koanf:"color" json:"color" toml:"color"`
}

// DefaultConfig returns a config with the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Smells: SmellsConfig{
			LongMethod:         true,
			GodClass:           true,
			DuplicatedCode:     true,
			LargeParameterList: true,
			MagicNumbers:       true,
			FeatureEnvy:        true,
		},
		LongMethod: LongMethodConfig{
			SLOC:       30,
			Cyclomatic: 12,
		},
		GodClass: GodClassConfig{
			ATFDFew:     2,
			WMCVeryHigh: 10,
			TCCOneThird: 0.6,
		},
		DuplicatedCode: DuplicatedCodeConfig{
			MinBlockLines: 3,
		},
		LargeParameterList: LargeParameterListConfig{
			MaxParams: 6,
		},
		MagicNumbers: MagicNumbersConfig{
			MinOccurrences: 3,
			Whitelist:      []float64{0, 1, -1},
		},
		FeatureEnvy: FeatureEnvyConfig{
			MinSLOC:       10,
			ATFDThreshold: 5,
			LAAThreshold:  0.33,
			FDPThreshold:  2,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{"*_test.py", "test_*.py"},
			Dirs: []string{
				".git",
				".venv",
				"venv",
				"node_modules",
				"__pycache__",
				".whiff",
			},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".whiff/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format: "table",
			Color:  true,
		},
	}
}

// Load loads configuration from a file, layering it over defaults.
// Only keys present in the file override default values; everything
// else keeps its default. The raw document is validated against the
// embedded schema before unmarshaling.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = ktoml.Parser()
	case ".json":
		parser = kjson.Parser()
	default:
		parser = kyaml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}

	if err := validateRaw(k.Raw()); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault tries standard config locations or returns defaults.
func LoadOrDefault() *Config {
	names := []string{
		"whiff.toml", "whiff.yaml", "whiff.yml", "whiff.json",
		".whiff.toml", ".whiff.yaml", ".whiff.yml", ".whiff.json",
	}
	for _, dir := range []string{".", ".whiff"} {
		for _, name := range names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				if cfg, err := Load(path); err == nil {
					return cfg
				}
			}
		}
	}
	return DefaultConfig()
}

// EnabledSmells returns the set of smells switched on in the config.
func (c *Config) EnabledSmells() models.SmellSet {
	set := make(models.SmellSet)
	set[models.SmellLongMethod] = c.Smells.LongMethod
	set[models.SmellGodClass] = c.Smells.GodClass
	set[models.SmellDuplicatedCode] = c.Smells.DuplicatedCode
	set[models.SmellLargeParameterList] = c.Smells.LargeParameterList
	set[models.SmellMagicNumbers] = c.Smells.MagicNumbers
	set[models.SmellFeatureEnvy] = c.Smells.FeatureEnvy
	return set
}

// ShouldExclude checks if a path matches the exclusion rules.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		sep := string(filepath.Separator)
		if strings.Contains(path, sep+dir+sep) || strings.HasPrefix(path, dir+sep) {
			return true
		}
	}
	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// Fingerprint returns a stable hash of the threshold settings, used to
// key cached results so stale entries die when thresholds change.
func (c *Config) Fingerprint() uint64 {
	h := xxhash.New()
	fmt.Fprintf(h, "%+v%+v%+v%+v%+v%+v%+v",
		c.Smells, c.LongMethod, c.GodClass, c.DuplicatedCode,
		c.LargeParameterList, c.MagicNumbers, c.FeatureEnvy)
	return h.Sum64()
}
