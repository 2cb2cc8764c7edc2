package project

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// RulesConfig is the [rules] section of sortlint.toml.
type RulesConfig struct {
	// Variant selects the rule set: "baseline" or "extended".
	Variant string `toml:"variant"`
	// ExtraTypes extends the sortable-type whitelist.
	ExtraTypes []string `toml:"extra_types"`
}

// OutputConfig is the [output] section.
type OutputConfig struct {
	// Format is "pretty" or "json".
	Format         string `toml:"format"`
	MaxDiagnostics int    `toml:"max_diagnostics"`
}

// CacheConfig is the [cache] section.
type CacheConfig struct {
	Disabled bool `toml:"disabled"`
}

// Config is the parsed sortlint.toml manifest.
type Config struct {
	Rules  RulesConfig  `toml:"rules"`
	Output OutputConfig `toml:"output"`
	Cache  CacheConfig  `toml:"cache"`
}

// DefaultConfig returns the configuration used when no manifest exists.
func DefaultConfig() Config {
	return Config{
		Rules:  RulesConfig{Variant: "extended"},
		Output: OutputConfig{Format: "pretty", MaxDiagnostics: 256},
	}
}

// LoadConfig parses a sortlint.toml file, filling unset fields with
// defaults and rejecting unknown enum values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadConfigFromDir discovers and parses the nearest manifest above
// startDir. Without one it returns the defaults and ok=false.
func LoadConfigFromDir(startDir string) (Config, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil {
		return Config{}, false, err
	}
	if !ok {
		return DefaultConfig(), false, nil
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return Config{}, true, err
	}
	return cfg, true, nil
}

func (c Config) validate() error {
	switch c.Rules.Variant {
	case "baseline", "extended":
	default:
		return fmt.Errorf("invalid [rules].variant %q: must be \"baseline\" or \"extended\"", c.Rules.Variant)
	}
	switch c.Output.Format {
	case "pretty", "json":
	default:
		return fmt.Errorf("invalid [output].format %q: must be \"pretty\" or \"json\"", c.Output.Format)
	}
	if c.Output.MaxDiagnostics <= 0 {
		return fmt.Errorf("invalid [output].max_diagnostics %d: must be positive", c.Output.MaxDiagnostics)
	}
	return nil
}
