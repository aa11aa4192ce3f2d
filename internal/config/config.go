// Package config loads analyzer settings from JSON, YAML or TOML files.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"shade-match/internal/facemask"
	"shade-match/internal/finish"
	"shade-match/internal/match"
	"shade-match/internal/sampler"
	"shade-match/internal/swatch"
)

const configFile = "config.json"

// Config gathers every tunable of the analyzer.
type Config struct {
	Mask    facemask.Params `json:"mask" yaml:"mask" toml:"mask"`
	Sampler sampler.Params  `json:"sampler" yaml:"sampler" toml:"sampler"`
	Finish  finish.Params   `json:"finish" yaml:"finish" toml:"finish"`
	Match   match.Options   `json:"match" yaml:"match" toml:"match"`
	Swatch  swatch.Params   `json:"swatch" yaml:"swatch" toml:"swatch"`
	Workers int             `json:"workers" yaml:"workers" toml:"workers"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Mask:    facemask.DefaultParams(),
		Sampler: sampler.DefaultParams(),
		Finish:  finish.DefaultParams(),
		Match:   match.DefaultOptions(),
		Swatch:  swatch.DefaultParams(),
		Workers: runtime.NumCPU(),
	}
}

// DefaultPath returns ~/.config/shade-match/config.json or the platform equivalent.
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "shade-match", configFile)
}

// Load overlays the file at path onto Default. A cascade given in the file
// replaces the default one as a whole. An empty path means DefaultPath, and a
// missing default file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	// Decoders may reuse slice elements, which would leak default step fields.
	defaults := cfg.Sampler
	cfg.Sampler.Lips.Cascade, cfg.Sampler.Cheeks.Cascade = nil, nil

	switch format(path) {
	case "yaml":
		err = yaml.Unmarshal(data, &cfg)
	case "toml":
		_, err = toml.Decode(string(data), &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Sampler.Lips.Cascade == nil {
		cfg.Sampler.Lips.Cascade = defaults.Lips.Cascade
	}
	if cfg.Sampler.Cheeks.Cascade == nil {
		cfg.Sampler.Cheeks.Cascade = defaults.Cheeks.Cascade
	}
	return cfg, cfg.Validate()
}

// Save writes cfg to path in the format implied by its extension.
func (c Config) Save(path string) error {
	var (
		data []byte
		err  error
	)
	switch format(path) {
	case "yaml":
		data, err = yaml.Marshal(c)
	case "toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(c)
		data = buf.Bytes()
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the settings that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if err := c.Match.Validate(); err != nil {
		return fmt.Errorf("match: %w", err)
	}
	for name, policy := range map[string]sampler.Policy{"lips": c.Sampler.Lips, "cheeks": c.Sampler.Cheeks} {
		for _, step := range policy.Cascade {
			if step.SatMin < 0 || step.SatMin > 100 || step.ValMin > 100 || step.ValMax > 100 {
				return fmt.Errorf("sampler %s step %q: percentiles must be within [0,100]", name, step.Name)
			}
			if step.ValMin > 0 && step.ValMax > 0 && step.ValMax < step.ValMin {
				return fmt.Errorf("sampler %s step %q: val_max %v below val_min %v", name, step.Name, step.ValMax, step.ValMin)
			}
		}
	}
	return nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	default:
		return "json"
	}
}
