package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file used when --config is not given.
const DefaultPath = "autosync.json"

// Load reads the config file at path, merges it over DefaultConfig, applies
// environment overrides, and validates the result.
// Files ending in .yaml or .yml are parsed as YAML; anything else as JSON with comments.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	fileMap, err := loadFile(path)
	if err != nil {
		return nil, err
	}
	if err := mergeIntoConfig(&cfg, fileMap); err != nil {
		return nil, fmt.Errorf("merging %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if cfg.WorkDir != "" && !filepath.IsAbs(cfg.WorkDir) {
		abs, err := filepath.Abs(filepath.Join(filepath.Dir(path), cfg.WorkDir))
		if err != nil {
			return nil, fmt.Errorf("resolving work_dir: %w", err)
		}
		cfg.WorkDir = abs
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// loadFile reads a config file and returns it as a generic map.
func loadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var m map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if m == nil {
		m = make(map[string]any)
	}
	return m, nil
}

// mergeIntoConfig round-trips cfg through a map so src can be deep-merged over it.
func mergeIntoConfig(cfg *Config, src map[string]any) error {
	cfgBytes, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	var dst map[string]any
	if err := json.Unmarshal(cfgBytes, &dst); err != nil {
		return err
	}

	if err := mergo.Merge(&dst, src, mergo.WithOverride); err != nil {
		return err
	}

	merged, err := json.Marshal(dst)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, cfg)
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHubToken = token
	}
	if dir := os.Getenv("AUTOSYNC_WORK_DIR"); dir != "" {
		cfg.WorkDir = dir
	}
	if remote := os.Getenv("AUTOSYNC_REMOTE"); remote != "" {
		cfg.Remote = remote
	}
}
