package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up when no path is given.
// A .staredown.yaml next to it is tried second.
const FileName = ".staredown.json"

const yamlFileName = ".staredown.yaml"

// Config is the root configuration structure.
type Config struct {
	History  HistoryConfig  `json:"history" yaml:"history"`
	Burst    BurstConfig    `json:"burst" yaml:"burst"`
	Bugfix   BugfixConfig   `json:"bugfix" yaml:"bugfix"`
	Coupling CouplingConfig `json:"coupling" yaml:"coupling"`
	Filters  FilterConfig   `json:"filters" yaml:"filters"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}

// HistoryConfig holds traversal defaults.
type HistoryConfig struct {
	DefaultRef   string `json:"defaultRef" yaml:"defaultRef"`     // Default: "HEAD"
	Backend      string `json:"backend" yaml:"backend"`           // "gogit" or "gitcli"
	ContentGuard bool   `json:"contentGuard" yaml:"contentGuard"` // skip commits whose content a newer commit already claimed
}

// BurstConfig holds burst calculation options.
type BurstConfig struct {
	WindowDays int `json:"windowDays" yaml:"windowDays"`
}

// BugfixConfig holds bugfix detection configuration.
type BugfixConfig struct {
	Patterns []string `json:"patterns" yaml:"patterns"` // Regex patterns for bugfix commit detection
}

// CouplingConfig holds co-change options for multi-path runs.
type CouplingConfig struct {
	MinCoCommits        int     `json:"minCoCommits" yaml:"minCoCommits"`
	MinJaccardThreshold float64 `json:"minJaccardThreshold" yaml:"minJaccardThreshold"`
	TopPairs            int     `json:"topPairs" yaml:"topPairs"`
}

// FilterConfig holds path filtering options.
type FilterConfig struct {
	Exclude []string `json:"exclude" yaml:"exclude"`
}

// OutputConfig holds report defaults.
type OutputConfig struct {
	Format string `json:"format" yaml:"format"`
	Top    int    `json:"top" yaml:"top"` // 0 means no limit
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{
			DefaultRef: "HEAD",
			Backend:    "gogit",
		},
		Burst: BurstConfig{
			WindowDays: 7,
		},
		Bugfix: BugfixConfig{
			Patterns: []string{
				`\bfix(ed|es)?\b`,
				`\bbug\b`,
				`\bhotfix\b`,
				`\brevert\b`,
			},
		},
		Coupling: CouplingConfig{
			MinCoCommits:        1,
			MinJaccardThreshold: 0.0,
			TopPairs:            20,
		},
		Filters: FilterConfig{
			Exclude: []string{},
		},
		Output: OutputConfig{
			Format: "console",
		},
	}
}

// Validate checks value ranges after loading.
func (c *Config) Validate() error {
	if c.Burst.WindowDays < 0 {
		return fmt.Errorf("burst.windowDays must not be negative, got %d", c.Burst.WindowDays)
	}
	if c.Coupling.MinCoCommits < 0 {
		return fmt.Errorf("coupling.minCoCommits must not be negative, got %d", c.Coupling.MinCoCommits)
	}
	if c.Coupling.MinJaccardThreshold < 0 || c.Coupling.MinJaccardThreshold > 1 {
		return fmt.Errorf("coupling.minJaccardThreshold must be within [0, 1], got %g", c.Coupling.MinJaccardThreshold)
	}
	if c.Output.Top < 0 {
		return fmt.Errorf("output.top must not be negative, got %d", c.Output.Top)
	}
	return nil
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{FileName, yamlFileName}
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home != "" {
			candidates = append(candidates, filepath.Join(home, FileName), filepath.Join(home, yamlFileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file, as YAML when path ends in
// .yaml or .yml and as JSON otherwise.
func SaveConfig(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func decode(path string, data []byte, cfg *Config) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, cfg)
	}
	return json.Unmarshal(data, cfg)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
