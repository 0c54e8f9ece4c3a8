// Package config loads and saves the AetherSort configuration: the
// ordered rule set plus run settings, persisted as a JSON file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"aethersort/internal/errors"
	"aethersort/internal/rules"

	"github.com/adrg/xdg"
)

// Collision strategies for a name clash at the destination
const (
	CollisionRename    = "rename"
	CollisionSkip      = "skip"
	CollisionOverwrite = "overwrite"
)

// DefaultPrefix is prepended to destination folder names unless the user
// configures otherwise.
const DefaultPrefix = "AETH_"

// Settings holds the run behavior knobs.
type Settings struct {
	FolderPrefix  string `json:"folder_prefix"`
	DryRun        bool   `json:"dry_run"`
	CreateDirs    bool   `json:"create_dirs"`
	Collision     string `json:"collision"`
	DefaultBucket string `json:"default_bucket,omitempty"` // destination for unmatched files, empty = leave in place
}

// Directories holds directory preferences.
type Directories struct {
	Default string   `json:"default,omitempty"` // default source directory
	Watch   []string `json:"watch,omitempty"`   // directories for watch mode
}

// Config is the full application configuration. It is an explicit object
// passed into the engine, never a process-wide singleton.
type Config struct {
	Rules       rules.Set   `json:"rules"`
	Settings    Settings    `json:"settings"`
	Directories Directories `json:"directories"`
}

// DefaultPath returns the default config file location
// ($XDG_CONFIG_HOME/aethersort/config.json).
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "aethersort", "config.json")
}

// New returns the default configuration with safe defaults and no rules.
func New() *Config {
	return &Config{
		Rules: rules.Set{},
		Settings: Settings{
			FolderPrefix: DefaultPrefix,
			DryRun:       false,
			CreateDirs:   true,
			Collision:    CollisionRename,
		},
	}
}

// Load reads configuration from the default location.
func Load() (*Config, error) {
	return LoadFile(DefaultPath())
}

// LoadFile reads configuration from a specific path. A missing file
// yields the defaults; a malformed file aborts the load.
func LoadFile(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.NewConfigError("error reading config file", path, errors.InvalidConfig, err)
	}

	// Unmarshal over the defaults so fields absent from the file keep
	// their safe values.
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("error parsing config file", path, errors.ConfigParseFailed, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration as indented JSON, creating parent
// directories if needed.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewConfigError("failed to create config directory", dir, errors.InvalidConfig, err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return errors.NewConfigError("failed to marshal config", path, errors.InvalidConfig, err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewConfigError("failed to write config file", path, errors.InvalidConfig, err)
	}

	return nil
}

// Validate checks the configuration structure. Pattern compilation is
// deferred to Compile so a bad pattern disables its rule rather than
// aborting the load.
func (c *Config) Validate() error {
	if c == nil {
		return errors.NewConfigError("nil config", "", errors.InvalidConfig, nil)
	}

	switch c.Settings.Collision {
	case CollisionRename, CollisionSkip, CollisionOverwrite:
	default:
		return errors.NewConfigError("invalid collision setting", c.Settings.Collision, errors.InvalidConfig, nil)
	}

	return c.Rules.Validate()
}

// Compile prepares the rule set for matching and returns the problems
// found, one per rule that had to be disabled.
func (c *Config) Compile() []error {
	return c.Rules.Compile()
}
