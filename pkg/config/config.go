// Package config loads the .arbor/config.yaml workspace configuration
// and resolves where snapshot, view-state and journal files live.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DirName is the per-workspace data directory discovered by walking up
// from the current directory.
const DirName = ".arbor"

// FileName is the configuration file inside DirName.
const FileName = "config.yaml"

// Config represents a workspace configuration file (.arbor/config.yaml)
type Config struct {
	// Theme selects the color scheme: "auto", "dark" or "light"
	Theme string `yaml:"theme,omitempty"`

	// SnapshotFile overrides the snapshot path (relative to the data
	// directory or absolute). Default: snapshot.json
	SnapshotFile string `yaml:"snapshot_file,omitempty"`

	// ViewStateFile overrides the view-state path. Default: viewstate.json
	ViewStateFile string `yaml:"viewstate_file,omitempty"`

	// JournalFile overrides the transition journal path. Default: journal.db
	JournalFile string `yaml:"journal_file,omitempty"`

	// LoadLatencyMS is the simulated child-fetch latency in
	// milliseconds. Zero means the built-in default.
	LoadLatencyMS int `yaml:"load_latency_ms,omitempty"`

	// Watch enables reloading the snapshot when another process edits it
	Watch bool `yaml:"watch,omitempty"`

	// dataDir is where the config was found; paths resolve against it.
	dataDir string
}

// DefaultConfig returns the configuration used when no config file
// exists. The data directory still has to be set by the caller.
func DefaultConfig() Config {
	return Config{Theme: "auto"}
}

// Load reads and validates a configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	cfg.dataDir = filepath.Dir(path)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Discover walks up from dir (or the working directory when dir is
// empty) looking for a .arbor directory, loads its config.yaml when
// present, and falls back to defaults rooted at dir/.arbor when no
// workspace exists yet.
func Discover(dir string) (Config, error) {
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return Config{}, err
		}
	}

	root, found := findRoot(dir)
	if !found {
		cfg := DefaultConfig()
		cfg.dataDir = filepath.Join(dir, DirName)
		return cfg, nil
	}

	path := filepath.Join(root, DirName, FileName)
	if _, err := os.Stat(path); err != nil {
		cfg := DefaultConfig()
		cfg.dataDir = filepath.Join(root, DirName)
		return cfg, nil
	}
	return Load(path)
}

// findRoot walks up from dir looking for a .arbor directory, stopping
// at the filesystem root or the user's home directory.
func findRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, DirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("theme must be auto, dark or light, got %q", c.Theme)
	}
	if c.LoadLatencyMS < 0 {
		return fmt.Errorf("load_latency_ms must be >= 0, got %d", c.LoadLatencyMS)
	}
	return nil
}

// DataDir returns the workspace data directory.
func (c *Config) DataDir() string { return c.dataDir }

// SetDataDir overrides the data directory; flag handling uses this when
// the user names an explicit location.
func (c *Config) SetDataDir(dir string) { c.dataDir = expandHome(dir) }

// SnapshotPath resolves the snapshot file location.
func (c *Config) SnapshotPath() string {
	return c.resolve(c.SnapshotFile, "snapshot.json")
}

// ViewStatePath resolves the view-state file location.
func (c *Config) ViewStatePath() string {
	return c.resolve(c.ViewStateFile, "viewstate.json")
}

// JournalPath resolves the transition journal location.
func (c *Config) JournalPath() string {
	return c.resolve(c.JournalFile, "journal.db")
}

// LoadLatency returns the configured simulated latency, or zero when
// unset so callers apply their own default.
func (c *Config) LoadLatency() time.Duration {
	return time.Duration(c.LoadLatencyMS) * time.Millisecond
}

// EnsureDataDir creates the data directory if it does not exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

func (c *Config) resolve(override, fallback string) string {
	if override == "" {
		return filepath.Join(c.dataDir, fallback)
	}
	override = expandHome(override)
	if filepath.IsAbs(override) {
		return override
	}
	return filepath.Join(c.dataDir, override)
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
