// Package config provides configuration loading for the guidscan tool.
// Settings live in a YAML file under the user's config directory and can
// be overridden per-invocation by flags and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/guidscan/guidscan/internal/scan"
)

const (
	// DirName is the per-user configuration directory under $HOME.
	DirName = ".guidscan"

	// FileName is the configuration file inside DirName.
	FileName = "config.yaml"

	// CatalogFileName is the default catalog database inside DirName.
	CatalogFileName = "catalog.db"

	// EnvConfigDir overrides the configuration directory entirely.
	EnvConfigDir = "GUIDSCAN_CONFIG"

	// EnvCatalog overrides the catalog database path.
	EnvCatalog = "GUIDSCAN_CATALOG"
)

// ScanDefaults holds the scan tuning knobs a user can persist instead of
// repeating on every invocation. Zero values mean "use built-in default".
type ScanDefaults struct {
	ChunkSize int `yaml:"chunk_size,omitempty"`
	Overlap   int `yaml:"overlap,omitempty"`
	Workers   int `yaml:"workers,omitempty"`
}

// Config is the persisted configuration.
type Config struct {
	LogLevel    string       `yaml:"log_level,omitempty"`
	CatalogPath string       `yaml:"catalog_path,omitempty"`
	Scan        ScanDefaults `yaml:"scan,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Scan: ScanDefaults{
			ChunkSize: scan.DefaultChunkSize,
			Overlap:   scan.DefaultOverlap,
			Workers:   1,
		},
	}
}

// Loader resolves configuration paths and reads the config file.
type Loader struct {
	dir string
}

// NewLoader creates a loader rooted at GUIDSCAN_CONFIG if set, otherwise
// at $HOME/.guidscan.
func NewLoader() *Loader {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return &Loader{dir: dir}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory: fall back to the working directory so the
		// tool stays usable in minimal containers.
		return &Loader{dir: DirName}
	}
	return &Loader{dir: filepath.Join(home, DirName)}
}

// Dir returns the configuration directory.
func (l *Loader) Dir() string {
	return l.dir
}

// ConfigPath returns the configuration file path.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.dir, FileName)
}

// CatalogPath resolves the catalog database path: environment override
// first, then the configured path, then the default next to the config.
func (l *Loader) CatalogPath(cfg *Config) string {
	if p := os.Getenv(EnvCatalog); p != "" {
		return p
	}
	if cfg != nil && cfg.CatalogPath != "" {
		return cfg.CatalogPath
	}
	return filepath.Join(l.dir, CatalogFileName)
}

// Load reads the configuration file, returning defaults when it does not
// exist. File settings are merged over the defaults.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(l.ConfigPath())
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", l.ConfigPath(), err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", l.ConfigPath(), err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the configuration file, creating the directory if needed.
func (l *Loader) Save(cfg *Config) error {
	if err := os.MkdirAll(l.dir, 0o700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(l.ConfigPath(), data, 0o600); err != nil {
		return fmt.Errorf("config: write %s: %w", l.ConfigPath(), err)
	}
	return nil
}

func (c *Config) normalize() {
	d := Default()
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.Scan.ChunkSize <= 0 {
		c.Scan.ChunkSize = d.Scan.ChunkSize
	}
	if c.Scan.Overlap <= 0 {
		c.Scan.Overlap = d.Scan.Overlap
	}
	if c.Scan.Workers <= 0 {
		c.Scan.Workers = d.Scan.Workers
	}
}
