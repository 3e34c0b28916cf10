package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the config file looked up in the user config directory
const FileName = "config.toml"

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	Search  SearchSettings  `toml:"search"`
	Catalog CatalogSettings `toml:"catalog"`
	Log     LogSettings     `toml:"log"`
}

// SearchSettings tunes the query pipeline and the engine behind it
type SearchSettings struct {
	DebounceMs     int    `toml:"debounce_ms"`
	MinQueryLength int    `toml:"min_query_length"`
	MaxConcurrent  int    `toml:"max_concurrent"`
	Backend        string `toml:"backend"`
	CacheSize      int    `toml:"cache_size"`
	LatencyMs      int    `toml:"latency_ms"`
}

// CatalogSettings points at the list of names to search
type CatalogSettings struct {
	Path  string `toml:"path"`  // empty means the built-in list
	Watch bool   `toml:"watch"` // reload when the file changes
}

// LogSettings controls the log file
type LogSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Debounce returns the debounce window as a duration
func (s SearchSettings) Debounce() time.Duration {
	return time.Duration(s.DebounceMs) * time.Millisecond
}

// Latency returns the artificial engine latency as a duration
func (s SearchSettings) Latency() time.Duration {
	return time.Duration(s.LatencyMs) * time.Millisecond
}

// Validate checks ranges and enum values
func (c *Config) Validate() error {
	switch {
	case c.Search.DebounceMs < 1:
		return errors.Wrapf(ErrInvalidConfig, "search.debounce_ms must be at least 1, got %d", c.Search.DebounceMs)
	case c.Search.MinQueryLength < 1:
		return errors.Wrapf(ErrInvalidConfig, "search.min_query_length must be at least 1, got %d", c.Search.MinQueryLength)
	case c.Search.MaxConcurrent < 1:
		return errors.Wrapf(ErrInvalidConfig, "search.max_concurrent must be at least 1, got %d", c.Search.MaxConcurrent)
	case c.Search.CacheSize < 0:
		return errors.Wrapf(ErrInvalidConfig, "search.cache_size must not be negative, got %d", c.Search.CacheSize)
	case c.Search.LatencyMs < 0:
		return errors.Wrapf(ErrInvalidConfig, "search.latency_ms must not be negative, got %d", c.Search.LatencyMs)
	}

	switch strings.ToLower(c.Search.Backend) {
	case "substring", "bleve":
	default:
		return errors.Wrapf(ErrInvalidConfig, "search.backend must be substring or bleve, got %q", c.Search.Backend)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Wrapf(ErrInvalidConfig, "log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service rooted in the user config directory
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	return &configService{
		filePath: filepath.Join(configDir, "cheesefinder", FileName),
	}
}

// NewConfigServiceAt creates a config service for an explicit file
func NewConfigServiceAt(path string) ConfigService {
	return &configService{filePath: path}
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when the
// file does not exist
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads configuration from a specific path. Keys missing from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "creating config directory %s", dir)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing config file %s", path)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Search: SearchSettings{
			DebounceMs:     1000,
			MinQueryLength: 2,
			MaxConcurrent:  4,
			Backend:        "substring",
			CacheSize:      128,
			LatencyMs:      0,
		},
		Log: LogSettings{
			Level: "info",
			File:  "cheesefinder.log",
		},
	}
}
