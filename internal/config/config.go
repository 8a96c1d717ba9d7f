// Package config loads and edits the persistent settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/yearlit/internal/constants"
	"github.com/julianstephens/yearlit/internal/dates"
	"github.com/julianstephens/yearlit/internal/merge"
	"github.com/julianstephens/yearlit/internal/models"
	"github.com/julianstephens/yearlit/internal/storage/postgres"
)

// StoreFromCredentials tells main to read the PostgreSQL connection string
// from the environment or the OS keyring instead of the config file.
const StoreFromCredentials = "postgres"

var ErrUnknownSetting = errors.New("unknown setting")

type Config struct {
	// Store is a file path, a credential-free PostgreSQL connection
	// string, or StoreFromCredentials
	Store        string `toml:"store"`
	Timezone     string `toml:"timezone"`
	DefaultMode  string `toml:"default_mode"`
	ImportPolicy string `toml:"import_policy"`
	Debug        bool   `toml:"debug"`
}

// Path returns the config file location inside configDir
func Path(configDir string) string {
	return filepath.Join(configDir, constants.ConfigFileName)
}

func Default() Config {
	return Config{
		Store:        constants.DefaultStorePath,
		Timezone:     constants.DefaultTimezone,
		DefaultMode:  constants.DefaultMode,
		ImportPolicy: constants.DefaultImportPolicy,
	}
}

// LoadOrCreate reads the config at path, writing the defaults there first
// when the file does not exist. Blank fields fall back to defaults.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(path, cfg); err != nil {
			return cfg, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if strings.TrimSpace(c.Store) == "" {
		c.Store = d.Store
	}
	if c.Timezone == "" {
		c.Timezone = d.Timezone
	}
	if c.DefaultMode == "" {
		c.DefaultMode = d.DefaultMode
	}
	if c.ImportPolicy == "" {
		c.ImportPolicy = d.ImportPolicy
	}
}

// Save writes cfg to path, creating the parent directory
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Validate checks every field
func (c Config) Validate() error {
	if postgres.IsConnString(c.Store) {
		if err := postgres.ValidateConnString(c.Store); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("store: %w; keep the password in %s or the OS keyring", err, constants.ConnectionEnvVar)
			}
			return fmt.Errorf("store: %w", err)
		}
	}
	if !dates.ValidateTimezone(c.Timezone) {
		return fmt.Errorf("timezone: unknown zone %q", c.Timezone)
	}
	if !models.ValidCalendarMode(constants.CalendarMode(c.DefaultMode)) {
		return fmt.Errorf("default_mode: %q (expected year, range or custom)", c.DefaultMode)
	}
	if _, err := merge.ParsePolicy(c.ImportPolicy); err != nil {
		return fmt.Errorf("import_policy: %w", err)
	}
	return nil
}

// Policy returns the configured import policy
func (c Config) Policy() merge.Policy {
	p, err := merge.ParsePolicy(c.ImportPolicy)
	if err != nil {
		return merge.PolicyMerge
	}
	return p
}

// Keys lists the setting names in display order
func Keys() []string {
	keys := []string{
		constants.SettingStore,
		constants.SettingTimezone,
		constants.SettingDefaultMode,
		constants.SettingImportPolicy,
		constants.SettingDebug,
	}
	sort.Strings(keys)
	return keys
}

// Get returns a setting as text
func (c Config) Get(key string) (string, error) {
	switch key {
	case constants.SettingStore:
		return c.Store, nil
	case constants.SettingTimezone:
		return c.Timezone, nil
	case constants.SettingDefaultMode:
		return c.DefaultMode, nil
	case constants.SettingImportPolicy:
		return c.ImportPolicy, nil
	case constants.SettingDebug:
		return strconv.FormatBool(c.Debug), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownSetting, key)
}

// Set parses value into the named setting. The receiver is left untouched
// when the new value does not validate.
func (c *Config) Set(key, value string) error {
	next := *c
	value = strings.TrimSpace(value)
	switch key {
	case constants.SettingStore:
		next.Store = value
	case constants.SettingTimezone:
		next.Timezone = value
	case constants.SettingDefaultMode:
		next.DefaultMode = strings.ToLower(value)
	case constants.SettingImportPolicy:
		next.ImportPolicy = strings.ToLower(value)
	case constants.SettingDebug:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug: %q is not a boolean", value)
		}
		next.Debug = b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}
	next.fillDefaults()
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
