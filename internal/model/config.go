package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Storage backend names.
const (
	BackendLocal    = "local"
	BackendDatabase = "database"
)

// StorageConfig selects the persistence backend and, for the local
// backend, the snapshot file path.
type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// DatabaseConfig holds connection settings for the database backend.
// URL may also be supplied via the TODO_DATABASE_URL environment variable.
// The auth token, if any, lives in the system keyring, not here.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// UserConfig identifies the owner of the data in the database backend.
type UserConfig struct {
	ID string `mapstructure:"id" yaml:"id"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	User     UserConfig     `mapstructure:"user" yaml:"user"`
}

// DefaultConfigPath returns the default configuration file location,
// ~/.config/todo/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "todo", "config.yaml")
}

// DefaultSnapshotPath returns the default local snapshot file location,
// ~/.local/share/todo/todo-app.json.
func DefaultSnapshotPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "todo-app.json")
	}
	return filepath.Join(home, ".local", "share", "todo", "todo-app.json")
}

// defaultAppConfig returns the configuration used when no file exists:
// local snapshot storage, no database.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Storage: StorageConfig{
			Backend: BackendLocal,
			Path:    DefaultSnapshotPath(),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns the default configuration. The
// database URL can always be overridden through TODO_DATABASE_URL.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("storage.backend", BackendLocal)
	v.SetDefault("storage.path", DefaultSnapshotPath())
	if err := v.BindEnv("database.url", "TODO_DATABASE_URL"); err != nil {
		return nil, fmt.Errorf("binding database.url env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			cfg := defaultAppConfig()
			cfg.Database.URL = v.GetString("database.url")
			return cfg, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			cfg := defaultAppConfig()
			cfg.Database.URL = v.GetString("database.url")
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage", cfg.Storage)
	v.Set("database", cfg.Database)
	v.Set("user", cfg.User)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
