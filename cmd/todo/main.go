// Package main implements the todo CLI tool.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-app/internal/credential"
	"github.com/nhle/todo-app/internal/engine"
	"github.com/nhle/todo-app/internal/model"
	"github.com/nhle/todo-app/internal/store"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	flagConfig string
	flagUser   string
)

var rootCmd = &cobra.Command{
	Use:           "todo",
	Short:         "todo - personal task tracking",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "",
		"config file (default ~/.config/todo/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "",
		"owner id for the database backend")

	rootCmd.AddCommand(
		addCmd, listCmd, toggleCmd, updateCmd, rmCmd, reorderCmd,
		categoryCmd, tagCmd, migrateCmd, authCmd, configCmd,
	)
}

func configPath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return model.DefaultConfigPath()
}

func loadAppConfig() (*model.AppConfig, error) {
	return model.LoadConfig(configPath())
}

// userID resolves the data owner: --user flag, then config, then "local".
func userID(cfg *model.AppConfig) string {
	if flagUser != "" {
		return flagUser
	}
	if cfg.User.ID != "" {
		return cfg.User.ID
	}
	return "local"
}

// openStore selects the persistence backend from configuration.
func openStore(cfg *model.AppConfig) (store.Store, error) {
	switch cfg.Storage.Backend {
	case model.BackendDatabase:
		return openDatabaseStore(cfg)
	case model.BackendLocal, "":
		path := cfg.Storage.Path
		if path == "" {
			path = model.DefaultSnapshotPath()
		}
		return store.NewLocalStore(path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// openDatabaseStore connects to the configured database. A missing URL is
// fatal: the database backend has no runtime fallback.
func openDatabaseStore(cfg *model.AppConfig) (store.Store, error) {
	dsn := cfg.Database.URL
	if dsn == "" {
		return nil, fmt.Errorf("database.url is not set (set it in %s or via TODO_DATABASE_URL)", configPath())
	}

	// Attach the stored auth token for URL-style DSNs. Plain file paths
	// carry no credentials.
	if strings.Contains(dsn, "://") {
		if token, err := credential.DatabaseToken(); err == nil && token != "" {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "authToken=" + token
		}
	}

	return store.NewSQLiteStore(dsn)
}

// openEngine wires the configured store into an engine. The caller must
// Close the returned store.
func openEngine() (*engine.Engine, store.Store, string, error) {
	cfg, err := loadAppConfig()
	if err != nil {
		return nil, nil, "", err
	}
	s, err := openStore(cfg)
	if err != nil {
		return nil, nil, "", err
	}
	return engine.New(s), s, userID(cfg), nil
}
