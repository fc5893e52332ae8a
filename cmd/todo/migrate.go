package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-app/internal/migrate"
	"github.com/nhle/todo-app/internal/model"
	"github.com/nhle/todo-app/internal/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import the local snapshot into the database backend, once",
	Long: `Import the local snapshot into the database backend.

Reads the local snapshot file and transfers its todos, categories, and
tags to the configured database, replacing whatever the database holds
for this user. Runs at most once per user; a user whose migration has
already completed is left untouched.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	snapPath := cfg.Storage.Path
	if snapPath == "" {
		snapPath = model.DefaultSnapshotPath()
	}
	local := store.NewLocalStore(snapPath)
	snap := local.Snapshot()

	remote, err := openDatabaseStore(cfg)
	if err != nil {
		return err
	}
	defer remote.Close()

	user := userID(cfg)
	data, err := migrate.New(remote).Run(cmd.Context(), user, snap)
	if errors.Is(err, migrate.ErrAlreadyMigrated) {
		fmt.Printf("user %s already migrated; nothing to do\n", user)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("migrated %d todos, %d categories, %d tags for user %s\n",
		len(data.Todos), len(data.Categories), len(data.Tags), user)
	return nil
}
