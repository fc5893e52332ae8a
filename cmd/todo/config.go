package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-app/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}

	cfg := &model.AppConfig{
		Storage: model.StorageConfig{
			Backend: model.BackendLocal,
			Path:    model.DefaultSnapshotPath(),
		},
	}
	if err := model.SaveConfig(path, cfg); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", path)
	return nil
}
