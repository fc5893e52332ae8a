package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-app/internal/credential"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the database auth token",
}

var authSetTokenCmd = &cobra.Command{
	Use:   "set-token <token>",
	Short: "Store the database auth token in the system keyring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credential.SetDatabaseToken(args[0]); err != nil {
			return err
		}
		fmt.Println("token stored")
		return nil
	},
}

var authClearTokenCmd = &cobra.Command{
	Use:   "clear-token",
	Short: "Remove the database auth token from the system keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := credential.ClearDatabaseToken(); err != nil {
			return err
		}
		fmt.Println("token removed")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authSetTokenCmd, authClearTokenCmd)
}
