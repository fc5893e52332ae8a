package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage tags",
}

// tag add
var tagAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a tag",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagAdd,
}

var tagAddColor string

// tag rm
var tagRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a tag, detaching it from todos",
	Args:  cobra.ExactArgs(1),
	RunE:  runTagRm,
}

// tag ls
var tagLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List tags",
	Args:  cobra.NoArgs,
	RunE:  runTagLs,
}

func init() {
	tagAddCmd.Flags().StringVar(&tagAddColor, "color", "", "hex color")
	tagCmd.AddCommand(tagAddCmd, tagRmCmd, tagLsCmd)
}

func runTagAdd(cmd *cobra.Command, args []string) error {
	e, s, user, err := openEngine()
	if err != nil {
		return err
	}
	defer s.Close()

	tag, err := e.AddTag(cmd.Context(), user, args[0], tagAddColor)
	if err != nil {
		return err
	}

	fmt.Printf("added tag %s\n", tag.ID)
	return nil
}

func runTagRm(cmd *cobra.Command, args []string) error {
	e, s, user, err := openEngine()
	if err != nil {
		return err
	}
	defer s.Close()

	deleted, err := e.DeleteTag(cmd.Context(), user, args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("tag %s not found", args[0])
	}

	fmt.Printf("deleted tag %s\n", args[0])
	return nil
}

func runTagLs(cmd *cobra.Command, args []string) error {
	e, s, user, err := openEngine()
	if err != nil {
		return err
	}
	defer s.Close()

	data, err := e.Data(cmd.Context(), user)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR")
	for _, t := range data.Tags {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, t.Color)
	}
	return w.Flush()
}
