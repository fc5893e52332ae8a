package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage categories",
}

// category add
var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryAdd,
}

var (
	categoryAddIcon  string
	categoryAddColor string
)

// category rm
var categoryRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a category, detaching its todos",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryRm,
}

// category ls
var categoryLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategoryLs,
}

func init() {
	categoryAddCmd.Flags().StringVar(&categoryAddIcon, "icon", "", "symbolic icon name")
	categoryAddCmd.Flags().StringVar(&categoryAddColor, "color", "", "hex color")
	categoryCmd.AddCommand(categoryAddCmd, categoryRmCmd, categoryLsCmd)
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	e, s, user, err := openEngine()
	if err != nil {
		return err
	}
	defer s.Close()

	category, err := e.AddCategory(cmd.Context(), user, args[0], categoryAddIcon, categoryAddColor)
	if err != nil {
		return err
	}

	fmt.Printf("added category %s\n", category.ID)
	return nil
}

func runCategoryRm(cmd *cobra.Command, args []string) error {
	e, s, user, err := openEngine()
	if err != nil {
		return err
	}
	defer s.Close()

	deleted, err := e.DeleteCategory(cmd.Context(), user, args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("category %s not found", args[0])
	}

	fmt.Printf("deleted category %s\n", args[0])
	return nil
}

func runCategoryLs(cmd *cobra.Command, args []string) error {
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
	fmt.Fprintln(w, "ID\tNAME\tICON\tCOLOR")
	for _, c := range data.Categories {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Icon, c.Color)
	}
	return w.Flush()
}
