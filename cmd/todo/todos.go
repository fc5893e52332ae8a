package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nhle/todo-app/internal/store"
)

// todo add
var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var (
	addCategory string
	addTags     []string
)

func init() {
	addCmd.Flags().StringVar(&addCategory, "category", "", "category id")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "tag id (repeatable)")
}

func runAdd(cmd *cobra.Command, args []string) error {
	e, s, user, err := openEngine()
	if err != nil {
		return err
	}
	defer s.Close()

	var categoryID *string
	if addCategory != "" {
		categoryID = &addCategory
	}

	todo, err := e.AddTodo(cmd.Context(), user, args[0], categoryID, addTags)
	if err != nil {
		return err
	}

	fmt.Printf("added %s\n", todo.ID)
	return nil
}

// todo list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List todos in display order",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
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
	fmt.Fprintln(w, "#\tDONE\tID\tTITLE\tCATEGORY\tTAGS")
	for i, todo := range data.Todos {
		done := " "
		if todo.Completed {
			done = "x"
		}

		category := ""
		if todo.CategoryID != nil {
			if c := data.CategoryByID(*todo.CategoryID); c != nil {
				category = c.Name
			}
		}

		tags := ""
		for _, tagID := range todo.Tags {
			if t := data.TagByID(tagID); t != nil {
				if tags != "" {
					tags += ","
				}
				tags += t.Name
			}
		}

		fmt.Fprintf(w, "%d\t[%s]\t%s\t%s\t%s\t%s\n",
			i, done, todo.ID, todo.Title, category, tags)
	}
	return w.Flush()
}

// todo toggle
var toggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip a todo's completed state",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

func runToggle(cmd *cobra.Command, args []string) error {
	e, s, user, err := openEngine()
	if err != nil {
		return err
	}
	defer s.Close()

	todo, err := e.ToggleTodo(cmd.Context(), user, args[0])
	if err != nil {
		return err
	}
	if todo == nil {
		return fmt.Errorf("todo %s not found", args[0])
	}

	state := "open"
	if todo.Completed {
		state = "done"
	}
	fmt.Printf("%s is now %s\n", todo.ID, state)
	return nil
}

// todo update
var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a todo's title, category, or tags",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var (
	updateTitle         string
	updateCategory      string
	updateClearCategory bool
	updateTags          []string
	updateClearTags     bool
)

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVar(&updateCategory, "category", "", "new category id")
	updateCmd.Flags().BoolVar(&updateClearCategory, "clear-category", false, "detach the category")
	updateCmd.Flags().StringSliceVar(&updateTags, "tag", nil, "replace tags with these ids (repeatable)")
	updateCmd.Flags().BoolVar(&updateClearTags, "clear-tags", false, "remove all tags")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	e, s, user, err := openEngine()
	if err != nil {
		return err
	}
	defer s.Close()

	var upd store.TodoUpdate
	if cmd.Flags().Changed("title") {
		upd.Title = &updateTitle
	}
	if updateClearCategory {
		upd.SetCategory = true
	} else if cmd.Flags().Changed("category") {
		upd.SetCategory = true
		upd.CategoryID = &updateCategory
	}
	if updateClearTags {
		upd.SetTags = true
		upd.Tags = []string{}
	} else if cmd.Flags().Changed("tag") {
		upd.SetTags = true
		upd.Tags = updateTags
	}

	todo, err := e.UpdateTodo(cmd.Context(), user, args[0], upd)
	if err != nil {
		return err
	}
	if todo == nil {
		return fmt.Errorf("todo %s not found", args[0])
	}

	fmt.Printf("updated %s\n", todo.ID)
	return nil
}

// todo rm
var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a todo",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func runRm(cmd *cobra.Command, args []string) error {
	e, s, user, err := openEngine()
	if err != nil {
		return err
	}
	defer s.Close()

	deleted, err := e.DeleteTodo(cmd.Context(), user, args[0])
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("todo %s not found", args[0])
	}

	fmt.Printf("deleted %s\n", args[0])
	return nil
}

// todo reorder
var reorderCmd = &cobra.Command{
	Use:   "reorder <from> <to>",
	Short: "Move a todo from one list position to another",
	Args:  cobra.ExactArgs(2),
	RunE:  runReorder,
}

func runReorder(cmd *cobra.Command, args []string) error {
	from, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid from index %q", args[0])
	}
	to, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid to index %q", args[1])
	}

	e, s, user, err := openEngine()
	if err != nil {
		return err
	}
	defer s.Close()

	todos, err := e.ReorderTodos(cmd.Context(), user, from, to)
	if err != nil {
		return err
	}

	for i, todo := range todos {
		fmt.Printf("%d %s\n", i, todo.Title)
	}
	return nil
}
