// Package engine is the uniform mutation surface for todo state. It
// validates caller input, derives computed fields (ids, timestamps), and
// delegates persistence to whichever store adapter is configured. Any
// reference that would dangle (an unknown category or tag id) is
// auto-corrected rather than stored or rejected.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/todo-app/internal/model"
	"github.com/nhle/todo-app/internal/store"
)

// Engine applies todo, category, and tag operations to a Store.
type Engine struct {
	store store.Store
	now   func() time.Time
}

// New creates an Engine on top of the given store.
func New(s store.Store) *Engine {
	return &Engine{store: s, now: time.Now}
}

// Data returns the owner's complete state.
func (e *Engine) Data(ctx context.Context, userID string) (model.UserData, error) {
	return e.store.GetUserData(ctx, userID)
}

// AddTodo creates a todo from caller input. The category and tag ids are
// checked against the owner's current collections: an unknown category
// becomes none, unknown tags are dropped, and duplicate tags are removed
// while preserving order.
func (e *Engine) AddTodo(ctx context.Context, userID, title string, categoryID *string, tagIDs []string) (model.Todo, error) {
	if strings.TrimSpace(title) == "" {
		return model.Todo{}, fmt.Errorf("todo title must not be empty")
	}

	data, err := e.store.GetUserData(ctx, userID)
	if err != nil {
		return model.Todo{}, err
	}

	now := e.now().UTC()
	todo := model.Todo{
		ID:         uuid.New().String(),
		Title:      title,
		Completed:  false,
		CategoryID: validCategory(data, categoryID),
		Tags:       validTags(data, tagIDs),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	return e.store.AddTodo(ctx, userID, todo)
}

// UpdateTodo applies a partial update, sanitizing any supplied category or
// tag references the same way AddTodo does. Returns (nil, nil) when the
// todo does not exist for this owner.
func (e *Engine) UpdateTodo(ctx context.Context, userID, todoID string, upd store.TodoUpdate) (*model.Todo, error) {
	if upd.SetCategory || upd.SetTags {
		data, err := e.store.GetUserData(ctx, userID)
		if err != nil {
			return nil, err
		}
		if upd.SetCategory {
			upd.CategoryID = validCategory(data, upd.CategoryID)
		}
		if upd.SetTags {
			upd.Tags = validTags(data, upd.Tags)
		}
	}

	return e.store.UpdateTodo(ctx, userID, todoID, upd)
}

// ToggleTodo flips the todo's completed flag, refreshing its updated
// timestamp. A composition of read and update, not a store primitive.
func (e *Engine) ToggleTodo(ctx context.Context, userID, todoID string) (*model.Todo, error) {
	data, err := e.store.GetUserData(ctx, userID)
	if err != nil {
		return nil, err
	}
	todo := data.TodoByID(todoID)
	if todo == nil {
		return nil, nil
	}

	completed := !todo.Completed
	return e.store.UpdateTodo(ctx, userID, todoID, store.TodoUpdate{Completed: &completed})
}

// DeleteTodo removes a todo. Returns true iff it existed.
func (e *Engine) DeleteTodo(ctx context.Context, userID, todoID string) (bool, error) {
	return e.store.DeleteTodo(ctx, userID, todoID)
}

// ReorderTodos moves the todo at fromIndex to toIndex and returns the
// todos in their new order.
func (e *Engine) ReorderTodos(ctx context.Context, userID string, fromIndex, toIndex int) ([]model.Todo, error) {
	return e.store.ReorderTodos(ctx, userID, fromIndex, toIndex)
}

// AddCategory creates a category with a generated id.
func (e *Engine) AddCategory(ctx context.Context, userID, name, icon, color string) (model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return model.Category{}, fmt.Errorf("category name must not be empty")
	}
	return e.store.AddCategory(ctx, userID, model.Category{
		ID:    uuid.New().String(),
		Name:  name,
		Icon:  icon,
		Color: color,
	})
}

// DeleteCategory removes a category, detaching any todos that reference
// it. Returns true iff it existed.
func (e *Engine) DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	return e.store.DeleteCategory(ctx, userID, categoryID)
}

// AddTag creates a tag with a generated id.
func (e *Engine) AddTag(ctx context.Context, userID, name, color string) (model.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return model.Tag{}, fmt.Errorf("tag name must not be empty")
	}
	return e.store.AddTag(ctx, userID, model.Tag{
		ID:    uuid.New().String(),
		Name:  name,
		Color: color,
	})
}

// DeleteTag removes a tag, detaching it from every todo. Returns true iff
// it existed.
func (e *Engine) DeleteTag(ctx context.Context, userID, tagID string) (bool, error) {
	return e.store.DeleteTag(ctx, userID, tagID)
}

// TodosByCategory returns the owner's todos in a category, or the
// uncategorized todos when categoryID is nil.
func (e *Engine) TodosByCategory(ctx context.Context, userID string, categoryID *string) ([]model.Todo, error) {
	data, err := e.store.GetUserData(ctx, userID)
	if err != nil {
		return nil, err
	}

	todos := []model.Todo{}
	for _, todo := range data.Todos {
		switch {
		case categoryID == nil && todo.CategoryID == nil:
			todos = append(todos, todo)
		case categoryID != nil && todo.CategoryID != nil && *todo.CategoryID == *categoryID:
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

// TodosByTag returns the owner's todos carrying the given tag.
func (e *Engine) TodosByTag(ctx context.Context, userID, tagID string) ([]model.Todo, error) {
	data, err := e.store.GetUserData(ctx, userID)
	if err != nil {
		return nil, err
	}

	todos := []model.Todo{}
	for _, todo := range data.Todos {
		if todo.HasTag(tagID) {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

// validCategory returns categoryID if it references an existing category,
// nil otherwise.
func validCategory(data model.UserData, categoryID *string) *string {
	if categoryID == nil || data.CategoryByID(*categoryID) == nil {
		return nil
	}
	return categoryID
}

// validTags returns tagIDs with duplicates and unknown ids removed,
// preserving order.
func validTags(data model.UserData, tagIDs []string) []string {
	seen := make(map[string]bool, len(tagIDs))
	tags := []string{}
	for _, id := range tagIDs {
		if seen[id] || data.TagByID(id) == nil {
			continue
		}
		seen[id] = true
		tags = append(tags, id)
	}
	return tags
}
