package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/todo-app/internal/model"
)

// AddTodo inserts a new todo at the end of the user's order (position
// max+1) and links its tags. Generates a UUID if ID is empty.
func (s *SQLiteStore) AddTodo(ctx context.Context, userID string, todo model.Todo) (model.Todo, error) {
	if strings.TrimSpace(todo.Title) == "" {
		return model.Todo{}, fmt.Errorf("todo title must not be empty")
	}
	if err := s.EnsureUser(ctx, userID); err != nil {
		return model.Todo{}, err
	}

	if todo.ID == "" {
		todo.ID = uuid.New().String()
	}
	if todo.CreatedAt.IsZero() {
		now := time.Now().UTC()
		todo.CreatedAt = now
		todo.UpdatedAt = now
	}
	if todo.Tags == nil {
		todo.Tags = []string{}
	}

	var nextPos int
	err := s.db.GetContext(ctx, &nextPos,
		"SELECT COALESCE(MAX(position), -1) + 1 FROM todos WHERE user_id = ?", userID)
	if err != nil {
		return model.Todo{}, fmt.Errorf("getting next position: %w", err)
	}
	todo.Position = nextPos

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO todos (user_id, id, title, completed, category_id, position, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, todo.ID, todo.Title, boolToInt(todo.Completed),
		todo.CategoryID, todo.Position, todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		return model.Todo{}, fmt.Errorf("creating todo: %w", err)
	}

	for _, tagID := range todo.Tags {
		if _, err := s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO todo_tags (user_id, todo_id, tag_id) VALUES (?, ?, ?)",
			userID, todo.ID, tagID); err != nil {
			return model.Todo{}, fmt.Errorf("linking tag %s to todo %s: %w", tagID, todo.ID, err)
		}
	}

	return todo, nil
}

// UpdateTodo applies only the supplied fields, always refreshing
// updated_at. A supplied tag set replaces the entire link set. Returns
// (nil, nil) when the todo does not belong to the user.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, userID, todoID string, upd TodoUpdate) (*model.Todo, error) {
	if err := s.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}

	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM todos WHERE user_id = ? AND id = ?", userID, todoID)
	if err != nil {
		return nil, fmt.Errorf("checking todo %s: %w", todoID, err)
	}
	if count == 0 {
		return nil, nil
	}

	setClauses := []string{"updated_at = ?"}
	args := []interface{}{time.Now().UTC()}

	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return nil, fmt.Errorf("todo title must not be empty")
		}
		setClauses = append(setClauses, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Completed != nil {
		setClauses = append(setClauses, "completed = ?")
		args = append(args, boolToInt(*upd.Completed))
	}
	if upd.SetCategory {
		setClauses = append(setClauses, "category_id = ?")
		args = append(args, upd.CategoryID)
	}

	args = append(args, userID, todoID)
	query := "UPDATE todos SET " + strings.Join(setClauses, ", ") +
		" WHERE user_id = ? AND id = ?"
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("updating todo %s: %w", todoID, err)
	}

	if upd.SetTags {
		if err := s.setTodoTags(ctx, userID, todoID, upd.Tags); err != nil {
			return nil, err
		}
	}

	return s.getTodo(ctx, userID, todoID)
}

// setTodoTags replaces all tag links for a todo (delete-all-then-insert).
func (s *SQLiteStore) setTodoTags(ctx context.Context, userID, todoID string, tagIDs []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM todo_tags WHERE user_id = ? AND todo_id = ?", userID, todoID); err != nil {
		return fmt.Errorf("clearing tags for todo %s: %w", todoID, err)
	}

	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO todo_tags (user_id, todo_id, tag_id) VALUES (?, ?, ?)",
			userID, todoID, tagID); err != nil {
			return fmt.Errorf("linking tag %s to todo %s: %w", tagID, todoID, err)
		}
	}

	return tx.Commit()
}

// DeleteTodo removes a todo and its tag links. Scoped to the owning user,
// so cross-user deletion is impossible. Returns true iff a row was removed.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, userID, todoID string) (bool, error) {
	if err := s.EnsureUser(ctx, userID); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM todos WHERE user_id = ? AND id = ?", userID, todoID)
	if err != nil {
		return false, fmt.Errorf("deleting todo %s: %w", todoID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM todo_tags WHERE user_id = ? AND todo_id = ?", userID, todoID); err != nil {
		return false, fmt.Errorf("unlinking tags for todo %s: %w", todoID, err)
	}

	// Renumber the remaining todos so positions stay a dense zero-based
	// sequence.
	ids := []string{}
	if err := tx.SelectContext(ctx, &ids, `
		SELECT id FROM todos WHERE user_id = ?
		ORDER BY position ASC, created_at DESC`, userID); err != nil {
		return false, fmt.Errorf("querying todo order for user %s: %w", userID, err)
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"UPDATE todos SET position = ? WHERE user_id = ? AND id = ?",
			i, userID, id); err != nil {
			return false, fmt.Errorf("renumbering todo %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing todo delete: %w", err)
	}
	return true, nil
}

// ReorderTodos moves the todo at fromIndex to toIndex in the user's
// position order, then rewrites every position to its new zero-based
// index. The full renumbering keeps positions a dense permutation even
// after repeated reorders.
func (s *SQLiteStore) ReorderTodos(ctx context.Context, userID string, fromIndex, toIndex int) ([]model.Todo, error) {
	if err := s.EnsureUser(ctx, userID); err != nil {
		return nil, err
	}

	ids := []string{}
	err := s.db.SelectContext(ctx, &ids, `
		SELECT id FROM todos WHERE user_id = ?
		ORDER BY position ASC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying todo order for user %s: %w", userID, err)
	}

	n := len(ids)
	if fromIndex < 0 || fromIndex >= n {
		return nil, fmt.Errorf("reorder fromIndex %d out of range [0, %d)", fromIndex, n)
	}
	if toIndex < 0 || toIndex >= n {
		return nil, fmt.Errorf("reorder toIndex %d out of range [0, %d)", toIndex, n)
	}

	moved := ids[fromIndex]
	ids = append(ids[:fromIndex], ids[fromIndex+1:]...)
	ids = append(ids[:toIndex], append([]string{moved}, ids[toIndex:]...)...)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"UPDATE todos SET position = ? WHERE user_id = ? AND id = ?",
			i, userID, id); err != nil {
			return nil, fmt.Errorf("renumbering todo %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing reorder: %w", err)
	}

	return s.getTodos(ctx, userID)
}
