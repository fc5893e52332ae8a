package store

import (
	"context"
	"fmt"
	"time"

	"github.com/nhle/todo-app/internal/model"
)

// ImportSnapshot replaces the user's entire state with the given local
// snapshot and marks the user migrated. Existing rows are wiped
// child-before-parent (tag links, todos, categories, tags), then the
// snapshot is inserted with todo positions assigned from slice order,
// re-establishing the dense zero-based ordering.
//
// This is not safely re-runnable with different data: a second call wipes
// and replaces again. Callers gate on HasMigrated.
func (s *SQLiteStore) ImportSnapshot(ctx context.Context, userID string, snap model.Snapshot) (model.UserData, error) {
	if err := s.EnsureUser(ctx, userID); err != nil {
		return model.UserData{}, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.UserData{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	wipes := []string{
		"DELETE FROM todo_tags WHERE user_id = ?",
		"DELETE FROM todos WHERE user_id = ?",
		"DELETE FROM categories WHERE user_id = ?",
		"DELETE FROM tags WHERE user_id = ?",
	}
	for _, q := range wipes {
		if _, err := tx.ExecContext(ctx, q, userID); err != nil {
			return model.UserData{}, fmt.Errorf("wiping existing data for user %s: %w", userID, err)
		}
	}

	for _, cat := range snap.Categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories (user_id, id, name, icon, color)
			VALUES (?, ?, ?, ?, ?)`,
			userID, cat.ID, cat.Name, cat.Icon, cat.Color); err != nil {
			return model.UserData{}, fmt.Errorf("importing category %s: %w", cat.ID, err)
		}
	}

	for _, tag := range snap.Tags {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO tags (user_id, id, name, color) VALUES (?, ?, ?, ?)",
			userID, tag.ID, tag.Name, tag.Color); err != nil {
			return model.UserData{}, fmt.Errorf("importing tag %s: %w", tag.ID, err)
		}
	}

	for i, todo := range snap.Todos {
		createdAt := todo.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		updatedAt := todo.UpdatedAt
		if updatedAt.Before(createdAt) {
			updatedAt = createdAt
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO todos (user_id, id, title, completed, category_id, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			userID, todo.ID, todo.Title, boolToInt(todo.Completed),
			todo.CategoryID, i, createdAt, updatedAt); err != nil {
			return model.UserData{}, fmt.Errorf("importing todo %s: %w", todo.ID, err)
		}

		for _, tagID := range todo.Tags {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO todo_tags (user_id, todo_id, tag_id) VALUES (?, ?, ?)",
				userID, todo.ID, tagID); err != nil {
				return model.UserData{}, fmt.Errorf("importing tag link %s on todo %s: %w", tagID, todo.ID, err)
			}
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE users SET migrated = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		userID); err != nil {
		return model.UserData{}, fmt.Errorf("marking user %s migrated: %w", userID, err)
	}

	if err := tx.Commit(); err != nil {
		return model.UserData{}, fmt.Errorf("committing import: %w", err)
	}

	return s.GetUserData(ctx, userID)
}
