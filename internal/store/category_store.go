package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/todo-app/internal/model"
)

// AddCategory inserts a new category. Generates a UUID if ID is empty.
func (s *SQLiteStore) AddCategory(ctx context.Context, userID string, category model.Category) (model.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return model.Category{}, fmt.Errorf("category name must not be empty")
	}
	if err := s.EnsureUser(ctx, userID); err != nil {
		return model.Category{}, err
	}

	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (user_id, id, name, icon, color)
		VALUES (?, ?, ?, ?, ?)`,
		userID, category.ID, category.Name, category.Icon, category.Color)
	if err != nil {
		return model.Category{}, fmt.Errorf("creating category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes a category, first detaching it from every todo
// that references it. Todos are never deleted. Returns true iff a
// category row was removed.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	if err := s.EnsureUser(ctx, userID); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM categories WHERE user_id = ? AND id = ?", userID, categoryID)
	if err != nil {
		return false, fmt.Errorf("deleting category %s: %w", categoryID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE todos SET category_id = NULL WHERE user_id = ? AND category_id = ?",
		userID, categoryID); err != nil {
		return false, fmt.Errorf("detaching category %s from todos: %w", categoryID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing category delete: %w", err)
	}
	return true, nil
}

// getCategories retrieves all of the user's categories.
func (s *SQLiteStore) getCategories(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, name, icon, color FROM categories WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("querying categories for user %s: %w", userID, err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon, &c.Color); err != nil {
			return nil, fmt.Errorf("scanning category row: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
