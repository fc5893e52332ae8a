package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nhle/todo-app/internal/model"
)

// AddTag inserts a new tag. Generates a UUID if ID is empty.
func (s *SQLiteStore) AddTag(ctx context.Context, userID string, tag model.Tag) (model.Tag, error) {
	if strings.TrimSpace(tag.Name) == "" {
		return model.Tag{}, fmt.Errorf("tag name must not be empty")
	}
	if err := s.EnsureUser(ctx, userID); err != nil {
		return model.Tag{}, err
	}

	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO tags (user_id, id, name, color) VALUES (?, ?, ?, ?)",
		userID, tag.ID, tag.Name, tag.Color)
	if err != nil {
		return model.Tag{}, fmt.Errorf("creating tag: %w", err)
	}

	return tag, nil
}

// DeleteTag removes a tag, first removing its links from every todo the
// user owns. Todos themselves are untouched. Returns true iff a tag row
// was removed.
func (s *SQLiteStore) DeleteTag(ctx context.Context, userID, tagID string) (bool, error) {
	if err := s.EnsureUser(ctx, userID); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		"DELETE FROM tags WHERE user_id = ? AND id = ?", userID, tagID)
	if err != nil {
		return false, fmt.Errorf("deleting tag %s: %w", tagID, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM todo_tags WHERE user_id = ? AND tag_id = ?",
		userID, tagID); err != nil {
		return false, fmt.Errorf("unlinking tag %s: %w", tagID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing tag delete: %w", err)
	}
	return true, nil
}

// getTags retrieves all of the user's tags.
func (s *SQLiteStore) getTags(ctx context.Context, userID string) ([]model.Tag, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT id, name, color FROM tags WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("querying tags for user %s: %w", userID, err)
	}
	defer rows.Close()

	tags := []model.Tag{}
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
