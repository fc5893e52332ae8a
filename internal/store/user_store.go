package store

import (
	"context"
	"fmt"

	"github.com/nhle/todo-app/internal/model"
)

// EnsureUser creates the user row with default categories and tags if it
// does not exist yet. Idempotent; called internally by every operation
// that touches user-scoped rows.
func (s *SQLiteStore) EnsureUser(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id must not be empty")
	}

	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM users WHERE id = ?", userID)
	if err != nil {
		return fmt.Errorf("checking user %s: %w", userID, err)
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO users (id, migrated) VALUES (?, 0)", userID); err != nil {
		return fmt.Errorf("creating user %s: %w", userID, err)
	}

	for _, cat := range model.DefaultCategories() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories (user_id, id, name, icon, color)
			VALUES (?, ?, ?, ?, ?)`,
			userID, cat.ID, cat.Name, cat.Icon, cat.Color); err != nil {
			return fmt.Errorf("seeding category %s for user %s: %w", cat.ID, userID, err)
		}
	}

	for _, tag := range model.DefaultTags() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO tags (user_id, id, name, color)
			VALUES (?, ?, ?, ?)`,
			userID, tag.ID, tag.Name, tag.Color); err != nil {
			return fmt.Errorf("seeding tag %s for user %s: %w", tag.ID, userID, err)
		}
	}

	return tx.Commit()
}

// HasMigrated reports whether the user's local snapshot import has run.
func (s *SQLiteStore) HasMigrated(ctx context.Context, userID string) (bool, error) {
	if err := s.EnsureUser(ctx, userID); err != nil {
		return false, err
	}

	var migratedInt int
	err := s.db.GetContext(ctx, &migratedInt,
		"SELECT migrated FROM users WHERE id = ?", userID)
	if err != nil {
		return false, fmt.Errorf("reading migration flag for user %s: %w", userID, err)
	}
	return migratedInt != 0, nil
}

// SetMigrated marks the user as migrated. Setting an already-set flag is
// a no-op in effect; the flag is never reset.
func (s *SQLiteStore) SetMigrated(ctx context.Context, userID string) error {
	if err := s.EnsureUser(ctx, userID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET migrated = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		userID)
	if err != nil {
		return fmt.Errorf("marking user %s migrated: %w", userID, err)
	}
	return nil
}
