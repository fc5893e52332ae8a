package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/todo-app/internal/model"
)

// SQLiteStore implements the Store interface against a SQLite database,
// scoping every row to its owning user.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dsn, enables WAL
// mode, and runs any pending schema migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection keeps writes serialized and makes :memory:
	// databases behave under the database/sql pool.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// GetUserData retrieves the user's complete state: todos ordered by
// position (creation time descending as tie-break) with their tag ids
// resolved through the join table, plus categories, tags, and the
// migration flag.
func (s *SQLiteStore) GetUserData(ctx context.Context, userID string) (model.UserData, error) {
	if err := s.EnsureUser(ctx, userID); err != nil {
		return model.UserData{}, err
	}

	var migratedInt int
	err := s.db.GetContext(ctx, &migratedInt,
		"SELECT migrated FROM users WHERE id = ?", userID)
	if err != nil {
		return model.UserData{}, fmt.Errorf("reading migration flag for user %s: %w", userID, err)
	}

	todos, err := s.getTodos(ctx, userID)
	if err != nil {
		return model.UserData{}, err
	}

	categories, err := s.getCategories(ctx, userID)
	if err != nil {
		return model.UserData{}, err
	}

	tags, err := s.getTags(ctx, userID)
	if err != nil {
		return model.UserData{}, err
	}

	return model.UserData{
		Todos:      todos,
		Categories: categories,
		Tags:       tags,
		Migrated:   migratedInt != 0,
	}, nil
}

// getTodos retrieves the user's todos in display order, tags included.
func (s *SQLiteStore) getTodos(ctx context.Context, userID string) ([]model.Todo, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, title, completed, category_id, position, created_at, updated_at
		FROM todos WHERE user_id = ?
		ORDER BY position ASC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying todos for user %s: %w", userID, err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range todos {
		tagIDs, err := s.tagIDsForTodo(ctx, userID, todos[i].ID)
		if err != nil {
			return nil, err
		}
		todos[i].Tags = tagIDs
	}

	return todos, nil
}

// getTodo retrieves a single todo owned by the user, tags included.
// Returns (nil, nil) when no such todo exists.
func (s *SQLiteStore) getTodo(ctx context.Context, userID, todoID string) (*model.Todo, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, title, completed, category_id, position, created_at, updated_at
		FROM todos WHERE user_id = ? AND id = ?`, userID, todoID)
	if err != nil {
		return nil, fmt.Errorf("querying todo %s: %w", todoID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	todo, err := scanTodo(rows)
	if err != nil {
		return nil, err
	}

	tagIDs, err := s.tagIDsForTodo(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}
	todo.Tags = tagIDs

	return &todo, nil
}

// tagIDsForTodo resolves a todo's tag ids through the join table. Todo
// ids are only unique per user, so the lookup is owner-scoped.
func (s *SQLiteStore) tagIDsForTodo(ctx context.Context, userID, todoID string) ([]string, error) {
	tagIDs := []string{}
	err := s.db.SelectContext(ctx, &tagIDs,
		"SELECT tag_id FROM todo_tags WHERE user_id = ? AND todo_id = ?", userID, todoID)
	if err != nil {
		return nil, fmt.Errorf("loading tags for todo %s: %w", todoID, err)
	}
	return tagIDs, nil
}

// scanTodo scans a todo row from sqlx.Rows.
func scanTodo(rows *sqlx.Rows) (model.Todo, error) {
	var (
		todo         model.Todo
		completedInt int
		categoryID   *string
		createdAt    time.Time
		updatedAt    time.Time
	)

	err := rows.Scan(
		&todo.ID, &todo.Title, &completedInt, &categoryID,
		&todo.Position, &createdAt, &updatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("scanning todo row: %w", err)
	}

	todo.Completed = completedInt != 0
	todo.CategoryID = categoryID
	todo.CreatedAt = createdAt
	todo.UpdatedAt = updatedAt

	return todo, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
