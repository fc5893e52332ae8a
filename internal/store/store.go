package store

import (
	"context"

	"github.com/nhle/todo-app/internal/model"
)

// TodoUpdate is a partial update applied to a todo. Nil/unset fields are
// left unchanged. SetCategory and SetTags distinguish "change this field"
// (possibly to none/empty) from "leave it alone". When SetTags is true the
// todo's tag links are replaced wholesale with Tags, not merged.
type TodoUpdate struct {
	Title     *string
	Completed *bool

	SetCategory bool
	CategoryID  *string

	SetTags bool
	Tags    []string
}

// Store is the uniform persistence surface shared by the local snapshot
// adapter and the database adapter. The local adapter holds a single
// owner's data and ignores userID; the database adapter scopes every
// operation to userID and lazily creates unknown users with seeded
// defaults.
//
// Not-found results are reported in-band: UpdateTodo returns (nil, nil)
// and the Delete* methods return (false, nil). Errors are reserved for
// storage failures and invalid arguments (e.g. reorder indices out of
// range).
type Store interface {
	// EnsureUser guarantees the owner exists, creating it with default
	// categories and tags when absent. Idempotent.
	EnsureUser(ctx context.Context, userID string) error

	// GetUserData returns the owner's complete state. Todos are ordered by
	// position ascending, breaking ties by creation time descending.
	GetUserData(ctx context.Context, userID string) (model.UserData, error)

	// AddTodo persists a new todo and returns it as stored. The database
	// adapter appends it at position max+1.
	AddTodo(ctx context.Context, userID string, todo model.Todo) (model.Todo, error)

	// UpdateTodo applies a partial update and returns the resulting todo,
	// or (nil, nil) if no todo with that id belongs to the owner. UpdatedAt
	// is refreshed on every successful update.
	UpdateTodo(ctx context.Context, userID, todoID string, upd TodoUpdate) (*model.Todo, error)

	// DeleteTodo removes a todo and its tag links. Returns true iff a todo
	// was actually removed.
	DeleteTodo(ctx context.Context, userID, todoID string) (bool, error)

	// ReorderTodos moves the todo at fromIndex to toIndex (list splice
	// semantics) and renumbers all positions to a dense zero-based
	// sequence. Indices outside [0, len) are rejected with an error.
	ReorderTodos(ctx context.Context, userID string, fromIndex, toIndex int) ([]model.Todo, error)

	// AddCategory persists a new category.
	AddCategory(ctx context.Context, userID string, category model.Category) (model.Category, error)

	// DeleteCategory removes a category, detaching (never deleting) any
	// todos that reference it. Returns true iff a category was removed.
	DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error)

	// AddTag persists a new tag.
	AddTag(ctx context.Context, userID string, tag model.Tag) (model.Tag, error)

	// DeleteTag removes a tag and detaches it from every todo. Returns
	// true iff a tag was removed.
	DeleteTag(ctx context.Context, userID, tagID string) (bool, error)

	// HasMigrated reports whether the one-time snapshot import has run for
	// this owner.
	HasMigrated(ctx context.Context, userID string) (bool, error)

	// SetMigrated marks the owner as migrated. Idempotent; never unset.
	SetMigrated(ctx context.Context, userID string) error

	// ImportSnapshot replaces the owner's entire state with the given
	// snapshot, assigning todo positions from slice order, and marks the
	// owner migrated. Callers gate on HasMigrated; a second call wipes and
	// replaces again.
	ImportSnapshot(ctx context.Context, userID string, snap model.Snapshot) (model.UserData, error)

	// Close releases any underlying resources.
	Close() error
}
