package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/todo-app/internal/model"
)

// LocalStore keeps the whole state as one JSON snapshot on disk. The
// in-memory snapshot is authoritative for the session: every mutation
// updates memory first and then persists best-effort, so a failing disk
// (quota, permissions) degrades durability but never the running state.
//
// The local store holds a single owner's data; the userID argument on
// every method is ignored.
type LocalStore struct {
	path string

	mu       sync.Mutex
	snap     model.Snapshot
	loaded   bool
	migrated bool
}

// NewLocalStore loads the snapshot at path. A missing or unparseable file
// is not an error: the store falls back to the seeded initial state
// (default categories and tags, no todos) and reports loaded.
func NewLocalStore(path string) *LocalStore {
	s := &LocalStore{path: path}
	s.load()
	return s
}

func (s *LocalStore) load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = model.NewSnapshot()
	data, err := os.ReadFile(s.path)
	if err == nil {
		var snap model.Snapshot
		if jsonErr := json.Unmarshal(data, &snap); jsonErr == nil {
			if snap.Todos == nil {
				snap.Todos = []model.Todo{}
			}
			s.snap = snap
		}
	}
	s.loaded = true
}

// save persists the current snapshot. Write failures are swallowed: the
// in-memory state remains authoritative for the rest of the session.
// Callers hold s.mu.
func (s *LocalStore) save() {
	data, err := json.MarshalIndent(s.snap, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o644)
}

// Loaded reports whether the initial read attempt has completed.
func (s *LocalStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Snapshot returns a copy of the current state, for callers (such as the
// migration coordinator) that need the raw snapshot.
func (s *LocalStore) Snapshot() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySnapshot(s.snap)
}

// EnsureUser is a no-op: the local snapshot has exactly one implicit owner.
func (s *LocalStore) EnsureUser(ctx context.Context, userID string) error {
	return nil
}

// GetUserData returns the snapshot in its stored order.
func (s *LocalStore) GetUserData(ctx context.Context, userID string) (model.UserData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := copySnapshot(s.snap)
	return model.UserData{
		Todos:      snap.Todos,
		Categories: snap.Categories,
		Tags:       snap.Tags,
		Migrated:   s.migrated,
	}, nil
}

// AddTodo prepends the new todo, so the most recent entry lists first.
func (s *LocalStore) AddTodo(ctx context.Context, userID string, todo model.Todo) (model.Todo, error) {
	if strings.TrimSpace(todo.Title) == "" {
		return model.Todo{}, fmt.Errorf("todo title must not be empty")
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

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Todos = append([]model.Todo{todo}, s.snap.Todos...)
	s.save()
	return todo, nil
}

// UpdateTodo applies the partial update in place and refreshes UpdatedAt.
func (s *LocalStore) UpdateTodo(ctx context.Context, userID, todoID string, upd TodoUpdate) (*model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap.Todos {
		if s.snap.Todos[i].ID != todoID {
			continue
		}

		todo := &s.snap.Todos[i]
		if upd.Title != nil {
			if strings.TrimSpace(*upd.Title) == "" {
				return nil, fmt.Errorf("todo title must not be empty")
			}
			todo.Title = *upd.Title
		}
		if upd.Completed != nil {
			todo.Completed = *upd.Completed
		}
		if upd.SetCategory {
			todo.CategoryID = upd.CategoryID
		}
		if upd.SetTags {
			todo.Tags = append([]string{}, upd.Tags...)
		}
		todo.UpdatedAt = time.Now().UTC()

		s.save()
		result := copyTodo(*todo)
		return &result, nil
	}

	return nil, nil
}

// DeleteTodo removes the todo with the given id.
func (s *LocalStore) DeleteTodo(ctx context.Context, userID, todoID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.snap.Todos {
		if s.snap.Todos[i].ID == todoID {
			s.snap.Todos = append(s.snap.Todos[:i], s.snap.Todos[i+1:]...)
			s.save()
			return true, nil
		}
	}
	return false, nil
}

// ReorderTodos moves the todo at fromIndex to toIndex.
func (s *LocalStore) ReorderTodos(ctx context.Context, userID string, fromIndex, toIndex int) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.snap.Todos)
	if fromIndex < 0 || fromIndex >= n {
		return nil, fmt.Errorf("reorder fromIndex %d out of range [0, %d)", fromIndex, n)
	}
	if toIndex < 0 || toIndex >= n {
		return nil, fmt.Errorf("reorder toIndex %d out of range [0, %d)", toIndex, n)
	}

	todos := s.snap.Todos
	moved := todos[fromIndex]
	todos = append(todos[:fromIndex], todos[fromIndex+1:]...)
	todos = append(todos[:toIndex], append([]model.Todo{moved}, todos[toIndex:]...)...)
	s.snap.Todos = todos

	s.save()
	return copyTodos(s.snap.Todos), nil
}

// AddCategory appends the new category.
func (s *LocalStore) AddCategory(ctx context.Context, userID string, category model.Category) (model.Category, error) {
	if strings.TrimSpace(category.Name) == "" {
		return model.Category{}, fmt.Errorf("category name must not be empty")
	}
	if category.ID == "" {
		category.ID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Categories = append(s.snap.Categories, category)
	s.save()
	return category, nil
}

// DeleteCategory removes the category and detaches it from every todo
// that references it. Todos are never deleted.
func (s *LocalStore) DeleteCategory(ctx context.Context, userID, categoryID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.snap.Categories {
		if s.snap.Categories[i].ID == categoryID {
			s.snap.Categories = append(s.snap.Categories[:i], s.snap.Categories[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	for i := range s.snap.Todos {
		if s.snap.Todos[i].CategoryID != nil && *s.snap.Todos[i].CategoryID == categoryID {
			s.snap.Todos[i].CategoryID = nil
		}
	}

	s.save()
	return true, nil
}

// AddTag appends the new tag.
func (s *LocalStore) AddTag(ctx context.Context, userID string, tag model.Tag) (model.Tag, error) {
	if strings.TrimSpace(tag.Name) == "" {
		return model.Tag{}, fmt.Errorf("tag name must not be empty")
	}
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Tags = append(s.snap.Tags, tag)
	s.save()
	return tag, nil
}

// DeleteTag removes the tag and strips it from every todo's tag set.
func (s *LocalStore) DeleteTag(ctx context.Context, userID, tagID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.snap.Tags {
		if s.snap.Tags[i].ID == tagID {
			s.snap.Tags = append(s.snap.Tags[:i], s.snap.Tags[i+1:]...)
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	for i := range s.snap.Todos {
		todo := &s.snap.Todos[i]
		kept := todo.Tags[:0]
		for _, id := range todo.Tags {
			if id != tagID {
				kept = append(kept, id)
			}
		}
		todo.Tags = kept
	}

	s.save()
	return true, nil
}

// HasMigrated reports the in-session migration flag. The flag is not part
// of the snapshot format; it only becomes durable in the database store.
func (s *LocalStore) HasMigrated(ctx context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.migrated, nil
}

// SetMigrated flips the in-session migration flag.
func (s *LocalStore) SetMigrated(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.migrated = true
	return nil
}

// ImportSnapshot replaces the whole snapshot.
func (s *LocalStore) ImportSnapshot(ctx context.Context, userID string, snap model.Snapshot) (model.UserData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = copySnapshot(snap)
	if s.snap.Todos == nil {
		s.snap.Todos = []model.Todo{}
	}
	s.migrated = true
	s.save()

	out := copySnapshot(s.snap)
	return model.UserData{
		Todos:      out.Todos,
		Categories: out.Categories,
		Tags:       out.Tags,
		Migrated:   true,
	}, nil
}

// Close persists the snapshot one last time.
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.save()
	return nil
}

func copyTodo(t model.Todo) model.Todo {
	t.Tags = append([]string{}, t.Tags...)
	if t.CategoryID != nil {
		id := *t.CategoryID
		t.CategoryID = &id
	}
	return t
}

func copyTodos(todos []model.Todo) []model.Todo {
	out := make([]model.Todo, len(todos))
	for i, t := range todos {
		out[i] = copyTodo(t)
	}
	return out
}

func copySnapshot(snap model.Snapshot) model.Snapshot {
	return model.Snapshot{
		Todos:      copyTodos(snap.Todos),
		Categories: append([]model.Category{}, snap.Categories...),
		Tags:       append([]model.Tag{}, snap.Tags...),
	}
}
