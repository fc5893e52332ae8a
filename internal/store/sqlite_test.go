package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-app/internal/model"
	"github.com/nhle/todo-app/internal/store"
	"github.com/nhle/todo-app/tests/testutil"
)

const testUser = "user-1"

// addTodos appends todos with the given titles and returns them in
// display order.
func addTodos(t *testing.T, s *store.SQLiteStore, userID string, titles ...string) []model.Todo {
	t.Helper()
	ctx := context.Background()
	for _, title := range titles {
		_, err := s.AddTodo(ctx, userID, model.Todo{Title: title})
		require.NoError(t, err)
	}
	data, err := s.GetUserData(ctx, userID)
	require.NoError(t, err)
	return data.Todos
}

// positions collects the position column values in display order.
func positions(todos []model.Todo) []int {
	out := make([]int, len(todos))
	for i, todo := range todos {
		out[i] = todo.Position
	}
	return out
}

func titles(todos []model.Todo) []string {
	out := make([]string, len(todos))
	for i, todo := range todos {
		out[i] = todo.Title
	}
	return out
}

func TestEnsureUserSeedsDefaults(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	require.NoError(t, s.EnsureUser(ctx, testUser))
	// Idempotent: a second call must not duplicate the seed data.
	require.NoError(t, s.EnsureUser(ctx, testUser))

	data, err := s.GetUserData(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, data.Todos)
	assert.Len(t, data.Categories, 4)
	assert.Len(t, data.Tags, 4)
	assert.False(t, data.Migrated)
	assert.NotNil(t, data.CategoryByID("personal"))
	assert.NotNil(t, data.TagByID("urgent"))
}

func TestEnsureUserRejectsEmptyID(t *testing.T) {
	s := testutil.NewTestStore(t)
	require.Error(t, s.EnsureUser(context.Background(), ""))
}

func TestAddTodoAppendsAtNextPosition(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	personal := "personal"
	todo, err := s.AddTodo(ctx, testUser, model.Todo{
		Title:      "Buy milk",
		CategoryID: &personal,
		Tags:       []string{"urgent"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, todo.ID)
	assert.False(t, todo.Completed)
	assert.Equal(t, todo.CreatedAt, todo.UpdatedAt)
	assert.Equal(t, 0, todo.Position)

	data, err := s.GetUserData(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, data.Todos, 1)
	got := data.Todos[0]
	assert.Equal(t, todo.ID, got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, "personal", *got.CategoryID)
	assert.Equal(t, []string{"urgent"}, got.Tags)

	second, err := s.AddTodo(ctx, testUser, model.Todo{Title: "second"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Position)
}

func TestAddTodoIgnoresDuplicateTagLinks(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	todo, err := s.AddTodo(ctx, testUser, model.Todo{
		Title: "dup tags",
		Tags:  []string{"urgent", "urgent"},
	})
	require.NoError(t, err)

	data, err := s.GetUserData(ctx, testUser)
	require.NoError(t, err)
	got := data.TodoByID(todo.ID)
	require.NotNil(t, got)
	assert.Equal(t, []string{"urgent"}, got.Tags)
}

func TestPositionsStayDense(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	todos := addTodos(t, s, testUser, "A", "B", "C", "D")
	assert.Equal(t, []int{0, 1, 2, 3}, positions(todos))

	// Delete from the middle: remaining positions renumber densely.
	deleted, err := s.DeleteTodo(ctx, testUser, todos[1].ID)
	require.NoError(t, err)
	require.True(t, deleted)

	data, err := s.GetUserData(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C", "D"}, titles(data.Todos))
	assert.Equal(t, []int{0, 1, 2}, positions(data.Todos))

	// Reorder keeps the permutation dense.
	reordered, err := s.ReorderTodos(ctx, testUser, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"D", "A", "C"}, titles(reordered))
	assert.Equal(t, []int{0, 1, 2}, positions(reordered))
}

func TestReorderMovesElement(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	addTodos(t, s, testUser, "A", "B", "C", "D")

	reordered, err := s.ReorderTodos(ctx, testUser, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "C", "A", "D"}, titles(reordered))
	assert.Equal(t, []int{0, 1, 2, 3}, positions(reordered))
}

func TestReorderRejectsOutOfRange(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	addTodos(t, s, testUser, "A", "B")

	_, err := s.ReorderTodos(ctx, testUser, -1, 0)
	require.Error(t, err)
	_, err = s.ReorderTodos(ctx, testUser, 0, 2)
	require.Error(t, err)

	data, err := s.GetUserData(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, titles(data.Todos))
	assert.Equal(t, []int{0, 1}, positions(data.Todos))
}

func TestUpdateTodoAppliesOnlySuppliedFields(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	personal := "personal"
	todo, err := s.AddTodo(ctx, testUser, model.Todo{
		Title:      "original",
		CategoryID: &personal,
		Tags:       []string{"urgent", "idea"},
	})
	require.NoError(t, err)

	completed := true
	updated, err := s.UpdateTodo(ctx, testUser, todo.ID, store.TodoUpdate{Completed: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.Completed)
	assert.Equal(t, "original", updated.Title)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, "personal", *updated.CategoryID)
	assert.ElementsMatch(t, []string{"urgent", "idea"}, updated.Tags)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestUpdateTodoReplacesTagSet(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	todo, err := s.AddTodo(ctx, testUser, model.Todo{
		Title: "tagged",
		Tags:  []string{"urgent", "idea"},
	})
	require.NoError(t, err)

	updated, err := s.UpdateTodo(ctx, testUser, todo.ID, store.TodoUpdate{
		SetTags: true,
		Tags:    []string{},
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Empty(t, updated.Tags)

	// A later full replacement supplies exactly these tags.
	updated, err = s.UpdateTodo(ctx, testUser, todo.ID, store.TodoUpdate{
		SetTags: true,
		Tags:    []string{"later"},
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, []string{"later"}, updated.Tags)
}

func TestUpdateTodoNotFound(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	updated, err := s.UpdateTodo(ctx, testUser, "missing", store.TodoUpdate{})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestOperationsAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	todo, err := s.AddTodo(ctx, "alice", model.Todo{Title: "hers"})
	require.NoError(t, err)

	// Another user cannot see, update, or delete it.
	data, err := s.GetUserData(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, data.Todos)

	updated, err := s.UpdateTodo(ctx, "bob", todo.ID, store.TodoUpdate{})
	require.NoError(t, err)
	assert.Nil(t, updated)

	deleted, err := s.DeleteTodo(ctx, "bob", todo.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	data, err = s.GetUserData(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, data.Todos, 1)
}

func TestDeleteCategoryDetachesTodos(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	work := "work"
	for _, title := range []string{"a", "b", "c"} {
		_, err := s.AddTodo(ctx, testUser, model.Todo{Title: title, CategoryID: &work})
		require.NoError(t, err)
	}

	deleted, err := s.DeleteCategory(ctx, testUser, "work")
	require.NoError(t, err)
	require.True(t, deleted)

	data, err := s.GetUserData(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, data.Todos, 3)
	for _, todo := range data.Todos {
		assert.Nil(t, todo.CategoryID)
	}
	assert.Nil(t, data.CategoryByID("work"))

	deleted, err = s.DeleteCategory(ctx, testUser, "work")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeleteTagDetachesFromTodos(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	todo, err := s.AddTodo(ctx, testUser, model.Todo{
		Title: "tagged",
		Tags:  []string{"urgent", "later"},
	})
	require.NoError(t, err)

	deleted, err := s.DeleteTag(ctx, testUser, "urgent")
	require.NoError(t, err)
	require.True(t, deleted)

	data, err := s.GetUserData(ctx, testUser)
	require.NoError(t, err)
	got := data.TodoByID(todo.ID)
	require.NotNil(t, got)
	assert.Equal(t, []string{"later"}, got.Tags)
	assert.Equal(t, "tagged", got.Title)
	assert.Nil(t, data.TagByID("urgent"))
}

func TestTagLinksAreScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	// Importing the same snapshot under two owners reuses its todo ids, so
	// both users hold a todo "t1". Their tag links must stay independent.
	snap := model.Snapshot{
		Todos:      []model.Todo{{ID: "t1", Title: "shared id", Tags: []string{"urgent"}}},
		Categories: model.DefaultCategories(),
		Tags:       model.DefaultTags(),
	}
	_, err := s.ImportSnapshot(ctx, "alice", snap)
	require.NoError(t, err)
	_, err = s.ImportSnapshot(ctx, "bob", snap)
	require.NoError(t, err)

	deleted, err := s.DeleteTag(ctx, "alice", "urgent")
	require.NoError(t, err)
	require.True(t, deleted)

	aliceData, err := s.GetUserData(ctx, "alice")
	require.NoError(t, err)
	aliceTodo := aliceData.TodoByID("t1")
	require.NotNil(t, aliceTodo)
	assert.Empty(t, aliceTodo.Tags)

	bobData, err := s.GetUserData(ctx, "bob")
	require.NoError(t, err)
	bobTodo := bobData.TodoByID("t1")
	require.NotNil(t, bobTodo)
	assert.Equal(t, []string{"urgent"}, bobTodo.Tags)
	assert.NotNil(t, bobData.TagByID("urgent"))

	// Deleting alice's todo must not strip bob's links either.
	gone, err := s.DeleteTodo(ctx, "alice", "t1")
	require.NoError(t, err)
	require.True(t, gone)

	bobData, err = s.GetUserData(ctx, "bob")
	require.NoError(t, err)
	bobTodo = bobData.TodoByID("t1")
	require.NotNil(t, bobTodo)
	assert.Equal(t, []string{"urgent"}, bobTodo.Tags)
}

func TestMigratedFlagIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	migrated, err := s.HasMigrated(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, migrated)

	require.NoError(t, s.SetMigrated(ctx, testUser))
	require.NoError(t, s.SetMigrated(ctx, testUser))

	migrated, err = s.HasMigrated(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, migrated)

	// No duplicate seed data appeared along the way.
	data, err := s.GetUserData(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, data.Categories, 4)
	assert.Len(t, data.Tags, 4)
}

func TestImportSnapshotReplacesExistingData(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)

	// Pre-existing remote state to be wiped.
	_, err := s.AddTodo(ctx, testUser, model.Todo{Title: "stale", Tags: []string{"urgent"}})
	require.NoError(t, err)

	snap := model.Snapshot{
		Todos: []model.Todo{
			{ID: "t1", Title: "first", Tags: []string{"home"}},
			{ID: "t2", Title: "second", Tags: []string{}},
		},
		Categories: []model.Category{
			{ID: "home-cat", Name: "Home", Icon: "House", Color: "#123456"},
		},
		Tags: []model.Tag{
			{ID: "home", Name: "Home", Color: "#654321"},
		},
	}

	data, err := s.ImportSnapshot(ctx, testUser, snap)
	require.NoError(t, err)

	assert.True(t, data.Migrated)
	require.Len(t, data.Todos, 2)
	assert.Equal(t, "t1", data.Todos[0].ID)
	assert.Equal(t, 0, data.Todos[0].Position)
	assert.Equal(t, "t2", data.Todos[1].ID)
	assert.Equal(t, 1, data.Todos[1].Position)
	assert.Equal(t, []string{"home"}, data.Todos[0].Tags)

	// Seeded defaults were wiped along with the stale todo.
	assert.Len(t, data.Categories, 1)
	assert.Len(t, data.Tags, 1)

	migrated, err := s.HasMigrated(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, migrated)
}
