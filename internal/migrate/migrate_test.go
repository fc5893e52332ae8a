package migrate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todo-app/internal/migrate"
	"github.com/nhle/todo-app/internal/model"
	"github.com/nhle/todo-app/tests/testutil"
)

const testUser = "user-1"

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		Todos: []model.Todo{
			{ID: "t1", Title: "first", Tags: []string{"urgent"}},
			{ID: "t2", Title: "second", Tags: []string{}},
		},
		Categories: model.DefaultCategories(),
		Tags:       model.DefaultTags(),
	}
}

func TestRunImportsSnapshotOnce(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	c := migrate.New(s)

	data, err := c.Run(ctx, testUser, testSnapshot())
	require.NoError(t, err)

	assert.True(t, data.Migrated)
	require.Len(t, data.Todos, 2)
	assert.Equal(t, "t1", data.Todos[0].ID)
	assert.Equal(t, 0, data.Todos[0].Position)
	assert.Equal(t, "t2", data.Todos[1].ID)
	assert.Equal(t, 1, data.Todos[1].Position)
	assert.Equal(t, []string{"urgent"}, data.Todos[0].Tags)

	migrated, err := s.HasMigrated(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, migrated)
}

func TestRunRefusesSecondMigration(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	c := migrate.New(s)

	_, err := c.Run(ctx, testUser, testSnapshot())
	require.NoError(t, err)

	// A second run with different data must not touch the store.
	other := model.Snapshot{
		Todos: []model.Todo{{ID: "t3", Title: "intruder"}},
	}
	_, err = c.Run(ctx, testUser, other)
	require.ErrorIs(t, err, migrate.ErrAlreadyMigrated)

	data, err := s.GetUserData(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, data.Todos, 2)
	assert.Equal(t, "t1", data.Todos[0].ID)

	migrated, err := s.HasMigrated(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, migrated)
}

func TestRunIsScopedPerUser(t *testing.T) {
	ctx := context.Background()
	s := testutil.NewTestStore(t)
	c := migrate.New(s)

	_, err := c.Run(ctx, "alice", testSnapshot())
	require.NoError(t, err)

	// A different user migrates independently.
	data, err := c.Run(ctx, "bob", model.Snapshot{
		Todos:      []model.Todo{{ID: "t9", Title: "bob's"}},
		Categories: model.DefaultCategories(),
		Tags:       model.DefaultTags(),
	})
	require.NoError(t, err)
	require.Len(t, data.Todos, 1)
	assert.Equal(t, "t9", data.Todos[0].ID)

	aliceData, err := s.GetUserData(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, aliceData.Todos, 2)
}
