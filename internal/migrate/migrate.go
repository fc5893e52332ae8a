// Package migrate performs the one-time transfer of a local snapshot into
// the database store.
package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/todo-app/internal/model"
	"github.com/nhle/todo-app/internal/store"
)

// ErrAlreadyMigrated is returned when the user's snapshot import has
// already run. The migrated flag is one-way; a completed migration is
// never repeated.
var ErrAlreadyMigrated = errors.New("user already migrated")

// Coordinator gates the snapshot import on the per-user migrated flag.
type Coordinator struct {
	remote store.Store
}

// New creates a Coordinator targeting the given database store.
func New(remote store.Store) *Coordinator {
	return &Coordinator{remote: remote}
}

// Run imports the snapshot for the user, at most once. It returns
// ErrAlreadyMigrated if a previous run has completed; the existing remote
// data is left untouched in that case.
func (c *Coordinator) Run(ctx context.Context, userID string, snap model.Snapshot) (model.UserData, error) {
	migrated, err := c.remote.HasMigrated(ctx, userID)
	if err != nil {
		return model.UserData{}, fmt.Errorf("checking migration flag: %w", err)
	}
	if migrated {
		return model.UserData{}, ErrAlreadyMigrated
	}

	data, err := c.remote.ImportSnapshot(ctx, userID, snap)
	if err != nil {
		return model.UserData{}, fmt.Errorf("importing snapshot: %w", err)
	}
	return data, nil
}
