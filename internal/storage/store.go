package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record is missing from storage.
var ErrNotFound = errors.New("storage: record not found")

// Store represents the root storage interface.
type Store interface {
	Close() error
	Snapshots() SnapshotStore
}

// SnapshotStore persists the activity ledger snapshot.
// Load returns ErrNotFound when nothing has been saved yet.
type SnapshotStore interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}
