package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goodtune/apptime/internal/storage"
)

// DefaultFileName is the snapshot file name inside the data directory.
const DefaultFileName = "activity_data.json"

// Store implements storage.Store as a single pretty-printed JSON file.
type Store struct {
	path string
}

// Open returns a file-backed store. If path is a directory the snapshot is
// kept in DefaultFileName inside it.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot path is required")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFileName)
	}
	return &Store{path: path}, nil
}

// Path returns the snapshot file location.
func (s *Store) Path() string { return s.path }

// Close is a no-op; files are opened per operation.
func (s *Store) Close() error { return nil }

// Snapshots returns the snapshot store.
func (s *Store) Snapshots() storage.SnapshotStore { return s }

// Load reads the snapshot file.
func (s *Store) Load(ctx context.Context) (*storage.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return storage.DecodeSnapshot(data)
}

// Save writes the snapshot atomically via a temp file and rename.
func (s *Store) Save(ctx context.Context, snapshot storage.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := storage.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := storage.EnsureDir(dir); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".activity-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
