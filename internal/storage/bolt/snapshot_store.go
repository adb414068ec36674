package bolt

import (
	"context"
	"fmt"

	"github.com/goodtune/apptime/internal/storage"
	"go.etcd.io/bbolt"
)

// snapshotStore keeps the live ledger fields under ledger/snapshot and one
// history key per archived day, so archived days are not rewritten as a blob.
type snapshotStore struct {
	db *bbolt.DB
}

func (s *snapshotStore) Load(ctx context.Context) (*storage.Snapshot, error) {
	var snap *storage.Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		ledger := tx.Bucket([]byte(bucketLedger))
		if ledger == nil {
			return storage.ErrNotFound
		}
		value := ledger.Get([]byte(keySnapshot))
		if value == nil {
			return storage.ErrNotFound
		}
		var result storage.Snapshot
		if err := unmarshal(value, &result); err != nil {
			return err
		}
		result.Normalize()

		history := tx.Bucket([]byte(bucketHistory))
		if history != nil {
			if err := history.ForEach(func(k, v []byte) error {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				apps := make(map[string]uint64)
				if err := unmarshal(v, &apps); err != nil {
					return fmt.Errorf("history day %s: %w", k, err)
				}
				result.History[string(k)] = apps
				return nil
			}); err != nil {
				return err
			}
		}

		snap = &result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *snapshotStore) Save(ctx context.Context, snapshot storage.Snapshot) error {
	live := snapshot
	live.History = nil

	liveData, err := marshal(live)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		ledger := tx.Bucket([]byte(bucketLedger))
		if ledger == nil {
			return fmt.Errorf("ledger bucket missing")
		}
		if err := ledger.Put([]byte(keySnapshot), liveData); err != nil {
			return err
		}

		history := tx.Bucket([]byte(bucketHistory))
		if history == nil {
			return fmt.Errorf("history bucket missing")
		}
		for day, apps := range snapshot.History {
			data, err := marshal(apps)
			if err != nil {
				return err
			}
			if err := history.Put([]byte(day), data); err != nil {
				return fmt.Errorf("put history day %s: %w", day, err)
			}
		}
		return nil
	})
}
