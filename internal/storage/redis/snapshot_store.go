package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goodtune/apptime/internal/storage"
	"github.com/redis/go-redis/v9"
)

type snapshotStore struct {
	client      *redis.Client
	script      *redis.Script
	snapshotKey string
	historyKey  string
}

func newSnapshotStore(client *redis.Client, prefix string) *snapshotStore {
	return &snapshotStore{
		client:      client,
		script:      redis.NewScript(saveSnapshotScript),
		snapshotKey: fmt.Sprintf("%s:snapshot", prefix),
		historyKey:  fmt.Sprintf("%s:history", prefix),
	}
}

// Load retrieves the live document and history hash in one round trip
func (s *snapshotStore) Load(ctx context.Context) (*storage.Snapshot, error) {
	pipe := s.client.Pipeline()
	liveCmd := pipe.Get(ctx, s.snapshotKey)
	historyCmd := pipe.HGetAll(ctx, s.historyKey)

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	data, err := liveCmd.Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	snap, err := storage.DecodeSnapshot(data)
	if err != nil {
		return nil, err
	}

	days, err := historyCmd.Result()
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	for day, raw := range days {
		apps := make(map[string]uint64)
		if err := json.Unmarshal([]byte(raw), &apps); err != nil {
			return nil, fmt.Errorf("parse history day %s: %w", day, err)
		}
		snap.History[day] = apps
	}

	return snap, nil
}

// Save writes the snapshot via saveSnapshotScript
func (s *snapshotStore) Save(ctx context.Context, snapshot storage.Snapshot) error {
	live := snapshot
	live.History = nil

	liveData, err := json.Marshal(live)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	args := make([]interface{}, 0, 1+2*len(snapshot.History))
	args = append(args, string(liveData))
	for day, apps := range snapshot.History {
		data, err := json.Marshal(apps)
		if err != nil {
			return fmt.Errorf("marshal history day %s: %w", day, err)
		}
		args = append(args, day, string(data))
	}

	keys := []string{s.snapshotKey, s.historyKey}
	return s.script.Run(ctx, s.client, keys, args...).Err()
}
