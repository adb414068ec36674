package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/goodtune/apptime/internal/config"
	"github.com/goodtune/apptime/internal/storage"
)

func setupTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	// miniredis.Addr() returns "host:port", so Port stays 0
	cfg := config.RedisConfig{
		Host:         mr.Addr(),
		Port:         0,
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 1,
		DialTimeout:  "5s",
		ReadTimeout:  "3s",
		WriteTimeout: "3s",
		KeyPrefix:    "test",
	}

	store, err := Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open Redis store: %v", err)
	}

	return store, mr
}

func TestSnapshotStore_LoadMissing(t *testing.T) {
	store, _ := setupTestStore(t)
	defer func() { _ = store.Close() }()

	_, err := store.Snapshots().Load(context.Background())
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotStore_SaveAndLoad(t *testing.T) {
	store, mr := setupTestStore(t)
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	snap := storage.NewSnapshot()
	snap.Today["Firefox"] = 180
	snap.AllTime["Firefox"] = 1800
	snap.LastSeen["Firefox"] = 1700000000
	snap.TotalToday = 180
	snap.TodayDate = "19675"
	snap.SessionStart = 1699999000
	snap.History["19674"] = map[string]uint64{"Firefox": 1620}

	if err := store.Snapshots().Save(ctx, *snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if !mr.Exists("test:snapshot") {
		t.Error("Expected test:snapshot key to exist")
	}
	if got := mr.HGet("test:history", "19674"); got == "" {
		t.Error("Expected history hash field for day 19674")
	}

	loaded, err := store.Snapshots().Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.TotalToday != 180 {
		t.Errorf("Expected TotalToday 180, got %d", loaded.TotalToday)
	}
	if loaded.Today["Firefox"] != 180 {
		t.Errorf("Expected Firefox 180, got %d", loaded.Today["Firefox"])
	}
	if loaded.History["19674"]["Firefox"] != 1620 {
		t.Errorf("Expected history Firefox 1620, got %d", loaded.History["19674"]["Firefox"])
	}
	if loaded.LastSeen["Firefox"] != 1700000000 {
		t.Errorf("Expected LastSeen 1700000000, got %d", loaded.LastSeen["Firefox"])
	}
}

func TestSnapshotStore_LegacyDocumentWithoutLastSeen(t *testing.T) {
	store, mr := setupTestStore(t)
	defer func() { _ = store.Close() }()

	if err := mr.Set("test:snapshot", `{"today":{"A":1},"all_time":{"A":1},"session_start":1,"total_today":1,"today_date":"3"}`); err != nil {
		t.Fatalf("Failed to seed snapshot: %v", err)
	}

	loaded, err := store.Snapshots().Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LastSeen == nil || len(loaded.LastSeen) != 0 {
		t.Errorf("Expected empty LastSeen, got %v", loaded.LastSeen)
	}
	if loaded.History == nil {
		t.Error("Expected History to be allocated")
	}
}
