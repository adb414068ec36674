package storage

import (
	"bytes"
	"testing"
)

func TestDecodeSnapshotDefaultsLastSeen(t *testing.T) {
	legacy := []byte(`{
  "today": {"Terminal": 120},
  "all_time": {"Terminal": 600},
  "session_start": 1700000000,
  "total_today": 120,
  "today_date": "19675",
  "history": {"19674": {"Safari": 300}}
}`)

	snap, err := DecodeSnapshot(legacy)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.LastSeen == nil {
		t.Fatal("expected last_seen to default to an empty map")
	}
	if len(snap.LastSeen) != 0 {
		t.Fatalf("expected empty last_seen, got %v", snap.LastSeen)
	}
	if snap.Today["Terminal"] != 120 {
		t.Errorf("expected Terminal=120, got %d", snap.Today["Terminal"])
	}
	if snap.History["19674"]["Safari"] != 300 {
		t.Errorf("expected history Safari=300, got %d", snap.History["19674"]["Safari"])
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	snap := NewSnapshot()
	snap.Today["A"] = 10
	snap.History["1"] = map[string]uint64{"A": 5}

	clone := snap.Clone()
	clone.Today["A"] = 99
	clone.History["1"]["A"] = 99

	if snap.Today["A"] != 10 {
		t.Errorf("clone shares today map")
	}
	if snap.History["1"]["A"] != 5 {
		t.Errorf("clone shares history map")
	}
}

func TestEncodeSnapshotFieldNames(t *testing.T) {
	data, err := EncodeSnapshot(*NewSnapshot())
	if err != nil {
		t.Fatalf("encode snapshot: %v", err)
	}
	for _, field := range []string{"today", "all_time", "last_seen", "session_start", "total_today", "today_date", "history"} {
		if !containsKey(data, field) {
			t.Errorf("encoded snapshot missing field %q: %s", field, data)
		}
	}
}

func containsKey(data []byte, key string) bool {
	return bytes.Contains(data, []byte(`"`+key+`":`))
}
