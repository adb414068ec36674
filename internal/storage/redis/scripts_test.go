package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a miniredis instance for testing Lua scripts
func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func TestSaveSnapshotScript(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer client.Close()
	defer mr.Close()

	ctx := context.Background()
	script := redis.NewScript(saveSnapshotScript)

	tests := []struct {
		name     string
		args     []interface{}
		wantDays int64
	}{
		{"snapshot only", []interface{}{`{"today_date":"1"}`}, 0},
		{"one day", []interface{}{`{"today_date":"2"}`, "1", `{"A":10}`}, 1},
		{"two days", []interface{}{`{"today_date":"3"}`, "1", `{"A":10}`, "2", `{"B":20}`}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := script.Run(ctx, client, []string{"s:snapshot", "s:history"}, tt.args...).Int64()
			if err != nil {
				t.Fatalf("Script failed: %v", err)
			}
			if days != tt.wantDays {
				t.Errorf("Expected %d days written, got %d", tt.wantDays, days)
			}

			got, err := mr.Get("s:snapshot")
			if err != nil {
				t.Fatalf("Get snapshot failed: %v", err)
			}
			if got != tt.args[0] {
				t.Errorf("Expected snapshot %v, got %s", tt.args[0], got)
			}
		})
	}

	if got := mr.HGet("s:history", "2"); got != `{"B":20}` {
		t.Errorf("Expected history day 2 to be kept, got %q", got)
	}
}
