package clock

import (
	"testing"
	"time"
)

func TestEpochDay(t *testing.T) {
	tests := []struct {
		name string
		unix int64
		want int64
	}{
		{"epoch", 0, 0},
		{"last second of day zero", 86399, 0},
		{"first second of day one", 86400, 1},
		{"day 101", 101*86400 + 3600, 101},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EpochDay(tt.unix); got != tt.want {
				t.Errorf("EpochDay(%d) = %d, want %d", tt.unix, got, tt.want)
			}
		})
	}
}

func TestTestClockAdvance(t *testing.T) {
	c := Unix(1000)
	c.Advance(90 * time.Second)
	if got := c.Now().Unix(); got != 1090 {
		t.Fatalf("expected 1090, got %d", got)
	}
}
