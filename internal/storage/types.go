package storage

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the persisted state of the activity ledger.
// Field names are part of the on-disk format.
type Snapshot struct {
	// Today maps app name to seconds accumulated today.
	Today map[string]uint64 `json:"today"`
	// AllTime maps app name to seconds accumulated since tracking began.
	AllTime map[string]uint64 `json:"all_time"`
	// LastSeen maps app name to the Unix time of its most recent observation.
	LastSeen map[string]uint64 `json:"last_seen"`
	// SessionStart is the Unix time the current session began (0 = unset).
	SessionStart uint64 `json:"session_start"`
	// TotalToday is always the sum of Today.
	TotalToday uint64 `json:"total_today"`
	// TodayDate is the epoch-day number of Today, as a decimal string.
	TodayDate string `json:"today_date"`
	// History maps a completed epoch-day to its per-app seconds.
	History map[string]map[string]uint64 `json:"history"`
}

// NewSnapshot returns an empty snapshot with all maps allocated.
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.Normalize()
	return s
}

// Normalize allocates any nil maps. Older snapshots may lack last_seen.
func (s *Snapshot) Normalize() {
	if s.Today == nil {
		s.Today = make(map[string]uint64)
	}
	if s.AllTime == nil {
		s.AllTime = make(map[string]uint64)
	}
	if s.LastSeen == nil {
		s.LastSeen = make(map[string]uint64)
	}
	if s.History == nil {
		s.History = make(map[string]map[string]uint64)
	}
	for day, apps := range s.History {
		if apps == nil {
			s.History[day] = make(map[string]uint64)
		}
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() Snapshot {
	out := Snapshot{
		Today:        CopyCounters(s.Today),
		AllTime:      CopyCounters(s.AllTime),
		LastSeen:     CopyCounters(s.LastSeen),
		SessionStart: s.SessionStart,
		TotalToday:   s.TotalToday,
		TodayDate:    s.TodayDate,
		History:      make(map[string]map[string]uint64, len(s.History)),
	}
	for day, apps := range s.History {
		out.History[day] = CopyCounters(apps)
	}
	return out
}

// CopyCounters copies an app -> seconds map. A nil map copies to an empty one.
func CopyCounters(m map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// EncodeSnapshot serializes a snapshot as indented JSON.
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot and normalizes missing maps.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	s.Normalize()
	return &s, nil
}
