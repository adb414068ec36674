package activity

// AppUsage is one ranked row of a usage summary.
type AppUsage struct {
	Name     string  `json:"name"`
	Seconds  uint64  `json:"seconds"`
	Percent  float64 `json:"percent"`
	LastSeen uint64  `json:"last_seen"` // Unix seconds, 0 if never recorded
}

// Stats is a point-in-time, read-only summary of the ledger.
type Stats struct {
	Today           []AppUsage `json:"today"`
	AllTime         []AppUsage `json:"all_time"`
	SessionDuration uint64     `json:"session_duration"`
	TotalToday      uint64     `json:"total_today"`
	CurrentApp      *string    `json:"current_app"`
}

// DayUsage is the ranked usage of one archived day.
type DayUsage struct {
	Day   string     `json:"day"`
	Total uint64     `json:"total"`
	Apps  []AppUsage `json:"apps"`
}
