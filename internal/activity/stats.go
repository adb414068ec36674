package activity

import (
	"sort"
	"strconv"

	"github.com/goodtune/apptime/internal/storage"
)

// TopN is the number of applications reported per ranking.
const TopN = 20

// Summarize returns ranked usage for today and all time. It never mutates
// the ledger; day rollover only happens in Sample.
func (l *Ledger) Summarize() (*Stats, error) {
	now, err := l.now()
	if err != nil {
		return nil, err
	}

	var stats *Stats
	err = l.withState(func(s *storage.Snapshot) error {
		var allTimeTotal uint64
		for _, seconds := range s.AllTime {
			allTimeTotal += seconds
		}

		stats = &Stats{
			Today:      rank(s.Today, s.TotalToday, s.LastSeen, TopN),
			AllTime:    rank(s.AllTime, allTimeTotal, s.LastSeen, TopN),
			TotalToday: s.TotalToday,
		}
		if uint64(now) > s.SessionStart {
			stats.SessionDuration = uint64(now) - s.SessionStart
		}

		if app, ok := l.CurrentApp(); ok {
			stats.CurrentApp = &app
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Days lists archived days in ascending order.
func (l *Ledger) Days() ([]string, error) {
	var days []string
	err := l.withState(func(s *storage.Snapshot) error {
		days = make([]string, 0, len(s.History))
		for day := range s.History {
			days = append(days, day)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(days, func(i, j int) bool {
		a, errA := strconv.ParseInt(days[i], 10, 64)
		b, errB := strconv.ParseInt(days[j], 10, 64)
		if errA != nil || errB != nil {
			return days[i] < days[j]
		}
		return a < b
	})
	return days, nil
}

// History returns the ranked usage of an archived day.
func (l *Ledger) History(day string) (*DayUsage, bool, error) {
	var (
		usage *DayUsage
		found bool
	)
	err := l.withState(func(s *storage.Snapshot) error {
		apps, ok := s.History[day]
		if !ok {
			return nil
		}
		var total uint64
		for _, seconds := range apps {
			total += seconds
		}
		usage = &DayUsage{
			Day:   day,
			Total: total,
			Apps:  rank(apps, total, s.LastSeen, 0),
		}
		found = true
		return nil
	})
	return usage, found, err
}

// rank sorts counters by seconds descending, ties by name, and annotates
// each row with its share of total. limit <= 0 keeps every row.
func rank(counters map[string]uint64, total uint64, lastSeen map[string]uint64, limit int) []AppUsage {
	if total == 0 {
		total = 1
	}

	rows := make([]AppUsage, 0, len(counters))
	for name, seconds := range counters {
		rows = append(rows, AppUsage{
			Name:     name,
			Seconds:  seconds,
			Percent:  100 * float64(seconds) / float64(total),
			LastSeen: lastSeen[name],
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Seconds != rows[j].Seconds {
			return rows[i].Seconds > rows[j].Seconds
		}
		return rows[i].Name < rows[j].Name
	})

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
