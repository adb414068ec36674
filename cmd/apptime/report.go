package main

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/goodtune/apptime/internal/activity"
)

// formatSeconds renders a counter as "1h 02m 03s", dropping leading zero units.
func formatSeconds(sec uint64) string {
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func formatLastSeen(unix uint64) string {
	if unix == 0 {
		return "-"
	}
	return time.Unix(int64(unix), 0).Local().Format("2006-01-02 15:04")
}

// printUsage writes one ranked table.
func printUsage(w io.Writer, title string, rows []activity.AppUsage) {
	cyan := color.New(color.FgCyan, color.Bold)
	_, _ = cyan.Fprintf(w, "\n[%s]\n", title)

	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "  (no activity recorded)")
		return
	}

	green := color.New(color.FgGreen)
	for i, row := range rows {
		_, _ = fmt.Fprintf(w, "  %2d. %-32s ", i+1, row.Name)
		_, _ = green.Fprintf(w, "%12s", formatSeconds(row.Seconds))
		_, _ = fmt.Fprintf(w, "  %5.1f%%  %s\n", row.Percent, formatLastSeen(row.LastSeen))
	}
}

func dayDate(day string) string {
	var n int64
	if _, err := fmt.Sscanf(day, "%d", &n); err != nil {
		return day
	}
	return time.Unix(n*86400, 0).UTC().Format("2006-01-02")
}
