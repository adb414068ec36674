package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's and all-time usage",
	Long:  `Print ranked usage for today and all time from the stored snapshot.`,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Print the summary as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ledger, store, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	stats, err := ledger.Summarize()
	if err != nil {
		return fmt.Errorf("failed to summarize activity: %w", err)
	}

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(os.Stdout, "Total today: %s\n", formatSeconds(stats.TotalToday))
	_, _ = fmt.Fprintf(os.Stdout, "Session:     %s\n", formatSeconds(stats.SessionDuration))

	printUsage(os.Stdout, "today", stats.Today)
	printUsage(os.Stdout, "all time", stats.AllTime)
	return nil
}
