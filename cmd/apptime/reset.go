package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Archive and clear today's usage",
	Long: `Archive today's counters into history and start today from zero.
All-time counters are kept. Stop a running server first, or use
POST /api/activity/reset instead, as the server holds its own copy of the state.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	ledger, store, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := ledger.ResetToday(cmd.Context()); err != nil {
		return fmt.Errorf("failed to reset activity: %w", err)
	}

	// The ledger only logs save failures; save again so they reach the user.
	snap, err := ledger.Snapshot()
	if err != nil {
		return fmt.Errorf("failed to read activity: %w", err)
	}
	if err := store.Snapshots().Save(cmd.Context(), snap); err != nil {
		return fmt.Errorf("failed to save activity: %w", err)
	}

	if snap.TodayDate == "" {
		_, _ = fmt.Fprintln(os.Stdout, "✅ Today's activity reset")
		return nil
	}
	_, _ = fmt.Fprintf(os.Stdout, "✅ Today's activity reset (day %s archived)\n", snap.TodayDate)
	return nil
}
