package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [day]",
	Short: "List archived days or show one day",
	Long: `Without arguments, list the archived days with their totals.
With a day identifier (days since the Unix epoch), show that day's ranked usage.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ledger, store, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if len(args) == 1 {
		usage, ok, err := ledger.History(args[0])
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		if !ok {
			return fmt.Errorf("no history for day %s", args[0])
		}
		_, _ = fmt.Fprintf(os.Stdout, "Day %s (%s): %s\n", usage.Day, dayDate(usage.Day), formatSeconds(usage.Total))
		printUsage(os.Stdout, "apps", usage.Apps)
		return nil
	}

	days, err := ledger.Days()
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(days) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No archived days")
		return nil
	}

	green := color.New(color.FgGreen)
	for _, day := range days {
		usage, ok, err := ledger.History(day)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(os.Stdout, "  %-8s %s  ", day, dayDate(day))
		_, _ = green.Fprintf(os.Stdout, "%12s", formatSeconds(usage.Total))
		_, _ = fmt.Fprintf(os.Stdout, "  %d app(s)\n", len(usage.Apps))
	}
	return nil
}
