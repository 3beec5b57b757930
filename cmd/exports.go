package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/planbook/internal/store"
)

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "List recent document exports",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		since, _ := cmd.Flags().GetString("since")

		from, err := parseSince(since, time.Now())
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryExports(cmd.Context(), store.QueryOpts{Limit: limit, From: from})
		if err != nil {
			return fmt.Errorf("query exports: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No exports recorded yet.")
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			rows = append(rows, []string{
				strconv.Itoa(e.ID),
				formatTime(e.Timestamp),
				e.Format,
				e.Scope,
				e.Subject,
				strconv.Itoa(e.PlanCount),
				formatBytes(e.Bytes),
				exportResult(e),
			})
		}
		printTable(out, []string{"ID", "When", "Format", "Scope", "Subject", "Plans", "Size", "Result"}, rows, nil)
		return nil
	},
}

func exportResult(e store.ExportEvent) string {
	switch {
	case e.ErrorMessage != "":
		return "✗ " + truncate(e.ErrorMessage, 40)
	case e.Printed:
		return "sent to printer"
	}
	return e.Path
}

func formatBytes(n int64) string {
	switch {
	case n <= 0:
		return "-"
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
}

func init() {
	exportsCmd.Flags().IntP("limit", "n", 20, "Number of exports to show")
	exportsCmd.Flags().String("since", "", "Only exports within this window (e.g. 24h, 7d)")
}
