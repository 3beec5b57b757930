package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/planbook/internal/llm"
	"github.com/abhisek/planbook/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect lesson-plan generation calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		since, _ := cmd.Flags().GetString("since")
		failedOnly, _ := cmd.Flags().GetBool("failed")

		from, err := parseSince(since, time.Now())
		if err != nil {
			return err
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{
			Limit:   limit,
			Purpose: purpose,
			From:    from,
		})
		if err != nil {
			return fmt.Errorf("query calls: %w", err)
		}
		if failedOnly {
			events = failedEvents(events)
		}

		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No generation calls recorded.")
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			rows = append(rows, []string{
				strconv.Itoa(e.ID),
				formatTime(e.Timestamp),
				e.Provider,
				truncate(e.Model, 26),
				fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
				formatLatency(e.LatencyMs),
				eventCost(e),
				outcome(e),
			})
		}
		printTable(out, []string{"ID", "When", "Provider", "Model", "Tokens", "Latency", "Cost", "Result"}, rows, nil)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and reply of one generation call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 {
			return fmt.Errorf("invalid call ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get call: %w", err)
		}
		if e == nil {
			return fmt.Errorf("call %d not found", id)
		}

		writeEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated spend",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No generation calls recorded.")
			return nil
		}

		var sum store.UsageStat
		rows := make([][]string, 0, len(byPurpose))
		for _, st := range byPurpose {
			rows = append(rows, []string{
				st.Purpose,
				strconv.Itoa(st.Calls),
				strconv.Itoa(st.InputTokens),
				strconv.Itoa(st.OutputTokens),
				formatLatency(st.AvgLatencyMs),
			})
			sum.Calls += st.Calls
			sum.InputTokens += st.InputTokens
			sum.OutputTokens += st.OutputTokens
		}
		fmt.Fprintln(out, "Usage by purpose")
		printTable(out, []string{"Purpose", "Calls", "Input", "Output", "Avg latency"}, rows,
			[]string{"total", strconv.Itoa(sum.Calls), strconv.Itoa(sum.InputTokens), strconv.Itoa(sum.OutputTokens), ""})

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		rows, total, unpriced := costRows(byModel)
		label := "total"
		if len(unpriced) > 0 {
			label = "total (partial)"
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Estimated spend (USD)")
		printTable(out, []string{"Model", "Calls", "Input", "Output", "Cost"}, rows,
			[]string{label, "", "", "", formatCost(total)})
		if len(unpriced) > 0 {
			fmt.Fprintf(out, "No pricing for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func writeEvent(w io.Writer, e *store.LLMEvent) {
	fmt.Fprintf(w, "Call %d  %s\n", e.ID, formatTime(e.Timestamp))
	fmt.Fprintf(w, "  provider  %s (%s)\n", e.Provider, e.Model)
	fmt.Fprintf(w, "  purpose   %s\n", e.Purpose)
	fmt.Fprintf(w, "  tokens    %d in, %d out, %s\n", e.InputTokens, e.OutputTokens, eventCost(*e))
	fmt.Fprintf(w, "  latency   %s\n", formatLatency(e.LatencyMs))
	fmt.Fprintf(w, "  result    %s\n", outcome(*e))

	for _, part := range []struct{ title, body string }{
		{"Prompt", e.RequestBody},
		{"Reply", e.ResponseBody},
	} {
		fmt.Fprintf(w, "\n── %s ──\n", part.title)
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

// costRows prices each model's usage. Models without a price are listed
// with "?" and returned separately.
func costRows(usage []store.UsageStat) (rows [][]string, total float64, unpriced []string) {
	for _, mu := range usage {
		cost := "?"
		if c := llm.LookupCost(mu.Model); c != nil {
			usd := c.Cost(mu.InputTokens, mu.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unpriced = append(unpriced, mu.Model)
		}
		rows = append(rows, []string{
			truncate(mu.Model, 32),
			strconv.Itoa(mu.Calls),
			strconv.Itoa(mu.InputTokens),
			strconv.Itoa(mu.OutputTokens),
			cost,
		})
	}
	return rows, total, unpriced
}

func failedEvents(events []store.LLMEvent) []store.LLMEvent {
	var out []store.LLMEvent
	for _, e := range events {
		if !e.Success {
			out = append(out, e)
		}
	}
	return out
}

func outcome(e store.LLMEvent) string {
	if e.Success {
		return "✓"
	}
	if e.ErrorMessage == "" {
		return "✗"
	}
	return "✗ " + truncate(e.ErrorMessage, 40)
}

func eventCost(e store.LLMEvent) string {
	c := llm.LookupCost(e.Model)
	if c == nil {
		return "?"
	}
	return formatCost(c.Cost(e.InputTokens, e.OutputTokens))
}

func formatLatency(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only calls with this purpose (e.g. lesson-plan)")
	llmListCmd.Flags().String("since", "", "Only calls within this window (e.g. 24h, 7d)")
	llmListCmd.Flags().Bool("failed", false, "Only failed calls")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
