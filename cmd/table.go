package cmd

import (
	"fmt"
	"io"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
)

const timestampLayout = "2006-01-02 15:04"

// printTable writes rows under headers as a bordered table. A non-empty
// footer row is set off from the body by its bold style.
func printTable(w io.Writer, headers []string, rows [][]string, footer []string) {
	body := rows
	if len(footer) > 0 {
		body = append(append([][]string{}, rows...), footer)
	}
	last := len(body) - 1

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderColumn(false).
		Headers(headers...).
		Rows(body...).
		StyleFunc(func(row, col int) lipgloss.Style {
			st := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow || (len(footer) > 0 && row == last) {
				st = st.Bold(true)
			}
			return st
		})
	fmt.Fprintln(w, t.Render())
}

func formatTime(ts time.Time) string {
	return ts.Local().Format(timestampLayout)
}

// parseSince turns a look-back window such as "24h" or "7d" into the
// earliest timestamp it covers. An empty window means no bound.
func parseSince(window string, now time.Time) (time.Time, error) {
	if window == "" {
		return time.Time{}, nil
	}
	var days int
	if _, err := fmt.Sscanf(window, "%dd", &days); err == nil && fmt.Sprintf("%dd", days) == window {
		if days < 0 {
			return time.Time{}, fmt.Errorf("invalid window %q", window)
		}
		return now.AddDate(0, 0, -days), nil
	}
	d, err := time.ParseDuration(window)
	if err != nil || d < 0 {
		return time.Time{}, fmt.Errorf("invalid window %q: use a duration like 36h or a day count like 7d", window)
	}
	return now.Add(-d), nil
}
