package analyzer

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Row is one matchup line in a report table.
type Row struct {
	Left  string
	Right string
	Stats *MatchupStats
}

// RenderTable writes one line per matchup.
func RenderTable(w io.Writer, rows []Row) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Left", "Right", "Runs", "Left %", "Right %", "Draw %", "Avg T", "Avg HP", "Stomp %", "Timeouts"}),
	)
	for _, r := range rows {
		s := r.Stats
		row := []string{
			r.Left,
			r.Right,
			fmt.Sprintf("%d", s.Runs),
			fmt.Sprintf("%.1f", s.LeftWinRate()),
			fmt.Sprintf("%.1f", s.RightWinRate()),
			fmt.Sprintf("%.1f", s.DrawRate()),
			fmt.Sprintf("%.1fs", s.AvgTimeToWin),
			fmt.Sprintf("%.0f", s.AvgWinnerBaseHpRemaining),
			fmt.Sprintf("%.1f", s.StompRate()),
			fmt.Sprintf("%d", s.Timeouts),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
