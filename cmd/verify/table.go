package verify

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderReport formats the verification report as a fill-rate table.
func renderReport(report Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Field", "Filled", "Coverage", "Invalid"})

	for _, stats := range report.Fields {
		coverage := "0.0%"
		if report.Total > 0 {
			coverage = fmt.Sprintf("%.1f%%", float64(stats.Filled)/float64(report.Total)*100)
		}
		tw.AppendRow(table.Row{stats.Field, stats.Filled, coverage, stats.Invalid})
	}

	tw.AppendFooter(table.Row{
		"records", report.Total,
		fmt.Sprintf("no_results %d", report.NoResults),
		fmt.Sprintf("guessed %d", report.Guessed),
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})

	return tw.Render()
}
