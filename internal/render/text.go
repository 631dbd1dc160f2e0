package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"support-monitor/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	totalStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// TextTable renders the view as a bordered terminal table.
func TextTable(v View) string {
	headers := []string{"Service ID"}
	for _, h := range v.Hours {
		headers = append(headers, h.Label)
	}

	rows := make([][]string, 0, len(v.Rows)+1)
	for _, r := range v.Rows {
		row := []string{r.Label}
		for _, c := range r.Cells {
			row = append(row, c.Text)
		}
		rows = append(rows, row)
	}
	totalRow := len(rows)
	if !v.Empty() {
		row := []string{"Total"}
		for _, c := range v.Totals {
			row = append(row, c.Text)
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == totalRow:
				return totalStyle
			default:
				return cellStyle
			}
		})

	return t.String()
}

// Summary is a one-paragraph digest of the view with humanized counters.
func Summary(v View) string {
	var total model.HourlyBucket
	for _, c := range v.Totals {
		total = total.Add(c.Bucket)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s services, %s hours shown\n",
		humanize.Comma(int64(len(v.Rows))), humanize.Comma(int64(len(v.Hours))))
	fmt.Fprintf(&b, "PIN generated: %s (%s ok), PIN verified: %s (%s ok)\n",
		humanize.Comma(total.PinGen), humanize.Comma(total.PinGenSuccess),
		humanize.Comma(total.PinVer), humanize.Comma(total.PinVerSuccess))
	if v.DroppedEvents > 0 {
		fmt.Fprintf(&b, "%s record(s) had an hour outside 0-23 and were not placed\n",
			humanize.Comma(int64(v.DroppedEvents)))
	}
	return b.String()
}

// HourlyChart plots PIN generation totals across the visible hours. It
// returns an empty string when there are fewer than two hours to plot.
func HourlyChart(v View) string {
	if len(v.Totals) < 2 {
		return ""
	}
	data := make([]float64, 0, len(v.Totals))
	for _, c := range v.Totals {
		data = append(data, float64(c.Bucket.PinGen))
	}
	return asciigraph.Plot(data,
		asciigraph.Height(8),
		asciigraph.Caption(fmt.Sprintf("PIN generation per hour, %s to %s", v.Hours[0].Label, v.Hours[len(v.Hours)-1].Label)),
	)
}
