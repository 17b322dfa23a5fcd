package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trebuchet/internal/driver"
)

// SummaryOpts configures RenderSummary.
type SummaryOpts struct {
	Color bool
	Width int // 0 = 80
}

// SummaryRow is one file of a multi-file run.
type SummaryRow struct {
	Path   string
	Status string // ok, cached, error
	Lines  int
	Total  int
	Err    string
}

// RowsFromBatch converts driver results into summary rows.
func RowsFromBatch(batch *driver.BatchResult) []SummaryRow {
	rows := make([]SummaryRow, 0, len(batch.Files))
	for i := range batch.Files {
		f := &batch.Files[i]
		row := SummaryRow{Path: f.Path, Status: "ok", Lines: len(f.Result.Lines), Total: f.Total()}
		switch {
		case f.Err != nil:
			row.Status = "error"
			row.Err = f.Err.Error()
		case f.Cached:
			row.Status = "cached"
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderSummary renders per-file totals and the grand total as a table.
func RenderSummary(rows []SummaryRow, total int, opts SummaryOpts) string {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	render := func(style lipgloss.Style, s string) string {
		if !opts.Color {
			return s
		}
		return style.Render(s)
	}

	const statusWidth, numWidth = 8, 10
	nameWidth := max(width-statusWidth-2*numWidth-6, 12)

	var b strings.Builder
	header := fmt.Sprintf("%s  %-*s %*s %*s", padRight("file", nameWidth), statusWidth, "status", numWidth, "lines", numWidth, "total")
	b.WriteString(render(titleStyle, strings.TrimRight(header, " ")))
	b.WriteString("\n")

	for _, r := range rows {
		name := padRight(truncate(r.Path, nameWidth), nameWidth)
		status := render(styleStatus(r.Status), fmt.Sprintf("%-*s", statusWidth, r.Status))
		if r.Status == "error" {
			fmt.Fprintf(&b, "%s  %s %*s %*s\n", name, status, numWidth, "-", numWidth, "-")
			if r.Err != "" {
				b.WriteString(render(dimStyle, "    "+truncate(r.Err, width-4)))
				b.WriteString("\n")
			}
			continue
		}
		fmt.Fprintf(&b, "%s  %s %*d %*d\n", name, status, numWidth, r.Lines, numWidth, r.Total)
	}

	rule := strings.Repeat("─", nameWidth+statusWidth+2*numWidth+4)
	b.WriteString(render(dimStyle, rule))
	b.WriteString("\n")
	totalLine := fmt.Sprintf("%s  %-*s %*s %*d", padRight("total", nameWidth), statusWidth, "", numWidth, "", numWidth, total)
	b.WriteString(render(totalStyle, totalLine))
	b.WriteString("\n")
	return b.String()
}
