package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"par/internal/preflight"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderTable draws rows under headers with rounded borders. Columns listed
// in right are right-aligned; short rows are padded.
func renderTable(headers []string, rows [][]string, right ...int) string {
	if len(headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, len(headers)))
	for _, row := range rows {
		tw.AppendRow(toRow(row, len(headers)))
	}
	configs := make([]table.ColumnConfig, 0, len(right))
	for _, col := range right {
		configs = append(configs, table.ColumnConfig{Number: col + 1, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toRow(cells []string, width int) table.Row {
	row := make(table.Row, width)
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}

// checkLine renders a preflight result as "  Name:   [OK] detail". The
// status is colored only when out is a color-capable terminal.
func checkLine(out io.Writer, r preflight.Result) string {
	status, color := "OK", lipgloss.Color("2")
	if !r.Passed {
		status, color = "FAIL", lipgloss.Color("1")
	}
	badge := lipgloss.NewRenderer(out).NewStyle().Foreground(color).Bold(true).Render("[" + status + "]")
	line := fmt.Sprintf("  %-20s %s", r.Name+":", badge)
	if r.Detail != "" {
		line += " " + r.Detail
	}
	return line
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
