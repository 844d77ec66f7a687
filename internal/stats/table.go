package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays rows out in space-separated columns sized to the widest
// cell, measured in terminal cells. Columns listed in right are
// right-aligned; short rows are padded with empty cells.
func formatTable(headers []string, rows [][]string, right map[int]bool) []string {
	cols := len(headers)
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}
	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, joinCells(headers, widths, right))
	}
	for _, row := range rows {
		lines = append(lines, joinCells(row, widths, right))
	}
	return lines
}

// writeTable prints a formatted table followed by a blank line.
func writeTable(w io.Writer, headers []string, rows [][]string, right map[int]bool) error {
	lines := append(formatTable(headers, rows, right), "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func joinCells(row []string, widths []int, right map[int]bool) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		pad := strings.Repeat(" ", max(width-runewidth.StringWidth(cell), 0))
		if right[i] {
			cells[i] = pad + cell
		} else {
			cells[i] = cell + pad
		}
	}
	return strings.Join(cells, " ")
}
