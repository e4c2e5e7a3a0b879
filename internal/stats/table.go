package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable aligns cells into columns. A rule line follows the header.
func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	colCount := len(headers)
	for _, row := range rows {
		colCount = max(colCount, len(row))
	}
	if colCount == 0 {
		return nil
	}

	widths := make([]int, colCount)
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}

	lines := make([]string, 0, len(rows)+2)
	if len(headers) > 0 {
		lines = append(lines, formatRow(headers, widths, rightAlignCols))
		rule := make([]string, colCount)
		for i, w := range widths {
			rule[i] = strings.Repeat("-", w)
		}
		lines = append(lines, strings.Join(rule, " "))
	}
	for _, row := range rows {
		lines = append(lines, formatRow(row, widths, rightAlignCols))
	}
	return lines
}

func formatRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = padCell(cell, width, rightAlignCols[i])
	}
	return strings.TrimRight(strings.Join(cells, " "), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	if rightAlign {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}
