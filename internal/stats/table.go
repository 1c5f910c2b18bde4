// Package stats contains rating metrics and reporting.
package stats

import (
	"strings"
	"unicode/utf8"
)

// formatTable lays out rows as space-separated columns sized to the
// widest cell. rightAlignCols selects right-aligned columns by index.
func formatTable(headers []string, rows [][]string, rightAlignCols map[int]bool) []string {
	widths := columnWidths(headers, rows)
	if len(widths) == 0 {
		return nil
	}
	lines := make([]string, 0, len(rows)+1)
	if len(headers) > 0 {
		lines = append(lines, renderRow(headers, widths, rightAlignCols))
	}
	for _, row := range rows {
		lines = append(lines, renderRow(row, widths, rightAlignCols))
	}
	return lines
}

func columnWidths(headers []string, rows [][]string) []int {
	count := len(headers)
	for _, row := range rows {
		if len(row) > count {
			count = len(row)
		}
	}
	widths := make([]int, count)
	measure := func(row []string) {
		for i, cell := range row {
			if w := cellWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(headers)
	for _, row := range rows {
		measure(row)
	}
	return widths
}

func renderRow(row []string, widths []int, rightAlignCols map[int]bool) string {
	cells := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := ""
		if gap := widths[i] - cellWidth(cell); gap > 0 {
			pad = strings.Repeat(" ", gap)
		}
		if rightAlignCols[i] {
			cells[i] = pad + cell
		} else {
			cells[i] = cell + pad
		}
	}
	return strings.Join(cells, " ")
}

// truncateCell shortens long free-text cells so problem descriptions
// do not blow up the table layout.
func truncateCell(value string, max int) string {
	if max <= 0 || cellWidth(value) <= max {
		return value
	}
	if max == 1 {
		return "…"
	}
	return string([]rune(value)[:max-1]) + "…"
}

func cellWidth(value string) int {
	return utf8.RuneCountInString(value)
}
