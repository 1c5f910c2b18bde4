// Package stats contains rating metrics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"

	"rateboard/internal/model"
)

// Series is one named severity curve.
type Series struct {
	Name   string
	Values []float64
}

// Every curve shares the fixed severity scale, so the axis carries
// rating values rather than per-series bounds.
const (
	defaultPlotHeight     = 10
	minPlotWidth          = 10
	axisLabelTop          = "5"
	axisLabelMid          = "3"
	axisLabelBottom       = "1"
	axisSeparator         = " │ "
	ansiReset             = "\x1b[0m"
	fallbackTerminalWidth = 80
)

// linePattern distinguishes series without color. Each bit of mask is
// one dot column in a repeating 8-column cycle; a dot is drawn only
// where its bit is set.
type linePattern struct {
	name string
	mask uint8
}

func (p linePattern) drawsAt(x int) bool {
	return p.mask>>(uint(x)%8)&1 != 0
}

var linePatterns = []linePattern{
	{name: "solid", mask: 0xFF},
	{name: "dashed", mask: 0x0F},
	{name: "dotted", mask: 0x11},
	{name: "dashdot", mask: 0x27},
}

var seriesColors = []string{
	"\x1b[36m", // cyan
	"\x1b[35m", // magenta
	"\x1b[33m", // yellow
	"\x1b[32m", // green
	"\x1b[34m", // blue
}

// PlotSeries renders severity curves as a braille chart.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return renderChart(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders severity curves, optionally forcing ANSI color.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	return renderChart(w, title, series, width, height, forceColor)
}

func renderChart(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	drawn := make([]Series, 0, len(series))
	for _, s := range series {
		if len(s.Values) > 0 {
			drawn = append(drawn, s)
		}
	}
	if len(drawn) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	grid := newCanvas(width, height)
	for si, s := range drawn {
		pattern := linePatterns[si%len(linePatterns)]
		prevX, prevY := -1, -1
		for x, v := range fitSeries(s.Values, width) {
			px, py := x*2, severityRow(v, height*4)
			if prevX < 0 {
				prevX, prevY = px, py
			}
			grid.line(prevX, prevY, px, py, si, pattern)
			prevX, prevY = px, py
		}
	}

	useColor := colorEnabled(w, forceColor)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	labelWidth := utf8.RuneCountInString(axisLabelTop)
	for y := range height {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", labelWidth, axisLabel(y, height), axisSeparator))
		for x := range width {
			ch, owner := grid.at(x, y)
			if useColor && ch != emptyBraille {
				row.WriteString(seriesColors[owner%len(seriesColors)])
				row.WriteRune(ch)
				row.WriteString(ansiReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, legendLine(drawn, useColor)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// PlotWidthFor computes the chart width that fits a total line width
// after the severity axis.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	axis := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	if w := totalWidth - axis; w >= minPlotWidth {
		return w
	}
	return minPlotWidth
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallbackTerminalWidth
}

func colorEnabled(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// severityRow maps a rating value onto a dot row; the top row is the
// highest severity.
func severityRow(v float64, dotRows int) int {
	if dotRows <= 1 {
		return 0
	}
	span := float64(model.RatingMax - model.RatingMin)
	pos := (v - float64(model.RatingMin)) / span
	row := int(math.Round((1 - pos) * float64(dotRows-1)))
	if row < 0 {
		row = 0
	}
	if row > dotRows-1 {
		row = dotRows - 1
	}
	return row
}

func axisLabel(row, height int) string {
	switch {
	case row == 0:
		return axisLabelTop
	case height > 2 && row == height/2:
		return axisLabelMid
	case height > 1 && row == height-1:
		return axisLabelBottom
	default:
		return ""
	}
}

// fitSeries resamples values onto the chart width: averaging buckets
// when the catalog is wider than the chart, linear interpolation when
// the chart is wider than the catalog.
func fitSeries(values []float64, width int) []float64 {
	switch {
	case len(values) == 0 || width <= 0:
		return nil
	case len(values) == width:
		out := make([]float64, width)
		copy(out, values)
		return out
	case len(values) > width:
		return shrinkSeries(values, width)
	default:
		return stretchSeries(values, width)
	}
}

func shrinkSeries(values []float64, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		if end <= start {
			end = start + 1
		}
		sum := 0.0
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

func stretchSeries(values []float64, width int) []float64 {
	out := make([]float64, width)
	if len(values) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	if width == 1 {
		out[0] = values[0]
		return out
	}
	step := float64(len(values)-1) / float64(width-1)
	last := len(values) - 1
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= last {
			out[i] = values[last]
			continue
		}
		t := pos - float64(idx)
		out[i] = values[idx] + (values[idx+1]-values[idx])*t
	}
	return out
}

func legendLine(series []Series, useColor bool) string {
	marker := rune(emptyBraille + 0x01)
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("%c %s (%s)", marker, s.Name, linePatterns[i%len(linePatterns)].name)
		if useColor {
			label = seriesColors[i%len(seriesColors)] + label + ansiReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

const emptyBraille = 0x2800

// brailleDots maps dot coordinates (x within the 2-wide cell, y within
// the 4-tall cell) onto the Unicode braille bit for that position.
var brailleDots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// cell is one braille character: a dot mask plus the series that first
// claimed it, which picks the color.
type cell struct {
	mask  uint8
	owner int
}

type canvas struct {
	cells  []cell
	width  int
	height int
}

func newCanvas(width, height int) *canvas {
	return &canvas{cells: make([]cell, width*height), width: width, height: height}
}

func (c *canvas) setDot(x, y, series int) {
	if x < 0 || y < 0 {
		return
	}
	cx, cy := x/2, y/4
	if cx >= c.width || cy >= c.height {
		return
	}
	cl := &c.cells[cy*c.width+cx]
	if cl.mask == 0 {
		cl.owner = series
	}
	cl.mask |= brailleDots[x%2][y%4]
}

func (c *canvas) at(x, y int) (rune, int) {
	cl := c.cells[y*c.width+x]
	return rune(emptyBraille + int(cl.mask)), cl.owner
}

// line draws a Bresenham segment in dot coordinates, honoring the
// series pattern.
func (c *canvas) line(x0, y0, x1, y1, series int, p linePattern) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		if p.drawsAt(x0) {
			c.setDot(x0, y0, series)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
