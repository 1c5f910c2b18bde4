package stats

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	err := PlotSeries(&buf, "Severity by Catalog Position", []Series{
		{Name: "Tom", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "Becky", Values: []float64{5, 4, 4, 3, 5}},
	}, 12, 4)
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Severity by Catalog Position", "5 │", "1 │", "Legend:", "Tom (solid)", "Becky (dashed)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected title, 4 chart rows and a legend, got %d lines:\n%s", len(lines), out)
	}
}

func TestPlotSeriesSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "Empty", []Series{{Name: "Tom"}}, 12, 4); err != nil {
		t.Fatalf("plot: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty series, got %q", buf.String())
	}
}

func TestFitSeriesShrinksByAveraging(t *testing.T) {
	got := fitSeries([]float64{1, 3, 2, 4}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("expected [2 3], got %v", got)
	}
}

func TestFitSeriesStretchesByInterpolation(t *testing.T) {
	got := fitSeries([]float64{1, 3}, 3)
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", got)
	}
}

func TestSeverityRowSpansScale(t *testing.T) {
	if got := severityRow(5, 16); got != 0 {
		t.Fatalf("severity 5 should sit on the top row, got %d", got)
	}
	if got := severityRow(1, 16); got != 15 {
		t.Fatalf("severity 1 should sit on the bottom row, got %d", got)
	}
	if got := severityRow(3, 16); got != 8 {
		t.Fatalf("severity 3 should sit mid-chart, got %d", got)
	}
}

func TestPlotWidthFor(t *testing.T) {
	axis := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	if got := PlotWidthFor(80); got != 80-axis {
		t.Fatalf("expected %d, got %d", 80-axis, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected fallback to %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(axis + 2); got != minPlotWidth {
		t.Fatalf("expected narrow terminal to clamp to %d, got %d", minPlotWidth, got)
	}
}
