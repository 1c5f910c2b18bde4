// Package stats contains rating metrics and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"rateboard/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Distribution counts ratings per scale value; index 0 holds rating 1.
func Distribution(values []int) [5]int {
	var dist [5]int
	for _, v := range values {
		if model.ValidRating(v) {
			dist[v-model.RatingMin]++
		}
	}
	return dist
}

// DistributionSpark renders a rating distribution as a sparkline, one
// character per scale value.
func DistributionSpark(dist [5]int) string {
	values := make([]float64, len(dist))
	for i, c := range dist {
		values[i] = float64(c)
	}
	return Sparkline(values)
}

// MovingAverage smooths values with a trailing window; early positions
// average over the shorter prefix.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	sum := 0.0
	for i, v := range values {
		sum += v
		n := i + 1
		if n > window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders values as a one-line bar of density characters.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	buf := make([]byte, len(values))
	scale := float64(len(sparkChars)-1) / (hi - lo)
	for i, v := range values {
		idx := int(math.Round((v - lo) * scale))
		if idx < 0 {
			idx = 0
		} else if idx > len(sparkChars)-1 {
			idx = len(sparkChars) - 1
		}
		buf[i] = sparkChars[idx]
	}
	return string(buf)
}

// RenderSummary prints overall catalog progress.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.Problems) == 0 {
		_, err := fmt.Fprintln(w, "No problems in catalog.")
		return err
	}
	var dist [5]int
	rated, assigned := 0, 0
	for _, rp := range report.Raters {
		rated += rp.Rated
		assigned += rp.Hi - rp.Lo
		for i, c := range rp.Distribution {
			dist[i] += c
		}
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Problems: %d\n", len(report.Problems)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Raters: %d\n", len(report.Raters)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Rated pairs: %d of %d\n", rated, assigned); err != nil {
		return err
	}
	if rated > 0 {
		sum := 0
		for i, c := range dist {
			sum += (i + model.RatingMin) * c
		}
		if _, err := fmt.Fprintf(w, "Mean severity: %.2f\n", float64(sum)/float64(rated)); err != nil {
			return err
		}
		counts := make([]string, len(dist))
		for i, c := range dist {
			counts[i] = fmt.Sprintf("%d", c)
		}
		if _, err := fmt.Fprintf(w, "Distribution 1-5: %s  %s\n", strings.Join(counts, " "), DistributionSpark(dist)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return nil
}

// RenderRaterTable prints per-rater progress rows.
func RenderRaterTable(w io.Writer, report Report) error {
	if len(report.Raters) == 0 {
		_, err := fmt.Fprintln(w, "No raters found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Raters"); err != nil {
		return err
	}
	headers := []string{"Rater", "Problems", "Rated", "Progress", "Mean", "Distribution"}
	rows := make([][]string, 0, len(report.Raters))
	for _, rp := range report.Raters {
		assigned := rp.Hi - rp.Lo
		problemsCol := "-"
		if assigned > 0 {
			problemsCol = fmt.Sprintf("%d-%d", rp.Lo+1, rp.Hi)
		}
		progress := "-"
		if assigned > 0 {
			progress = fmt.Sprintf("%d%%", rp.Rated*100/assigned)
		}
		mean := "-"
		if rp.Rated > 0 {
			mean = fmt.Sprintf("%.2f", rp.Mean)
		}
		rows = append(rows, []string{
			rp.RaterID,
			problemsCol,
			fmt.Sprintf("%d/%d", rp.Rated, assigned),
			progress,
			mean,
			DistributionSpark(rp.Distribution),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return nil
}

// RenderSevereTable prints the most severe rated problems.
func RenderSevereTable(w io.Writer, report Report, top int) error {
	severe := SelectSevereProblems(report.Aggregates, top)
	if len(severe) == 0 {
		_, err := fmt.Fprintln(w, "No rated problems yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Most Severe Problems"); err != nil {
		return err
	}
	headers := []string{"Problem", "Question", "Mean", "Ratings", "Issue"}
	rows := make([][]string, 0, len(severe))
	for _, agg := range severe {
		rows = append(rows, []string{
			fmt.Sprintf("%d", agg.Problem.Index+1),
			agg.Problem.QuestionID,
			fmt.Sprintf("%.2f", agg.Mean),
			fmt.Sprintf("%d", agg.Count),
			truncateCell(agg.Problem.ProblemDescription, 48),
		})
	}
	rightAlign := map[int]bool{0: true, 2: true, 3: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	return nil
}

// RenderSeverityCurves prints per-rater severity over catalog position.
func RenderSeverityCurves(w io.Writer, report Report, window int) error {
	return RenderSeverityCurvesWithSize(w, report, window, 0, 10, false)
}

// RenderSeverityCurvesWithSize prints severity curves sized to a given total width.
func RenderSeverityCurvesWithSize(w io.Writer, report Report, window, totalWidth, height int, useColor bool) error {
	series := make([]Series, 0, len(report.Raters))
	for _, rp := range report.Raters {
		values := raterSeverityValues(report, rp)
		if len(values) < 2 {
			continue
		}
		series = append(series, Series{Name: rp.RaterID, Values: MovingAverage(values, window)})
	}
	if len(series) == 0 {
		return nil
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Severity by Catalog Position", series, width, height, useColor)
}

// raterSeverityValues collects the rater's ratings in catalog order,
// skipping unrated positions.
func raterSeverityValues(report Report, rp RaterProgress) []float64 {
	values := make([]float64, 0, rp.Hi-rp.Lo)
	for i := rp.Lo; i < rp.Hi && i < len(report.Aggregates); i++ {
		if v, ok := report.Aggregates[i].ByRater[rp.RaterID]; ok {
			values = append(values, float64(v))
		}
	}
	return values
}
