// Package stats contains rating metrics and reporting.
package stats

import (
	"context"

	"rateboard/internal/model"
	"rateboard/internal/rater"
	"rateboard/internal/store"
)

// RaterProgress summarizes one rater's assignment. Distribution counts
// ratings per scale value; index 0 holds rating 1.
type RaterProgress struct {
	RaterID      string
	Lo           int
	Hi           int
	Rated        int
	Mean         float64
	Distribution [5]int
}

// ProblemAggregate summarizes the ratings recorded for one problem.
type ProblemAggregate struct {
	Problem model.Problem
	ByRater map[string]int
	Count   int
	Mean    float64
}

// Report aggregates ratings into the figures the renderers consume.
type Report struct {
	Problems   []model.Problem
	Ratings    []model.Rating
	Raters     []RaterProgress
	Aggregates []ProblemAggregate
}

// BuildReport loads every rating and prepares per-problem and per-rater
// aggregates for rendering.
func BuildReport(ctx context.Context, st store.Store, problems []model.Problem) (Report, error) {
	all, err := st.All(ctx)
	if err != nil {
		return Report{}, err
	}
	ratings := dedupe(all)

	aggs := make([]ProblemAggregate, len(problems))
	for i, p := range problems {
		aggs[i] = ProblemAggregate{Problem: p, ByRater: map[string]int{}}
	}
	for _, r := range ratings {
		if r.ProblemIndex < 0 || r.ProblemIndex >= len(aggs) {
			continue
		}
		aggs[r.ProblemIndex].ByRater[r.RaterID] = r.Rating
	}
	for i := range aggs {
		sum := 0
		for _, v := range aggs[i].ByRater {
			sum += v
		}
		aggs[i].Count = len(aggs[i].ByRater)
		if aggs[i].Count > 0 {
			aggs[i].Mean = float64(sum) / float64(aggs[i].Count)
		}
	}

	names := rater.Names()
	raters := make([]RaterProgress, 0, len(names))
	for _, name := range names {
		lo, hi, err := rater.Resolve(name, len(problems))
		if err != nil {
			return Report{}, err
		}
		row := RaterProgress{RaterID: name, Lo: lo, Hi: hi}
		sum := 0
		for _, r := range ratings {
			if r.RaterID != name || r.ProblemIndex < lo || r.ProblemIndex >= hi {
				continue
			}
			if !model.ValidRating(r.Rating) {
				continue
			}
			row.Rated++
			sum += r.Rating
			row.Distribution[r.Rating-model.RatingMin]++
		}
		if row.Rated > 0 {
			row.Mean = float64(sum) / float64(row.Rated)
		}
		raters = append(raters, row)
	}

	return Report{
		Problems:   problems,
		Ratings:    ratings,
		Raters:     raters,
		Aggregates: aggs,
	}, nil
}

// FilterRater narrows the per-rater rows to a single rater. The
// problem aggregates keep everyone's ratings.
func (r Report) FilterRater(raterID string) Report {
	if raterID == "" {
		return r
	}
	filtered := make([]RaterProgress, 0, 1)
	for _, rp := range r.Raters {
		if rp.RaterID == raterID {
			filtered = append(filtered, rp)
		}
	}
	r.Raters = filtered
	return r
}

// dedupe keeps the first stored rating per key, matching the sheet
// backend's first-match scan order.
func dedupe(all []model.Rating) []model.Rating {
	seen := make(map[model.Key]struct{}, len(all))
	out := make([]model.Rating, 0, len(all))
	for _, r := range all {
		if _, ok := seen[r.Key()]; ok {
			continue
		}
		seen[r.Key()] = struct{}{}
		out = append(out, r)
	}
	return out
}
