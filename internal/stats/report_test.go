package stats

import (
	"context"
	"path/filepath"
	"testing"

	"rateboard/internal/model"
	"rateboard/internal/store"
)

func testProblems(n int) []model.Problem {
	problems := make([]model.Problem, n)
	for i := range problems {
		problems[i] = model.Problem{
			Index:              i,
			QuestionID:         "Q" + string(rune('1'+i)),
			QuestionText:       "How often?",
			ResponseOptions:    "1-5",
			ProblemDescription: "vague recall period",
		}
	}
	return problems
}

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ratings.db")
	st, err := store.OpenSQLite(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	seed := []model.Rating{
		{ProblemIndex: 0, QuestionID: "Q1", Rating: 3, RaterID: "Tom"},
		{ProblemIndex: 1, QuestionID: "Q2", Rating: 5, RaterID: "Tom"},
		{ProblemIndex: 0, QuestionID: "Q1", Rating: 4, RaterID: "Patrick"},
		{ProblemIndex: 2, QuestionID: "Q3", Rating: 2, RaterID: "Becky"},
	}
	for _, r := range seed {
		if err := st.Set(ctx, r); err != nil {
			t.Fatalf("set: %v", err)
		}
	}

	problems := testProblems(4)
	report, err := BuildReport(ctx, st, problems)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	if len(report.Aggregates) != 4 {
		t.Fatalf("expected 4 aggregates, got %d", len(report.Aggregates))
	}
	first := report.Aggregates[0]
	if first.Count != 2 || first.Mean != 3.5 {
		t.Fatalf("expected problem 0 count 2 mean 3.5, got %d %.2f", first.Count, first.Mean)
	}
	if first.ByRater["Tom"] != 3 || first.ByRater["Patrick"] != 4 {
		t.Fatalf("unexpected per-rater ratings: %+v", first.ByRater)
	}
	if report.Aggregates[3].Count != 0 {
		t.Fatalf("expected problem 3 unrated, got count %d", report.Aggregates[3].Count)
	}

	byName := map[string]RaterProgress{}
	for _, rp := range report.Raters {
		byName[rp.RaterID] = rp
	}
	tom := byName["Tom"]
	if tom.Lo != 0 || tom.Hi != 2 || tom.Rated != 2 {
		t.Fatalf("unexpected Tom progress: %+v", tom)
	}
	if tom.Mean != 4 {
		t.Fatalf("expected Tom mean 4, got %.2f", tom.Mean)
	}
	if tom.Distribution[2] != 1 || tom.Distribution[4] != 1 {
		t.Fatalf("unexpected Tom distribution: %v", tom.Distribution)
	}
	becky := byName["Becky"]
	if becky.Lo != 2 || becky.Hi != 4 || becky.Rated != 1 {
		t.Fatalf("unexpected Becky progress: %+v", becky)
	}
	patrick := byName["Patrick"]
	if patrick.Lo != 0 || patrick.Hi != 4 || patrick.Rated != 1 {
		t.Fatalf("unexpected Patrick progress: %+v", patrick)
	}

	filtered := report.FilterRater("Tom")
	if len(filtered.Raters) != 1 || filtered.Raters[0].RaterID != "Tom" {
		t.Fatalf("unexpected filtered raters: %+v", filtered.Raters)
	}
	if len(filtered.Aggregates) != 4 {
		t.Fatalf("filter dropped problem aggregates")
	}
}

func TestBuildReportIgnoresStaleIndexes(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	if err := st.Set(ctx, model.Rating{ProblemIndex: 9, QuestionID: "Q10", Rating: 5, RaterID: "Patrick"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	report, err := BuildReport(ctx, st, testProblems(2))
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	for _, agg := range report.Aggregates {
		if agg.Count != 0 {
			t.Fatalf("stale rating counted against problem %d", agg.Problem.Index)
		}
	}
}
