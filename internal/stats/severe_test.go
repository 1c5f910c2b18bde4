package stats

import (
	"testing"

	"rateboard/internal/model"
)

func TestSelectSevereProblems(t *testing.T) {
	aggs := []ProblemAggregate{
		{Problem: model.Problem{Index: 0}, Count: 2, Mean: 3.5},
		{Problem: model.Problem{Index: 1}},
		{Problem: model.Problem{Index: 2}, Count: 1, Mean: 5},
		{Problem: model.Problem{Index: 3}, Count: 2, Mean: 5},
	}
	severe := SelectSevereProblems(aggs, 2)
	if len(severe) != 2 {
		t.Fatalf("expected 2 problems, got %d", len(severe))
	}
	if severe[0].Problem.Index != 3 {
		t.Fatalf("expected index 3 first (mean tie broken by count), got %d", severe[0].Problem.Index)
	}
	if severe[1].Problem.Index != 2 {
		t.Fatalf("expected index 2 second, got %d", severe[1].Problem.Index)
	}
}

func TestSelectSevereProblemsSkipsUnrated(t *testing.T) {
	aggs := []ProblemAggregate{
		{Problem: model.Problem{Index: 0}},
		{Problem: model.Problem{Index: 1}, Count: 1, Mean: 2},
	}
	severe := SelectSevereProblems(aggs, 0)
	if len(severe) != 1 {
		t.Fatalf("expected only rated problems, got %d", len(severe))
	}
	if severe[0].Problem.Index != 1 {
		t.Fatalf("unexpected problem: %+v", severe[0])
	}
}
