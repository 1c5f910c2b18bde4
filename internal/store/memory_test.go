package store

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"rateboard/internal/model"
)

func TestMemorySetIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	r := model.Rating{ProblemIndex: 2, QuestionID: "Q3", Rating: 4, RaterID: "Tom"}
	for i := 0; i < 2; i++ {
		if err := m.Set(ctx, r); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	got, ok, err := m.Get(ctx, 2, "Tom")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Rating != 4 {
		t.Fatalf("expected rating 4, got %d", got.Rating)
	}
	all, err := m.All(ctx)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 entry after repeated set, got %d", len(all))
	}
}

func TestMemoryOverwriteReplaces(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Set(ctx, model.Rating{ProblemIndex: 1, QuestionID: "Q2", Rating: 3, RaterID: "Tom"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := m.Set(ctx, model.Rating{ProblemIndex: 1, QuestionID: "Q2", Rating: 5, RaterID: "Tom"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := m.Get(ctx, 1, "Tom")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Rating != 5 {
		t.Fatalf("expected rating 5 after overwrite, got %d", got.Rating)
	}
	all, _ := m.All(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 entry after overwrite, got %d", len(all))
	}
}

func TestMemoryRatersAreIsolated(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if err := m.Set(ctx, model.Rating{ProblemIndex: 0, QuestionID: "Q1", Rating: 2, RaterID: "Tom"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := m.Get(ctx, 0, "Caroline"); err != nil || ok {
		t.Fatalf("expected no rating for Caroline, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryRejectsOffScaleRating(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, bad := range []int{0, 6, -1} {
		if err := m.Set(ctx, model.Rating{ProblemIndex: 0, QuestionID: "Q1", Rating: bad, RaterID: "Tom"}); err == nil {
			t.Fatalf("expected error for rating %d", bad)
		}
	}
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2025, 3, 1, 15, 4, 5, 0, time.UTC)
	got := ExportFileName("Tom", now)
	if got != "Tom_ratings_2025-03-01.csv" {
		t.Fatalf("unexpected export name %q", got)
	}
}

func TestMemoryExportCSV(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	ratings := []model.Rating{
		{ProblemIndex: 3, QuestionID: "Q4", Rating: 2, RaterID: "Tom"},
		{ProblemIndex: 1, QuestionID: "Q2", Rating: 5, RaterID: "Tom"},
		{ProblemIndex: 1, QuestionID: "Q2", Rating: 4, RaterID: "Patrick"},
	}
	for _, r := range ratings {
		if err := m.Set(ctx, r); err != nil {
			t.Fatalf("set: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := m.ExportCSV(&buf, "Tom"); err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"problem_index,question_id,rating,rater_id",
		"1,Q2,5,Tom",
		"3,Q4,2,Tom",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), buf.String())
	}
	for i, line := range want {
		if lines[i] != line {
			t.Fatalf("line %d: expected %q, got %q", i, line, lines[i])
		}
	}
}
