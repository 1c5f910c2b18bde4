package store

import (
	"strings"
	"testing"
)

func TestParseRow(t *testing.T) {
	r, err := parseRow([]interface{}{"12", "Q13", "4", "Tom"})
	if err != nil {
		t.Fatalf("parse row: %v", err)
	}
	if r.ProblemIndex != 12 || r.QuestionID != "Q13" || r.Rating != 4 || r.RaterID != "Tom" {
		t.Fatalf("unexpected rating: %+v", r)
	}
}

func TestParseRowTrimsCells(t *testing.T) {
	r, err := parseRow([]interface{}{" 3 ", " Q4 ", " 5 ", " Alice "})
	if err != nil {
		t.Fatalf("parse row: %v", err)
	}
	if r.ProblemIndex != 3 || r.QuestionID != "Q4" || r.RaterID != "Alice" {
		t.Fatalf("cells not trimmed: %+v", r)
	}
}

func TestParseRowErrors(t *testing.T) {
	if _, err := parseRow([]interface{}{"1", "Q2"}); err == nil {
		t.Fatalf("expected error for short row")
	}
	if _, err := parseRow([]interface{}{"x", "Q2", "4", "Tom"}); err == nil {
		t.Fatalf("expected error for non-integer problem_index")
	}
	_, err := parseRow([]interface{}{"1", "Q2", "often", "Tom"})
	if err == nil {
		t.Fatalf("expected error for non-integer rating")
	}
	if !strings.Contains(err.Error(), "rating") {
		t.Fatalf("error %q does not name the rating column", err)
	}
}

func TestIsEmptyRow(t *testing.T) {
	if !isEmptyRow([]interface{}{}) {
		t.Fatalf("expected empty slice to be empty")
	}
	if !isEmptyRow([]interface{}{"", "  ", ""}) {
		t.Fatalf("expected blank cells to be empty")
	}
	if isEmptyRow([]interface{}{"", "Q1"}) {
		t.Fatalf("expected row with content to be non-empty")
	}
}

func TestRatingCellAddressesDataRows(t *testing.T) {
	s := &Sheet{worksheet: "Ratings"}
	if got := s.ratingCell(0); got != "'Ratings'!C2" {
		t.Fatalf("expected first data row at C2, got %q", got)
	}
	if got := s.ratingCell(7); got != "'Ratings'!C9" {
		t.Fatalf("expected eighth data row at C9, got %q", got)
	}
}

func TestRangeA1QuotesWorksheet(t *testing.T) {
	s := &Sheet{worksheet: "Survey Ratings"}
	if got := s.rangeA1("A2:D"); got != "'Survey Ratings'!A2:D" {
		t.Fatalf("unexpected range %q", got)
	}
}
