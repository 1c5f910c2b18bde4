package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Rater", "Rated", "Mean"}
	rows := [][]string{
		{"Tom", "5/5", "3.40"},
		{"Caroline", "2/5", "4.50"},
	}
	lines := formatTable(headers, rows, map[int]bool{1: true, 2: true})
	want := []string{
		"Rater    Rated Mean",
		"Tom        5/5 3.40",
		"Caroline   2/5 4.50",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestTruncateCell(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"a very long description", 8, "a very …"},
		{"abc", 0, "abc"},
		{"abc", 1, "…"},
	}
	for _, tc := range cases {
		if got := truncateCell(tc.in, tc.max); got != tc.want {
			t.Fatalf("truncateCell(%q, %d): expected %q, got %q", tc.in, tc.max, got, tc.want)
		}
	}
}
