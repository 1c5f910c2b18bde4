package rater

import "testing"

func TestResolveHalvesPartitionCatalog(t *testing.T) {
	for _, total := range []int{0, 1, 2, 7, 10, 101} {
		firstLo, firstHi, err := Resolve("Tom", total)
		if err != nil {
			t.Fatalf("resolve Tom: %v", err)
		}
		secondLo, secondHi, err := Resolve("Becky", total)
		if err != nil {
			t.Fatalf("resolve Becky: %v", err)
		}
		if firstLo != 0 || secondHi != total || firstHi != secondLo {
			t.Fatalf("total %d: halves [%d,%d) and [%d,%d) do not partition [0,%d)",
				total, firstLo, firstHi, secondLo, secondHi, total)
		}
	}
}

func TestResolveOddCatalog(t *testing.T) {
	lo, hi, err := Resolve("Caroline", 7)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if lo != 0 || hi != 3 {
		t.Fatalf("expected first half [0,3), got [%d,%d)", lo, hi)
	}
	lo, hi, err = Resolve("Alice", 7)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if lo != 3 || hi != 7 {
		t.Fatalf("expected second half [3,7), got [%d,%d)", lo, hi)
	}
}

func TestResolveAll(t *testing.T) {
	lo, hi, err := Resolve("Patrick", 10)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if lo != 0 || hi != 10 {
		t.Fatalf("expected [0,10), got [%d,%d)", lo, hi)
	}
}

func TestResolveUnknownRater(t *testing.T) {
	if _, _, err := Resolve("Nobody", 10); err == nil {
		t.Fatalf("expected error for unknown rater")
	}
}

func TestNamesStable(t *testing.T) {
	names := Names()
	want := []string{"Alice", "Becky", "Caroline", "Patrick", "Tom"}
	if len(names) != len(want) {
		t.Fatalf("expected %d raters, got %d", len(want), len(names))
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("expected %s at position %d, got %s", name, i, names[i])
		}
	}
}

func TestSuggest(t *testing.T) {
	if got := Suggest("tom"); got != "Tom" {
		t.Fatalf("expected Tom, got %q", got)
	}
	if got := Suggest("Carolin"); got != "Caroline" {
		t.Fatalf("expected Caroline, got %q", got)
	}
	if got := Suggest("Zebediah"); got != "" {
		t.Fatalf("expected no suggestion, got %q", got)
	}
}
