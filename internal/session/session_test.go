package session

import (
	"context"
	"testing"

	"rateboard/internal/model"
	"rateboard/internal/store"
)

func TestNewResolvesAssignment(t *testing.T) {
	s, err := New("Tom", 10)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	lo, hi := s.Bounds()
	if lo != 0 || hi != 5 {
		t.Fatalf("expected [0,5), got [%d,%d)", lo, hi)
	}
	if s.Current() != 0 {
		t.Fatalf("expected cursor at 0, got %d", s.Current())
	}
}

func TestNewRejectsEmptyAssignment(t *testing.T) {
	if _, err := New("Tom", 1); err == nil {
		t.Fatalf("expected error for empty first half")
	}
	if _, err := New("Nobody", 10); err == nil {
		t.Fatalf("expected error for unknown rater")
	}
}

func TestSecondHalfStartsAtMidpoint(t *testing.T) {
	s, err := New("Becky", 7)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	lo, hi := s.Bounds()
	if lo != 3 || hi != 7 {
		t.Fatalf("expected [3,7), got [%d,%d)", lo, hi)
	}
	if s.Current() != 3 {
		t.Fatalf("expected cursor at 3, got %d", s.Current())
	}
}

func TestAdvanceRetreatBoundaries(t *testing.T) {
	s, err := New("Tom", 4)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Retreat() {
		t.Fatalf("retreat at the first index should be a no-op")
	}
	if !s.Advance() || s.Current() != 1 {
		t.Fatalf("expected advance to 1, got %d", s.Current())
	}
	if s.Advance() {
		t.Fatalf("advance at the last index should be a no-op")
	}
	if s.Current() != 1 {
		t.Fatalf("no-op advance moved the cursor to %d", s.Current())
	}
	if !s.Retreat() || s.Current() != 0 {
		t.Fatalf("expected retreat to 0, got %d", s.Current())
	}
}

func TestJumpRejectsOutsideAssignment(t *testing.T) {
	s, err := New("Tom", 10)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Jump(3); err != nil {
		t.Fatalf("jump inside range: %v", err)
	}
	for _, target := range []int{-1, 5, 9} {
		if err := s.Jump(target); err == nil {
			t.Fatalf("expected jump to %d to be rejected", target)
		}
	}
	if s.Current() != 3 {
		t.Fatalf("rejected jump moved the cursor to %d", s.Current())
	}
}

func TestClampResetsStrayCursor(t *testing.T) {
	s, err := New("Becky", 10)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.current = 2 // below the assigned range
	s.Clamp()
	if s.current != 5 {
		t.Fatalf("expected clamp to reset to 5, got %d", s.current)
	}
}

func TestFirstUnrated(t *testing.T) {
	s, err := New("Tom", 6)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.LoadRatings([]model.Rating{
		{ProblemIndex: 0, Rating: 3, RaterID: "Tom"},
		{ProblemIndex: 1, Rating: 4, RaterID: "Tom"},
	})
	i, ok := s.FirstUnrated()
	if !ok || i != 2 {
		t.Fatalf("expected first unrated 2, got %d ok=%v", i, ok)
	}
	s.LoadRatings([]model.Rating{
		{ProblemIndex: 0, Rating: 3, RaterID: "Tom"},
		{ProblemIndex: 1, Rating: 4, RaterID: "Tom"},
		{ProblemIndex: 2, Rating: 2, RaterID: "Tom"},
	})
	if _, ok := s.FirstUnrated(); ok {
		t.Fatalf("expected no unrated problem")
	}
}

func TestLoadRatingsFiltersRaterAndRange(t *testing.T) {
	s, err := New("Tom", 10)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.LoadRatings([]model.Rating{
		{ProblemIndex: 0, Rating: 5, RaterID: "Caroline"},
		{ProblemIndex: 7, Rating: 5, RaterID: "Tom"},
		{ProblemIndex: 1, Rating: 2, RaterID: "Tom"},
	})
	rated, assigned := s.Progress()
	if rated != 1 || assigned != 5 {
		t.Fatalf("expected progress 1/5, got %d/%d", rated, assigned)
	}
	if _, ok := s.Rating(0); ok {
		t.Fatalf("Caroline's rating leaked into Tom's view")
	}
}

func TestRecordAutoAdvances(t *testing.T) {
	s, err := New("Tom", 6)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.Record(4)
	if s.Current() != 1 {
		t.Fatalf("expected auto-advance to 1, got %d", s.Current())
	}
	if s.Complete() {
		t.Fatalf("session flagged complete too early")
	}
	if r, ok := s.Rating(0); !ok || r != 4 {
		t.Fatalf("expected rating 4 recorded at 0, got %d ok=%v", r, ok)
	}
}

func TestRecordAtLastIndexFlagsComplete(t *testing.T) {
	s, err := New("Tom", 4)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Jump(1); err != nil {
		t.Fatalf("jump: %v", err)
	}
	s.Record(3)
	if !s.Complete() {
		t.Fatalf("expected completion at the last assigned index")
	}
	if s.Current() != 1 {
		t.Fatalf("completion moved the cursor to %d", s.Current())
	}
}

func TestUnratedOnlyNavigation(t *testing.T) {
	s, err := New("Tom", 10)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	s.LoadRatings([]model.Rating{
		{ProblemIndex: 0, Rating: 1, RaterID: "Tom"},
		{ProblemIndex: 2, Rating: 2, RaterID: "Tom"},
		{ProblemIndex: 3, Rating: 3, RaterID: "Tom"},
	})
	s.SetUnratedOnly(true)
	if s.Current() != 1 {
		t.Fatalf("expected snap to first unrated 1, got %d", s.Current())
	}
	if !s.Advance() || s.Current() != 4 {
		t.Fatalf("expected advance to skip to 4, got %d", s.Current())
	}
	if s.Advance() {
		t.Fatalf("expected no unrated problem ahead")
	}
	if !s.Retreat() || s.Current() != 1 {
		t.Fatalf("expected retreat to skip back to 1, got %d", s.Current())
	}
	if s.Retreat() {
		t.Fatalf("expected no unrated problem behind")
	}
	s.SetUnratedOnly(false)
	if !s.Advance() || s.Current() != 2 {
		t.Fatalf("expected plain advance to 2, got %d", s.Current())
	}
}

func TestRatingSessionEndToEnd(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	s, err := New("Tom", 10)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	lo, hi := s.Bounds()
	if lo != 0 || hi != 5 {
		t.Fatalf("expected assignment [0,5), got [%d,%d)", lo, hi)
	}

	if err := s.Jump(2); err != nil {
		t.Fatalf("jump: %v", err)
	}
	r := model.Rating{ProblemIndex: 2, QuestionID: "Q3", Rating: 4, RaterID: "Tom"}
	if err := st.Set(ctx, r); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Record(r.Rating)

	got, ok, err := st.Get(ctx, 2, "Tom")
	if err != nil || !ok || got.Rating != 4 {
		t.Fatalf("expected stored rating 4, got %+v ok=%v err=%v", got, ok, err)
	}
	rated, assigned := s.Progress()
	if rated != 1 || assigned != 5 {
		t.Fatalf("expected progress 1/5, got %d/%d", rated, assigned)
	}
	first, ok := s.FirstUnrated()
	if !ok || first != 0 {
		t.Fatalf("expected first unrated 0, got %d ok=%v", first, ok)
	}
	if s.Current() != 3 {
		t.Fatalf("expected auto-advance to 3, got %d", s.Current())
	}
}
