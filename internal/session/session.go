// Package session tracks one rater's position within the problem catalog.
package session

import (
	"fmt"

	"rateboard/internal/model"
	"rateboard/internal/rater"
)

// Session is the navigation state for one rater over an assigned
// catalog range [lo, hi). It keeps a local view of the rater's ratings
// so navigation queries never touch the store; the caller syncs the
// view from the store and records successful writes.
type Session struct {
	raterID     string
	lo, hi      int
	current     int
	ratings     map[int]int
	unratedOnly bool
	complete    bool
}

// New resolves the rater's assignment over a catalog of the given size.
func New(raterID string, totalProblems int) (*Session, error) {
	lo, hi, err := rater.Resolve(raterID, totalProblems)
	if err != nil {
		return nil, err
	}
	if lo >= hi {
		return nil, fmt.Errorf("rater %s has no assigned problems (catalog size %d)", raterID, totalProblems)
	}
	return &Session{
		raterID: raterID,
		lo:      lo,
		hi:      hi,
		current: lo,
		ratings: make(map[int]int),
	}, nil
}

// RaterID returns the session's rater.
func (s *Session) RaterID() string { return s.raterID }

// Bounds returns the assigned range [lo, hi).
func (s *Session) Bounds() (lo, hi int) { return s.lo, s.hi }

// Assigned returns the number of assigned problems.
func (s *Session) Assigned() int { return s.hi - s.lo }

// Current returns the cursor position.
func (s *Session) Current() int {
	s.Clamp()
	return s.current
}

// Clamp resets the cursor to the start of the assignment if it has
// left the assigned range.
func (s *Session) Clamp() {
	if s.current < s.lo || s.current >= s.hi {
		s.current = s.lo
	}
}

// Jump moves the cursor to target, which must be inside the assignment.
func (s *Session) Jump(target int) error {
	if target < s.lo || target >= s.hi {
		return fmt.Errorf("problem %d is outside the assigned range [%d, %d)", target, s.lo, s.hi)
	}
	s.current = target
	return nil
}

// Advance moves the cursor forward and reports whether it moved. With
// the unrated-only view active it moves to the next unrated problem and
// stays put when none remains ahead.
func (s *Session) Advance() bool {
	s.Clamp()
	if s.unratedOnly {
		for i := s.current + 1; i < s.hi; i++ {
			if _, ok := s.ratings[i]; !ok {
				s.current = i
				return true
			}
		}
		return false
	}
	if s.current >= s.hi-1 {
		return false
	}
	s.current++
	return true
}

// Retreat moves the cursor backward, symmetric to Advance.
func (s *Session) Retreat() bool {
	s.Clamp()
	if s.unratedOnly {
		for i := s.current - 1; i >= s.lo; i-- {
			if _, ok := s.ratings[i]; !ok {
				s.current = i
				return true
			}
		}
		return false
	}
	if s.current <= s.lo {
		return false
	}
	s.current--
	return true
}

// FirstUnrated returns the first assigned index without a rating, or
// false when every assigned problem is rated.
func (s *Session) FirstUnrated() (int, bool) {
	for i := s.lo; i < s.hi; i++ {
		if _, ok := s.ratings[i]; !ok {
			return i, true
		}
	}
	return 0, false
}

// JumpToFirstUnrated moves the cursor to the first unrated problem and
// reports whether one existed.
func (s *Session) JumpToFirstUnrated() bool {
	i, ok := s.FirstUnrated()
	if !ok {
		return false
	}
	s.current = i
	return true
}

// UnratedOnly reports whether the unrated-only view is active.
func (s *Session) UnratedOnly() bool { return s.unratedOnly }

// SetUnratedOnly toggles the unrated-only view. Enabling it snaps the
// cursor to the first unrated problem when one exists.
func (s *Session) SetUnratedOnly(on bool) {
	s.unratedOnly = on
	if on {
		s.JumpToFirstUnrated()
	}
}

// Record applies a successful store write for the current problem and
// auto-advances. At the last assigned index the cursor stays and the
// session is flagged complete instead.
func (s *Session) Record(rating int) {
	s.Clamp()
	s.ratings[s.current] = rating
	if s.current == s.hi-1 {
		s.complete = true
		return
	}
	s.current++
}

// Complete reports whether the rater rated the final assigned problem.
func (s *Session) Complete() bool { return s.complete }

// Rating returns this rater's rating for an index, if present in the
// local view.
func (s *Session) Rating(index int) (int, bool) {
	r, ok := s.ratings[index]
	return r, ok
}

// Progress returns the rated-in-range count and the assignment size.
func (s *Session) Progress() (rated, assigned int) {
	return len(s.ratings), s.hi - s.lo
}

// LoadRatings replaces the local view with the store's contents,
// keeping only this rater's in-range entries.
func (s *Session) LoadRatings(all []model.Rating) {
	view := make(map[int]int)
	for _, r := range all {
		if r.RaterID != s.raterID {
			continue
		}
		if r.ProblemIndex < s.lo || r.ProblemIndex >= s.hi {
			continue
		}
		view[r.ProblemIndex] = r.Rating
	}
	s.ratings = view
}
