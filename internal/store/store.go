// Package store persists ratings keyed by (problem_index, rater_id).
package store

import (
	"context"
	"fmt"

	"rateboard/internal/model"
)

// Columns lists the rating columns shared by the sheet layout and the
// CSV export, in order.
var Columns = []string{"problem_index", "question_id", "rating", "rater_id"}

// Store is a rating store. Set replaces any existing rating for the
// (ProblemIndex, RaterID) key; Get reflects the most recent successful
// Set; All returns every stored rating.
type Store interface {
	Get(ctx context.Context, problemIndex int, raterID string) (model.Rating, bool, error)
	Set(ctx context.Context, r model.Rating) error
	All(ctx context.Context) ([]model.Rating, error)
	Close() error
}

// Kind selects a store backend.
type Kind string

const (
	KindSheet  Kind = "sheet"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// ParseKind validates a backend name from flags or config.
func ParseKind(name string) (Kind, error) {
	switch Kind(name) {
	case KindSheet, KindSQLite, KindMemory:
		return Kind(name), nil
	default:
		return "", fmt.Errorf("unknown store %q (expected sheet, sqlite or memory)", name)
	}
}

func validate(r model.Rating) error {
	if !model.ValidRating(r.Rating) {
		return fmt.Errorf("rating %d is outside the %d..%d scale", r.Rating, model.RatingMin, model.RatingMax)
	}
	if r.ProblemIndex < 0 {
		return fmt.Errorf("problem index is negative: %d", r.ProblemIndex)
	}
	if r.RaterID == "" {
		return fmt.Errorf("rater id is empty")
	}
	return nil
}
