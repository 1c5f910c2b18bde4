// Package model holds the types shared across rateboard packages.
package model

// RatingMin and RatingMax bound the severity scale.
const (
	RatingMin = 1
	RatingMax = 5
)

// Problem is one flagged survey question. Immutable after catalog load;
// Index is the 0-based position in the catalog file.
type Problem struct {
	Index              int
	QuestionID         string
	QuestionText       string
	ResponseOptions    string
	ProblemDescription string
}

// Rating is one rater's severity judgment for one problem. At most one
// exists per (ProblemIndex, RaterID); a later write replaces it.
type Rating struct {
	ProblemIndex int
	QuestionID   string
	Rating       int
	RaterID      string
}

// Key identifies the rating owned by a (problem, rater) pair.
type Key struct {
	ProblemIndex int
	RaterID      string
}

// Key returns the upsert key for the rating.
func (r Rating) Key() Key {
	return Key{ProblemIndex: r.ProblemIndex, RaterID: r.RaterID}
}

var scaleLabels = [...]string{
	"Not a problem, no modifications needed",
	"Potentially a small problem but no modification needed",
	"Moderate problem, modification recommended",
	"Significant problem, modification essential",
	"Very significant problem, modification essential",
}

// ScaleLabel returns the severity description for a rating value, or an
// empty string outside [RatingMin, RatingMax].
func ScaleLabel(rating int) string {
	if rating < RatingMin || rating > RatingMax {
		return ""
	}
	return scaleLabels[rating-RatingMin]
}

// ValidRating reports whether rating is on the severity scale.
func ValidRating(rating int) bool {
	return rating >= RatingMin && rating <= RatingMax
}

// SessionConfig defines a rating session.
type SessionConfig struct {
	RaterID     string
	CatalogPath string
}

// StatsConfig carries the filters and sizing for stats output.
type StatsConfig struct {
	RaterID   string
	PlotWidth int
	TopN      int
	Window    int
}
