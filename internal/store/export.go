package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"rateboard/internal/model"
)

// ExportFileName returns the conventional export name for a rater,
// {rater_id}_ratings_{date}.csv.
func ExportFileName(raterID string, now time.Time) string {
	return fmt.Sprintf("%s_ratings_%s.csv", raterID, now.Format(time.DateOnly))
}

// WriteCSV writes one rater's ratings to w in catalog order, with the
// same columns the sheet layout uses.
func WriteCSV(w io.Writer, ratings []model.Rating, raterID string) error {
	rows := make([]model.Rating, 0, len(ratings))
	for _, r := range ratings {
		if r.RaterID == raterID {
			rows = append(rows, r)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ProblemIndex < rows[j].ProblemIndex })

	writer := csv.NewWriter(w)
	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.ProblemIndex),
			r.QuestionID,
			strconv.Itoa(r.Rating),
			r.RaterID,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write rating row %d: %w", r.ProblemIndex, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
