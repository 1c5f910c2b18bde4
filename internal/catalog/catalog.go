// Package catalog loads the problem catalog from CSV files.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"rateboard/internal/model"
)

// Columns lists the required catalog columns in export order.
var Columns = []string{"question_id", "question_text", "response_options", "problem_description"}

// Load reads the problem catalog from a CSV file. Row order defines
// Problem.Index.
func Load(path string) ([]model.Problem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	problems, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return problems, nil
}

// Parse reads problems from CSV data with a header row.
func Parse(r io.Reader) ([]model.Problem, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("catalog is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	cols, err := columnIndexes(header)
	if err != nil {
		return nil, err
	}

	var problems []model.Problem
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(problems)+2, err)
		}
		problems = append(problems, model.Problem{
			Index:              len(problems),
			QuestionID:         strings.TrimSpace(record[cols[0]]),
			QuestionText:       record[cols[1]],
			ResponseOptions:    record[cols[2]],
			ProblemDescription: record[cols[3]],
		})
	}
	if len(problems) == 0 {
		return nil, fmt.Errorf("catalog has no problem rows")
	}
	return problems, nil
}

// columnIndexes maps the required columns onto header positions.
func columnIndexes(header []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}
	indexes := make([]int, len(Columns))
	var missing []string
	for i, name := range Columns {
		pos, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		indexes[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return indexes, nil
}
