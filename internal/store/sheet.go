package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"rateboard/internal/model"
)

// Sheet is a rating store backed by a shared Google spreadsheet. Row 1
// is the header; data rows start at row 2 with the columns in Columns.
type Sheet struct {
	svc           *sheets.Service
	spreadsheetID string
	worksheet     string
}

// OpenSheet connects to the spreadsheet with service-account
// credentials and writes the header row if the worksheet is blank.
func OpenSheet(ctx context.Context, spreadsheetID, credentialsPath, worksheet string) (*Sheet, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheet id is empty")
	}
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	s := &Sheet{svc: svc, spreadsheetID: spreadsheetID, worksheet: worksheet}
	if err := s.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close is a no-op; the sheets client holds no resources to release.
func (s *Sheet) Close() error { return nil }

// Get scans the sheet for the pair. The first matching row wins if the
// sheet was hand-edited into duplicates.
func (s *Sheet) Get(ctx context.Context, problemIndex int, raterID string) (model.Rating, bool, error) {
	rows, err := s.readRows(ctx)
	if err != nil {
		return model.Rating{}, false, err
	}
	for _, row := range rows {
		if row.rating.ProblemIndex == problemIndex && row.rating.RaterID == raterID {
			return row.rating, true, nil
		}
	}
	return model.Rating{}, false, nil
}

// Set scans the sheet for the key and overwrites the rating cell of the
// matching row in place, appending a new row when the key is absent.
// The scan and the write are two separate calls, so concurrent writers
// to the same key can race; raters own disjoint keys, which keeps
// writes safe in practice.
func (s *Sheet) Set(ctx context.Context, r model.Rating) error {
	if err := validate(r); err != nil {
		return err
	}
	rows, err := s.readRows(ctx)
	if err != nil {
		return err
	}
	for _, row := range rows {
		if row.rating.ProblemIndex == r.ProblemIndex && row.rating.RaterID == r.RaterID {
			vr := &sheets.ValueRange{Values: [][]interface{}{{r.Rating}}}
			_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.ratingCell(row.row), vr).
				ValueInputOption("RAW").Context(ctx).Do()
			if err != nil {
				return fmt.Errorf("failed to update rating: %w", err)
			}
			return nil
		}
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{{r.ProblemIndex, r.QuestionID, r.Rating, r.RaterID}}}
	_, err = s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.rangeA1("A1:D1"), vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append rating: %w", err)
	}
	return nil
}

// All returns every parseable data row.
func (s *Sheet) All(ctx context.Context) ([]model.Rating, error) {
	rows, err := s.readRows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Rating, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.rating)
	}
	return out, nil
}

// sheetRow pairs a parsed rating with its 0-based data row position.
type sheetRow struct {
	row    int
	rating model.Rating
}

func (s *Sheet) readRows(ctx context.Context) ([]sheetRow, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeA1("A2:D")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read ratings: %w", err)
	}
	var rows []sheetRow
	for i, raw := range resp.Values {
		if isEmptyRow(raw) {
			continue
		}
		r, err := parseRow(raw)
		if err != nil {
			return nil, fmt.Errorf("bad row %d: %w", i+2, err)
		}
		rows = append(rows, sheetRow{row: i, rating: r})
	}
	return rows, nil
}

func (s *Sheet) ensureHeader(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.rangeA1("A1:D1")).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header row: %w", err)
	}
	if len(resp.Values) > 0 && !isEmptyRow(resp.Values[0]) {
		return nil
	}
	header := make([]interface{}, len(Columns))
	for i, name := range Columns {
		header[i] = name
	}
	vr := &sheets.ValueRange{Values: [][]interface{}{header}}
	_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.rangeA1("A1:D1"), vr).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}
	return nil
}

// rangeA1 qualifies a cell range with the worksheet title.
func (s *Sheet) rangeA1(cells string) string {
	return fmt.Sprintf("'%s'!%s", s.worksheet, cells)
}

// ratingCell addresses the rating cell of the i-th data row. Row 1 is
// the header, so data row i lives at sheet row i+2; column C holds the
// rating.
func (s *Sheet) ratingCell(dataRow int) string {
	return s.rangeA1(fmt.Sprintf("C%d", dataRow+2))
}

func parseRow(raw []interface{}) (model.Rating, error) {
	if len(raw) < len(Columns) {
		return model.Rating{}, fmt.Errorf("expected %d cells, got %d", len(Columns), len(raw))
	}
	index, err := cellInt(raw[0])
	if err != nil {
		return model.Rating{}, fmt.Errorf("problem_index: %w", err)
	}
	rating, err := cellInt(raw[2])
	if err != nil {
		return model.Rating{}, fmt.Errorf("rating: %w", err)
	}
	return model.Rating{
		ProblemIndex: index,
		QuestionID:   cellString(raw[1]),
		Rating:       rating,
		RaterID:      cellString(raw[3]),
	}, nil
}

func cellString(v interface{}) string {
	return strings.TrimSpace(fmt.Sprint(v))
}

func cellInt(v interface{}) (int, error) {
	s := cellString(v)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("cell %q is not an integer", s)
	}
	return n, nil
}

func isEmptyRow(raw []interface{}) bool {
	for _, v := range raw {
		if cellString(v) != "" {
			return false
		}
	}
	return true
}
