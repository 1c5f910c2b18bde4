package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"rateboard/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLite is a shared local rating store.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the ratings database and applies migrations.
func OpenSQLite(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLite{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate ratings db: %w", err)
	}
	return store, nil
}

// Close releases the database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ratings (
			problem_index INTEGER NOT NULL,
			question_id TEXT NOT NULL,
			rating INTEGER NOT NULL,
			rater_id TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			PRIMARY KEY (problem_index, rater_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_rater_id ON ratings(rater_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the rating for the pair, if present.
func (s *SQLite) Get(ctx context.Context, problemIndex int, raterID string) (model.Rating, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT problem_index, question_id, rating, rater_id
		 FROM ratings
		 WHERE problem_index = ? AND rater_id = ?`,
		problemIndex, raterID)
	var r model.Rating
	if err := row.Scan(&r.ProblemIndex, &r.QuestionID, &r.Rating, &r.RaterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Rating{}, false, nil
		}
		return model.Rating{}, false, err
	}
	return r, true, nil
}

// Set upserts the rating in one statement, so concurrent writers to
// the same key cannot duplicate rows.
func (s *SQLite) Set(ctx context.Context, r model.Rating) error {
	if err := validate(r); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ratings (problem_index, question_id, rating, rater_id, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (problem_index, rater_id) DO UPDATE SET
			question_id = excluded.question_id,
			rating = excluded.rating,
			updated_at = excluded.updated_at`,
		r.ProblemIndex, r.QuestionID, r.Rating, r.RaterID,
		time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// All returns every stored rating in catalog order.
func (s *SQLite) All(ctx context.Context) ([]model.Rating, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT problem_index, question_id, rating, rater_id
		 FROM ratings
		 ORDER BY problem_index ASC, rater_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Rating
	for rows.Next() {
		var r model.Rating
		if err := rows.Scan(&r.ProblemIndex, &r.QuestionID, &r.Rating, &r.RaterID); err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
