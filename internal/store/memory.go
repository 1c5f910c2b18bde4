package store

import (
	"context"
	"io"
	"sync"

	"rateboard/internal/model"
)

// Memory is a single-session rating store. Nothing is shared between
// sessions; unexported ratings are lost when the process exits.
type Memory struct {
	mu      sync.Mutex
	ratings map[model.Key]model.Rating
	order   []model.Key
}

// NewMemory returns an empty session store.
func NewMemory() *Memory {
	return &Memory{ratings: make(map[model.Key]model.Rating)}
}

// Get returns the rating for the pair, if present.
func (m *Memory) Get(ctx context.Context, problemIndex int, raterID string) (model.Rating, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.ratings[model.Key{ProblemIndex: problemIndex, RaterID: raterID}]
	return r, ok, nil
}

// Set upserts by key, keeping first-insert order for All.
func (m *Memory) Set(ctx context.Context, r model.Rating) error {
	if err := validate(r); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := r.Key()
	if _, ok := m.ratings[key]; !ok {
		m.order = append(m.order, key)
	}
	m.ratings[key] = r
	return nil
}

// All returns every stored rating in first-insert order.
func (m *Memory) All(ctx context.Context) ([]model.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Rating, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.ratings[key])
	}
	return out, nil
}

// Close is a no-op for the session store.
func (m *Memory) Close() error { return nil }

// ExportCSV writes the rater's ratings to w as CSV.
func (m *Memory) ExportCSV(w io.Writer, raterID string) error {
	all, err := m.All(context.Background())
	if err != nil {
		return err
	}
	return WriteCSV(w, all, raterID)
}
