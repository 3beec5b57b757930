package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// sequencer numbers every logged event, across both tables, in the order
// it was written.
type sequencer struct {
	mu sync.Mutex
	db *sql.DB
}

const (
	createSequence = `CREATE TABLE IF NOT EXISTS event_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL
	)`
	seedSequence = `INSERT OR IGNORE INTO event_sequence (id, next_val) VALUES (1, 1)`
	takeSequence = `UPDATE event_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`
)

func newSequencer(db *sql.DB) (*sequencer, error) {
	for _, stmt := range []string{createSequence, seedSequence} {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("prepare event sequence: %w", err)
		}
	}
	return &sequencer{db: db}, nil
}

// Next claims the next sequence number.
func (s *sequencer) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	if err := s.db.QueryRowContext(ctx, takeSequence).Scan(&n); err != nil {
		return 0, fmt.Errorf("next event sequence: %w", err)
	}
	return n, nil
}
