package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abelbrown/tourfeed/internal/tour"
)

// SaveTour inserts or replaces a tour program.
// Thread-safe: acquires write lock.
func (s *Store) SaveTour(p tour.Program) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode tour %d: %w", p.ID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO tours (id, title, region, body, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			region = excluded.region,
			body = excluded.body,
			updated_at = excluded.updated_at
	`, p.ID, p.Title, p.Region, string(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save tour %d: %w", p.ID, err)
	}
	return nil
}

// GetTour returns the program with the given ID, or an error wrapping
// ErrNotFound.
// Thread-safe: acquires read lock.
func (s *Store) GetTour(id int64) (tour.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var body string
	err := s.db.QueryRow("SELECT body FROM tours WHERE id = ?", id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return tour.Program{}, fmt.Errorf("tour %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return tour.Program{}, fmt.Errorf("get tour %d: %w", id, err)
	}

	var p tour.Program
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return tour.Program{}, fmt.Errorf("decode tour %d: %w", id, err)
	}
	return p, nil
}

// TourIDs lists cached tour IDs in ascending order.
// Thread-safe: acquires read lock.
func (s *Store) TourIDs() ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT id FROM tours ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query tours: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan tour id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
