package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/abelbrown/tourfeed/internal/feed"
	"github.com/google/uuid"
)

// SavePosts replaces the cached posts of one source, keeping their order.
// Rows are keyed by source and position, so every record is kept even when
// IDs repeat within or across sources. Records without an ID get a random
// UUID. Returns the number saved.
// Thread-safe: acquires write lock.
func (s *Store) SavePosts(source string, records []feed.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM posts WHERE source = ?", source); err != nil {
		return 0, fmt.Errorf("clear posts: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO posts (
			id, source, position, group_key, rankings, display, tags, saved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, r := range records {
		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		rankings, err := marshalJSON(r.Rankings, "{}")
		if err != nil {
			return 0, err
		}
		display, err := marshalJSON(r.Display, "{}")
		if err != nil {
			return 0, err
		}
		tags, err := marshalJSON(r.Tags, "[]")
		if err != nil {
			return 0, err
		}
		if _, err := stmt.Exec(id, source, i, r.GroupKey, rankings, display, tags, now); err != nil {
			return 0, fmt.Errorf("insert post %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(records), nil
}

// GetPosts returns the cached posts of a source in saved order. An empty
// source returns every cached post grouped by source.
// Thread-safe: acquires read lock.
func (s *Store) GetPosts(source string) ([]feed.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, group_key, rankings, display, tags
		FROM posts
		WHERE source = ?
		ORDER BY position
	`
	args := []any{source}
	if source == "" {
		query = `
			SELECT id, group_key, rankings, display, tags
			FROM posts
			ORDER BY source, position
		`
		args = nil
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var records []feed.Record
	for rows.Next() {
		var r feed.Record
		var rankings, display, tags string
		if err := rows.Scan(&r.ID, &r.GroupKey, &rankings, &display, &tags); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		if err := json.Unmarshal([]byte(rankings), &r.Rankings); err != nil {
			return nil, fmt.Errorf("decode rankings of %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(display), &r.Display); err != nil {
			return nil, fmt.Errorf("decode display of %s: %w", r.ID, err)
		}
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return records, nil
}

// PostCount returns how many posts are cached for a source, or in total for
// an empty source.
// Thread-safe: acquires read lock.
func (s *Store) PostCount(source string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	var err error
	if source == "" {
		err = s.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&n)
	} else {
		err = s.db.QueryRow("SELECT COUNT(*) FROM posts WHERE source = ?", source).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

// marshalJSON encodes v, storing empty for nil values.
func marshalJSON(v any, empty string) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode: %w", err)
	}
	if string(b) == "null" {
		return empty, nil
	}
	return string(b), nil
}
