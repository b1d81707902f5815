package store

import (
	"encoding/json"
	"fmt"

	"github.com/abelbrown/tourfeed/internal/trait"
)

// SaveProfiles replaces the cached profile list.
// Thread-safe: acquires write lock.
func (s *Store) SaveProfiles(profiles []trait.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM profiles"); err != nil {
		return fmt.Errorf("clear profiles: %w", err)
	}

	for i, p := range profiles {
		tags, err := marshalJSON(p.Tags, "[]")
		if err != nil {
			return err
		}
		regions, err := marshalJSON(p.RecommendedRegions, "[]")
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			"INSERT OR REPLACE INTO profiles (mbti, position, tags, recommended_regions) VALUES (?, ?, ?, ?)",
			p.MBTI, i, tags, regions,
		)
		if err != nil {
			return fmt.Errorf("insert profile %s: %w", p.MBTI, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetProfiles returns the cached profiles in saved order.
// Thread-safe: acquires read lock.
func (s *Store) GetProfiles() ([]trait.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT mbti, tags, recommended_regions FROM profiles ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []trait.Profile
	for rows.Next() {
		var p trait.Profile
		var tags, regions string
		if err := rows.Scan(&p.MBTI, &tags, &regions); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags of %s: %w", p.MBTI, err)
		}
		if err := json.Unmarshal([]byte(regions), &p.RecommendedRegions); err != nil {
			return nil, fmt.Errorf("decode regions of %s: %w", p.MBTI, err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}
