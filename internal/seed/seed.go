// Package seed copies posts, profiles and tours from their configured
// sources into the SQLite cache so later runs can read them offline.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/abelbrown/tourfeed/internal/feed"
	"github.com/abelbrown/tourfeed/internal/logging"
	"github.com/abelbrown/tourfeed/internal/store"
	"github.com/abelbrown/tourfeed/internal/tour"
	"github.com/abelbrown/tourfeed/internal/trait"
)

// Sources are the inputs of a seed run. Any field may be nil to skip it.
type Sources struct {
	Posts    feed.Source
	Profiles trait.Source
	Tours    tour.Source
	// TourIDs are fetched when Tours cannot list its programs.
	TourIDs []int64
}

// Result counts what was written.
type Result struct {
	Posts    int
	Profiles int
	Tours    int
}

// lister is implemented by tour sources that can enumerate every program.
type lister interface {
	All(ctx context.Context) ([]tour.Program, error)
}

// Run loads every source and writes it to st. Posts replace the existing
// rows stored under postsKey.
func Run(ctx context.Context, st *store.Store, src Sources, postsKey string) (Result, error) {
	var res Result

	if src.Posts != nil {
		records, err := src.Posts.Load(ctx)
		if err != nil {
			return res, fmt.Errorf("load posts from %s: %w", src.Posts.Name(), err)
		}
		n, err := st.SavePosts(postsKey, records)
		if err != nil {
			return res, fmt.Errorf("save posts: %w", err)
		}
		res.Posts = n
		logging.Info("Seeded posts", "source", src.Posts.Name(), "count", n)
	}

	if src.Profiles != nil {
		profiles, err := src.Profiles.Load(ctx)
		if err != nil {
			return res, fmt.Errorf("load profiles from %s: %w", src.Profiles.Name(), err)
		}
		if err := st.SaveProfiles(profiles); err != nil {
			return res, fmt.Errorf("save profiles: %w", err)
		}
		res.Profiles = len(profiles)
		logging.Info("Seeded profiles", "source", src.Profiles.Name(), "count", len(profiles))
	}

	if src.Tours != nil {
		programs, err := loadTours(ctx, src.Tours, src.TourIDs)
		if err != nil {
			return res, err
		}
		for _, p := range programs {
			if err := st.SaveTour(p); err != nil {
				return res, fmt.Errorf("save tour %d: %w", p.ID, err)
			}
			res.Tours++
		}
		logging.Info("Seeded tours", "source", src.Tours.Name(), "count", res.Tours)
	}

	return res, nil
}

func loadTours(ctx context.Context, src tour.Source, ids []int64) ([]tour.Program, error) {
	if l, ok := src.(lister); ok {
		programs, err := l.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tours from %s: %w", src.Name(), err)
		}
		return programs, nil
	}

	programs := make([]tour.Program, 0, len(ids))
	for _, id := range ids {
		p, err := src.Get(ctx, id)
		if errors.Is(err, tour.ErrNotFound) {
			logging.Warn("Tour not found, skipping", "source", src.Name(), "id", id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get tour %d from %s: %w", id, src.Name(), err)
		}
		programs = append(programs, p)
	}
	return programs, nil
}
