package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/abelbrown/tourfeed/internal/feed"
	"github.com/abelbrown/tourfeed/internal/tour"
	"github.com/abelbrown/tourfeed/internal/trait"
)

// postSource serves cached posts as a feed.Source.
type postSource struct {
	s      *Store
	source string
}

// PostSource returns a feed.Source reading the posts cached for source.
func (s *Store) PostSource(source string) feed.Source {
	return &postSource{s: s, source: source}
}

func (p *postSource) Name() string { return "store:" + p.source }

func (p *postSource) Load(ctx context.Context) ([]feed.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.s.GetPosts(p.source)
}

type profileSource struct{ s *Store }

// ProfileSource returns a trait.Source reading the cached profiles.
func (s *Store) ProfileSource() trait.Source {
	return profileSource{s: s}
}

func (profileSource) Name() string { return "store:profiles" }

func (p profileSource) Load(ctx context.Context) ([]trait.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.s.GetProfiles()
}

type tourSource struct{ s *Store }

// TourSource returns a tour.Source over the cached programs. Misses wrap
// both ErrNotFound and tour.ErrNotFound.
func (s *Store) TourSource() tour.Source {
	return tourSource{s: s}
}

func (tourSource) Name() string { return "store:tours" }

func (t tourSource) Get(ctx context.Context, id int64) (tour.Program, error) {
	if err := ctx.Err(); err != nil {
		return tour.Program{}, err
	}
	p, err := t.s.GetTour(id)
	if errors.Is(err, ErrNotFound) {
		return tour.Program{}, fmt.Errorf("%w: %w", tour.ErrNotFound, err)
	}
	return p, err
}
