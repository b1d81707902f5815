package config

import (
	"fmt"

	"github.com/abelbrown/tourfeed/internal/feed"
	"github.com/abelbrown/tourfeed/internal/question"
	"github.com/abelbrown/tourfeed/internal/remote"
	"github.com/abelbrown/tourfeed/internal/store"
	"github.com/abelbrown/tourfeed/internal/tour"
	"github.com/abelbrown/tourfeed/internal/trait"
)

// CacheKey is the store source name posts are cached under.
const CacheKey = "posts"

func (c *Config) client(baseURL string) *remote.Client {
	return remote.New(remote.Options{
		BaseURL:       baseURL,
		Token:         c.Remote.Token,
		Timeout:       c.Remote.Timeout,
		RatePerSecond: c.Remote.RatePerSecond,
	})
}

// PostSource builds the configured post source. st is only required for
// the store source.
func (c *Config) PostSource(st *store.Store) (feed.Source, error) {
	p := c.Posts
	switch p.Source {
	case SourceFixture:
		if p.Path == "" {
			return feed.DefaultFixture(), nil
		}
		return feed.NewFixtureSource(p.Path, p.Fields), nil
	case SourceRemote:
		return feed.NewRemoteSource(c.client(p.URL), p.Endpoint, p.Fields), nil
	case SourceRSS:
		return feed.NewRSSSource(p.URL, c.Remote.Timeout), nil
	case SourceStore:
		if st == nil {
			return nil, fmt.Errorf("posts source %q needs the store", p.Source)
		}
		return st.PostSource(CacheKey), nil
	}
	return nil, fmt.Errorf("invalid posts source %q", p.Source)
}

// ProfileSource builds the configured profile source.
func (c *Config) ProfileSource(st *store.Store) (trait.Source, error) {
	p := c.Profiles
	switch p.Source {
	case SourceFixture:
		if p.Path == "" {
			return trait.DefaultProfiles(), nil
		}
		return trait.NewFixtureProfiles(p.Path), nil
	case SourceRemote:
		return trait.NewRemoteProfiles(c.client(p.URL), p.Endpoint), nil
	case SourceStore:
		if st == nil {
			return nil, fmt.Errorf("profiles source %q needs the store", p.Source)
		}
		return st.ProfileSource(), nil
	}
	return nil, fmt.Errorf("invalid profiles source %q", p.Source)
}

// TourSource builds the configured tour source.
func (c *Config) TourSource(st *store.Store) (tour.Source, error) {
	t := c.Tour
	switch t.Source {
	case SourceFixture:
		if t.Path == "" {
			return tour.DefaultFixture(), nil
		}
		return tour.NewFixtureSource(t.Path), nil
	case SourceRemote:
		return tour.NewRemoteSource(c.client(t.URL), t.Endpoint), nil
	case SourceStore:
		if st == nil {
			return nil, fmt.Errorf("tour source %q needs the store", t.Source)
		}
		return st.TourSource(), nil
	}
	return nil, fmt.Errorf("invalid tour source %q", t.Source)
}

// QuestionSource builds the questionnaire backend. The fixture scores
// answers locally and looks the result up in profiles.
func (c *Config) QuestionSource(profiles trait.Source) (question.Source, error) {
	q := c.Question
	switch q.Source {
	case SourceFixture:
		if q.Path == "" {
			return question.DefaultFixture(profiles), nil
		}
		return question.NewFixtureSource(q.Path, profiles), nil
	case SourceRemote:
		return question.NewRemoteSource(c.client(q.URL), q.QuestionsPath, q.RecommendPath), nil
	}
	return nil, fmt.Errorf("invalid questions source %q", q.Source)
}

// UsesStore reports whether any section reads from the SQLite cache.
func (c *Config) UsesStore() bool {
	return c.Posts.Source == SourceStore || c.Profiles.Source == SourceStore || c.Tour.Source == SourceStore
}
