package tour

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abelbrown/tourfeed/internal/remote"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/tours.yaml
var defaultTours []byte

// ErrNotFound is returned when no program has the requested ID.
var ErrNotFound = errors.New("tour: program not found")

// Source looks up tour programs by ID.
type Source interface {
	Name() string
	Get(ctx context.Context, id int64) (Program, error)
}

// FixtureSource serves programs from a YAML document with a top-level
// "tours" list.
type FixtureSource struct {
	name string
	path string
	data []byte
}

// NewFixtureSource reads from path on every lookup.
func NewFixtureSource(path string) *FixtureSource {
	return &FixtureSource{name: "fixture:" + path, path: path}
}

// DefaultFixture returns the built-in sample tours.
func DefaultFixture() *FixtureSource {
	return &FixtureSource{name: "fixture:builtin", data: defaultTours}
}

func (s *FixtureSource) Name() string { return s.name }

// All returns every program in the fixture.
func (s *FixtureSource) All(ctx context.Context) ([]Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := s.data
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read tours: %w", err)
		}
		data = b
	}

	var doc struct {
		Tours []Program `yaml:"tours"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tours: %w", err)
	}
	return doc.Tours, nil
}

func (s *FixtureSource) Get(ctx context.Context, id int64) (Program, error) {
	programs, err := s.All(ctx)
	if err != nil {
		return Program{}, err
	}
	for _, p := range programs {
		if p.ID == id {
			return p, nil
		}
	}
	return Program{}, fmt.Errorf("tour %d: %w", id, ErrNotFound)
}

// DefaultRemotePath is the tour program endpoint; the ID is appended.
const DefaultRemotePath = "/api/tour-program"

// RemoteSource reads programs from the tour backend.
type RemoteSource struct {
	client *remote.Client
	path   string
}

// NewRemoteSource creates a source; an empty path uses DefaultRemotePath.
func NewRemoteSource(client *remote.Client, path string) *RemoteSource {
	if path == "" {
		path = DefaultRemotePath
	}
	return &RemoteSource{client: client, path: strings.TrimRight(path, "/")}
}

func (s *RemoteSource) Name() string {
	return "remote:" + s.client.BaseURL() + "/" + strings.TrimLeft(s.path, "/")
}

func (s *RemoteSource) Get(ctx context.Context, id int64) (Program, error) {
	var p Program
	err := s.client.GetJSON(ctx, s.path+"/"+strconv.FormatInt(id, 10), nil, &p)
	if err != nil {
		var statusErr *remote.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == 404 {
			return Program{}, fmt.Errorf("tour %d: %w", id, ErrNotFound)
		}
		return Program{}, fmt.Errorf("load tour %d: %w", id, err)
	}
	return p, nil
}
