// Package trait holds travel personality profiles: the hashtags and regions
// recommended for each MBTI type.
package trait

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/abelbrown/tourfeed/internal/feed"
	"github.com/abelbrown/tourfeed/internal/pager"
	"github.com/abelbrown/tourfeed/internal/remote"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/profiles.yaml
var defaultProfiles []byte

// Profile is one selectable personality type.
type Profile struct {
	MBTI               string   `json:"mbti" yaml:"mbti"`
	Tags               []string `json:"tags" yaml:"tags"`
	RecommendedRegions []string `json:"recommended_regions" yaml:"recommended_regions"`
}

// RegionFilter returns the feed filter for the i-th recommended region.
func (p Profile) RegionFilter(i int) (pager.Filter, bool) {
	if i < 0 || i >= len(p.RecommendedRegions) {
		return pager.NoFilter, false
	}
	return pager.Only(p.RecommendedRegions[i]), true
}

// Source loads the profile list.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Profile, error)
}

// Find returns the profile for mbti, ignoring case.
func Find(profiles []Profile, mbti string) (Profile, bool) {
	for _, p := range profiles {
		if strings.EqualFold(p.MBTI, strings.TrimSpace(mbti)) {
			return p, true
		}
	}
	return Profile{}, false
}

// normalize upper-cases the type and NFC-normalizes regions so they match
// post grouping keys.
func normalize(profiles []Profile) []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		p.MBTI = strings.ToUpper(strings.TrimSpace(p.MBTI))
		if p.MBTI == "" {
			continue
		}
		regions := make([]string, 0, len(p.RecommendedRegions))
		for _, r := range p.RecommendedRegions {
			if r = feed.NormalizeKey(r); r != "" {
				regions = append(regions, r)
			}
		}
		p.RecommendedRegions = regions
		out = append(out, p)
	}
	return out
}

// FixtureProfiles reads profiles from YAML.
type FixtureProfiles struct {
	name string
	path string
	data []byte
}

// NewFixtureProfiles reads from path on every Load.
func NewFixtureProfiles(path string) *FixtureProfiles {
	return &FixtureProfiles{name: "fixture:" + path, path: path}
}

// DefaultProfiles returns the built-in profile list.
func DefaultProfiles() *FixtureProfiles {
	return &FixtureProfiles{name: "fixture:builtin", data: defaultProfiles}
}

func (s *FixtureProfiles) Name() string { return s.name }

func (s *FixtureProfiles) Load(ctx context.Context) ([]Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := s.data
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read profiles: %w", err)
		}
		data = b
	}

	var doc struct {
		Profiles []Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	return normalize(doc.Profiles), nil
}

// DefaultRemotePath is the profile endpoint of the personality backend.
const DefaultRemotePath = "/get_mbti_by_token"

// RemoteProfiles reads the profile list of the signed-in user. The backend
// answers with a bare JSON array.
type RemoteProfiles struct {
	client *remote.Client
	path   string
}

// NewRemoteProfiles creates a profile source; an empty path uses
// DefaultRemotePath.
func NewRemoteProfiles(client *remote.Client, path string) *RemoteProfiles {
	if path == "" {
		path = DefaultRemotePath
	}
	return &RemoteProfiles{client: client, path: path}
}

func (s *RemoteProfiles) Name() string {
	return "remote:" + s.client.BaseURL() + "/" + strings.TrimLeft(s.path, "/")
}

func (s *RemoteProfiles) Load(ctx context.Context) ([]Profile, error) {
	var profiles []Profile
	if err := s.client.GetJSON(ctx, s.path, nil, &profiles); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return normalize(profiles), nil
}
