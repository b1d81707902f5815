package feed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/abelbrown/tourfeed/internal/remote"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/posts.yaml
var defaultPosts []byte

// FixtureSource reads records from a YAML document with a top-level
// "posts" list.
type FixtureSource struct {
	name   string
	path   string
	data   []byte
	fields FieldMap
}

// NewFixtureSource reads from path on every Load.
func NewFixtureSource(path string, fields FieldMap) *FixtureSource {
	return &FixtureSource{name: "fixture:" + path, path: path, fields: fields}
}

// DefaultFixture returns the built-in regional post list.
func DefaultFixture() *FixtureSource {
	return &FixtureSource{name: "fixture:builtin", data: defaultPosts, fields: DefaultFieldMap()}
}

func (s *FixtureSource) Name() string { return s.name }

func (s *FixtureSource) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := s.data
	if s.path != "" {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
		data = b
	}

	var doc struct {
		Posts []map[string]any `yaml:"posts"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	records := make([]Record, 0, len(doc.Posts))
	for i, raw := range doc.Posts {
		r := s.fields.Decode(raw)
		if r.ID == "" {
			r.ID = fmt.Sprintf("fixture-%d", i+1)
		}
		records = append(records, r)
	}
	return records, nil
}

// RemoteSource reads records from a JSON endpoint. The body may be a bare
// array or an object wrapping the array under "posts" or "data".
type RemoteSource struct {
	client *remote.Client
	path   string
	fields FieldMap
}

// NewRemoteSource creates a source for GET client.BaseURL()+path.
func NewRemoteSource(client *remote.Client, path string, fields FieldMap) *RemoteSource {
	return &RemoteSource{client: client, path: path, fields: fields}
}

func (s *RemoteSource) Name() string {
	return "remote:" + s.client.BaseURL() + "/" + strings.TrimLeft(s.path, "/")
}

func (s *RemoteSource) Load(ctx context.Context) ([]Record, error) {
	var body json.RawMessage
	if err := s.client.GetJSON(ctx, s.path, nil, &body); err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	raws, err := unwrapList(body)
	if err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}

	records := make([]Record, 0, len(raws))
	for i, raw := range raws {
		r := s.fields.Decode(raw)
		if r.ID == "" {
			r.ID = fmt.Sprintf("remote-%d", i+1)
		}
		records = append(records, r)
	}
	return records, nil
}

func unwrapList(body json.RawMessage) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	dec := func(b []byte) ([]map[string]any, error) {
		var list []map[string]any
		d := json.NewDecoder(bytes.NewReader(b))
		d.UseNumber()
		if err := d.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}

	if trimmed[0] == '[' {
		return dec(trimmed)
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	for _, key := range []string{"posts", "data", "items"} {
		if inner, ok := wrapper[key]; ok {
			return dec(inner)
		}
	}
	return nil, fmt.Errorf("decode body: no list under posts, data or items")
}
