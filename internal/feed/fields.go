package feed

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldMap describes where a backend keeps each part of a record.
// The same app talks to backends that disagree on naming (tags vs
// hashtags), so the mapping is configuration, not code.
type FieldMap struct {
	ID    string `yaml:"id"`
	Group string `yaml:"group"`
	Tags  string `yaml:"tags"`
	// Metrics maps a ranking metric name to the raw field holding it.
	Metrics map[string]string `yaml:"metrics"`
}

// DefaultFieldMap matches the local post fixtures.
func DefaultFieldMap() FieldMap {
	return FieldMap{
		ID:    "id",
		Group: "region",
		Tags:  "tags",
		Metrics: map[string]string{
			"likes":    "likes",
			"comments": "comments",
		},
	}
}

// LiveFieldMap matches the live post API, which names tags "hashtags".
func LiveFieldMap() FieldMap {
	m := DefaultFieldMap()
	m.Tags = "hashtags"
	return m
}

// WithDefaults fills unset fields from DefaultFieldMap.
func (m FieldMap) WithDefaults() FieldMap {
	d := DefaultFieldMap()
	if m.ID == "" {
		m.ID = d.ID
	}
	if m.Group == "" {
		m.Group = d.Group
	}
	if m.Tags == "" {
		m.Tags = d.Tags
	}
	if len(m.Metrics) == 0 {
		m.Metrics = d.Metrics
	}
	return m
}

// Decode maps one raw object into a Record. Scalar fields not claimed by
// the map are copied into Display as strings.
func (m FieldMap) Decode(raw map[string]any) Record {
	m = m.WithDefaults()

	r := Record{
		ID:       asString(raw[m.ID]),
		GroupKey: NormalizeKey(asString(raw[m.Group])),
		Rankings: make(map[string]int, len(m.Metrics)),
		Display:  make(map[string]string),
		Tags:     asStrings(raw[m.Tags]),
	}

	claimed := map[string]bool{m.ID: true, m.Group: true, m.Tags: true}
	for metric, field := range m.Metrics {
		r.Rankings[metric] = asInt(raw[field])
		claimed[field] = true
	}

	for k, v := range raw {
		if claimed[k] {
			continue
		}
		switch v.(type) {
		case nil, []any, map[string]any:
			continue
		}
		r.Display[k] = asString(v)
	}
	return r
}

func asString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func asInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case uint64:
		return int(x)
	case float64:
		return int(math.Round(x))
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n)
		}
		if f, err := x.Float64(); err == nil {
			return int(math.Round(f))
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			return n
		}
	}
	return 0
}

func asStrings(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s := strings.TrimSpace(asString(e)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if x == "" {
			return nil
		}
		var out []string
		for _, part := range strings.Split(x, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
