// Package feed defines the item record shown in feed lists and the data
// sources that produce it.
package feed

import (
	"context"
	"strings"

	"github.com/abelbrown/tourfeed/internal/pager"
	"golang.org/x/text/unicode/norm"
)

// Record is one displayable feed entry.
// The pipeline only reads GroupKey and Rankings; Display is opaque to it.
type Record struct {
	ID       string            `json:"id" yaml:"id"`
	GroupKey string            `json:"group_key" yaml:"group_key"`
	Rankings map[string]int    `json:"rankings" yaml:"rankings"`
	Display  map[string]string `json:"display" yaml:"display"`
	Tags     []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Title returns the "title" display field.
func (r Record) Title() string {
	return r.Display["title"]
}

// Metric returns the named ranking field, 0 if absent.
func (r Record) Metric(name string) int {
	return r.Rankings[name]
}

// Likes returns the like count.
func (r Record) Likes() int {
	return r.Metric(pager.MetricLikes)
}

// Comments returns the comment count.
func (r Record) Comments() int {
	return r.Metric(pager.MetricComments)
}

// RecordAccessors reads Records for the pager.
var RecordAccessors = pager.Accessors[Record]{
	GroupKey: func(r Record) string { return r.GroupKey },
	Metric:   func(r Record, name string) int { return r.Metric(name) },
}

// NormalizeKey trims and NFC-normalizes a grouping key so that the same
// Hangul region name compares equal whether it arrived composed or
// decomposed.
func NormalizeKey(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Source produces the full record collection for a feed.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Record, error)
}

// GroupKeys returns the distinct grouping keys in first-seen order.
func GroupKeys(records []Record) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, r := range records {
		if !seen[r.GroupKey] {
			seen[r.GroupKey] = true
			keys = append(keys, r.GroupKey)
		}
	}
	return keys
}
