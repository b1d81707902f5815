// Package pager implements the feed pipeline shared by every list screen:
// filter by grouping key, stable sort by a ranking metric, and reveal a
// growing prefix of the result with a throttled "load more".
//
// The functions in this package are pure: []T in, []T out, inputs are never
// mutated. Pager holds the mutable view state and is owned by a single
// event loop; it is not safe for concurrent use.
package pager

import (
	"fmt"
	"time"
)

// SortKey selects the display order.
type SortKey string

const (
	// SortRecency keeps insertion order.
	SortRecency SortKey = "recency"
	// SortPopularity orders by like count, highest first.
	SortPopularity SortKey = "popularity"
	// SortCommentCount orders by comment count, highest first.
	SortCommentCount SortKey = "commentCount"
)

// Ranking metric names understood by Accessors.Metric.
const (
	MetricLikes    = "likes"
	MetricComments = "comments"
)

// SortKeys lists the sort keys in the order a picker cycles through them.
var SortKeys = []SortKey{SortRecency, SortPopularity, SortCommentCount}

var sortLabels = map[SortKey]string{
	SortRecency:      "최신순",
	SortPopularity:   "인기순",
	SortCommentCount: "댓글순",
}

// Label returns the display label for the sort key.
func (k SortKey) Label() string {
	if l, ok := sortLabels[k]; ok {
		return l
	}
	return string(k)
}

// Metric returns the ranking metric the key orders by, or "" for recency.
func (k SortKey) Metric() string {
	switch k {
	case SortPopularity:
		return MetricLikes
	case SortCommentCount:
		return MetricComments
	default:
		return ""
	}
}

// Next returns the key after k in SortKeys, wrapping around.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortRecency
}

// ParseSortKey accepts the canonical names and the display labels.
// An empty string parses as SortRecency.
func ParseSortKey(s string) (SortKey, error) {
	switch s {
	case "", string(SortRecency), sortLabels[SortRecency]:
		return SortRecency, nil
	case string(SortPopularity), sortLabels[SortPopularity]:
		return SortPopularity, nil
	case string(SortCommentCount), sortLabels[SortCommentCount]:
		return SortCommentCount, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Filter is an optional grouping-key selection. The zero value matches
// every item.
type Filter struct {
	Key    string
	Active bool
}

// NoFilter matches every item.
var NoFilter = Filter{}

// Only returns a filter matching items whose grouping key equals key.
func Only(key string) Filter {
	return Filter{Key: key, Active: true}
}

// Matches reports whether an item with the given grouping key passes.
func (f Filter) Matches(groupKey string) bool {
	return !f.Active || groupKey == f.Key
}

// Accessors tells the pipeline how to read an item of type T.
type Accessors[T any] struct {
	GroupKey func(T) string
	Metric   func(item T, name string) int
}

// Config holds the paging constants.
type Config struct {
	InitialPageSize int
	PageIncrement   int
	// LoadDelay is the settle time before a load completes. Zero means the
	// default.
	LoadDelay time.Duration
	// EndThreshold is the fraction of the viewport below which remaining
	// unrendered content triggers a load.
	EndThreshold float64
	// CancelPendingOnReset voids an in-flight load when the filter changes.
	// Off by default: a pending increment lands on the reset cursor.
	CancelPendingOnReset bool
}

// DefaultConfig returns the observed paging behavior: 7 items, +7 per load,
// 500ms settle delay, trigger at half a viewport from the end.
func DefaultConfig() Config {
	return Config{
		InitialPageSize: 7,
		PageIncrement:   7,
		LoadDelay:       500 * time.Millisecond,
		EndThreshold:    0.5,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.InitialPageSize <= 0 {
		c.InitialPageSize = d.InitialPageSize
	}
	if c.PageIncrement <= 0 {
		c.PageIncrement = d.PageIncrement
	}
	if c.LoadDelay <= 0 {
		c.LoadDelay = d.LoadDelay
	}
	if c.EndThreshold <= 0 {
		c.EndThreshold = d.EndThreshold
	}
	return c
}

// State is the complete mutable view state of a pager.
type State struct {
	Filter  Filter
	Sort    SortKey
	Cursor  int
	Loading bool
}

// Ticket identifies one in-flight load.
type Ticket struct {
	Generation uint64
}
