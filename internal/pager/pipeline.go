package pager

import (
	"cmp"
	"slices"
)

// ApplyFilter keeps the items whose grouping key matches f, in input order.
// An inactive filter returns items unchanged.
func ApplyFilter[T any](items []T, f Filter, acc Accessors[T]) []T {
	if !f.Active {
		return items
	}

	result := make([]T, 0, len(items))
	for _, item := range items {
		if f.Matches(acc.GroupKey(item)) {
			result = append(result, item)
		}
	}
	return result
}

// ApplySort returns a new slice ordered by key. Ranking keys sort descending
// and keep the input order of ties; recency keeps the input order.
func ApplySort[T any](items []T, key SortKey, acc Accessors[T]) []T {
	sorted := slices.Clone(items)
	if sorted == nil {
		sorted = []T{}
	}

	metric := key.Metric()
	if metric == "" || acc.Metric == nil {
		return sorted
	}

	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(acc.Metric(b, metric), acc.Metric(a, metric))
	})
	return sorted
}

// VisibleSlice returns the first min(cursor, len(sorted)) items.
func VisibleSlice[T any](sorted []T, cursor int) []T {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(sorted) {
		cursor = len(sorted)
	}
	return sorted[:cursor:cursor]
}

// ShouldLoadMore reports whether the render surface is close enough to its
// end to reveal more: remaining unrendered rows below the viewport are fewer
// than threshold*viewport.
func ShouldLoadMore(remaining, viewport int, threshold float64) bool {
	if viewport <= 0 {
		return remaining <= 0
	}
	return float64(remaining) < threshold*float64(viewport)
}
