package ui

import (
	"github.com/abelbrown/tourfeed/internal/pager"
	"github.com/charmbracelet/lipgloss"
)

// listView tracks the cursor and scroll offset of a rendered list.
type listView struct {
	cursor int
	offset int
}

// move shifts the cursor by delta within n rows and keeps it visible.
func (l *listView) move(delta, n, viewport int) {
	l.cursor += delta
	l.clamp(n, viewport)
}

func (l *listView) top() {
	l.cursor = 0
	l.offset = 0
}

func (l *listView) bottom(n, viewport int) {
	l.cursor = n - 1
	l.clamp(n, viewport)
}

func (l *listView) clamp(n, viewport int) {
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.offset = calcScrollOffset(l.cursor, l.offset, viewport)
}

// remaining is the number of rows below the bottom of the viewport.
func (l listView) remaining(n, viewport int) int {
	return max(n-(l.offset+viewport), 0)
}

// nearEnd reports whether the list is close enough to its end to load more.
func (l listView) nearEnd(n, viewport int, threshold float64) bool {
	return pager.ShouldLoadMore(l.remaining(n, viewport), viewport, threshold)
}

// calcScrollOffset returns the smallest change to offset that keeps cursor
// inside a viewport of the given height.
func calcScrollOffset(cursor, offset, viewport int) int {
	if viewport < 1 {
		viewport = 1
	}
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+viewport {
		return cursor - viewport + 1
	}
	return max(offset, 0)
}

// truncateWidth shortens s to at most width terminal cells, appending "…".
// Hangul is double width, so this measures cells, not runes.
func truncateWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
