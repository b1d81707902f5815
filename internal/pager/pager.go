package pager

// Pager holds the view state over a fixed item collection.
// Each method is one event handler; none of them block.
type Pager[T any] struct {
	cfg   Config
	acc   Accessors[T]
	items []T
	state State

	// generation advances on every filter reset when cancellation is on.
	generation uint64
}

// New creates a pager over items with no filter and recency order.
func New[T any](items []T, acc Accessors[T], cfg Config) Pager[T] {
	cfg = cfg.withDefaults()
	return Pager[T]{
		cfg:   cfg,
		acc:   acc,
		items: items,
		state: State{
			Filter: NoFilter,
			Sort:   SortRecency,
			Cursor: cfg.InitialPageSize,
		},
	}
}

// Config returns the effective paging constants.
func (p *Pager[T]) Config() Config {
	return p.cfg
}

// State returns a copy of the current view state.
func (p *Pager[T]) State() State {
	return p.state
}

// Items returns the full source collection.
func (p *Pager[T]) Items() []T {
	return p.items
}

// SetItems replaces the source collection. Filter, sort and cursor are kept.
func (p *Pager[T]) SetItems(items []T) {
	p.items = items
}

// Sorted returns the filtered, sorted sequence.
func (p *Pager[T]) Sorted() []T {
	return ApplySort(ApplyFilter(p.items, p.state.Filter, p.acc), p.state.Sort, p.acc)
}

// Visible returns the prefix of Sorted that is currently revealed.
func (p *Pager[T]) Visible() []T {
	return VisibleSlice(p.Sorted(), p.state.Cursor)
}

// HasMore reports whether items remain beyond the cursor.
func (p *Pager[T]) HasMore() bool {
	return p.state.Cursor < len(p.Sorted())
}

// SelectFilter changes the grouping filter and resets the cursor.
//
// A load already in flight is left alone unless CancelPendingOnReset is set,
// so its increment applies on top of the reset cursor when it completes.
func (p *Pager[T]) SelectFilter(f Filter) {
	p.state.Filter = f
	p.state.Cursor = p.cfg.InitialPageSize
	if p.cfg.CancelPendingOnReset && p.state.Loading {
		p.generation++
		p.state.Loading = false
	}
}

// SelectSort changes the sort key. The cursor is not reset.
func (p *Pager[T]) SelectSort(k SortKey) {
	p.state.Sort = k
}

// RequestMore starts a load if none is in flight and items remain.
// It returns the ticket to pass to CompleteLoad after Config().LoadDelay,
// and false when the request was a no-op.
func (p *Pager[T]) RequestMore() (Ticket, bool) {
	if p.state.Loading || !p.HasMore() {
		return Ticket{}, false
	}
	p.state.Loading = true
	return Ticket{Generation: p.generation}, true
}

// CompleteLoad applies a finished load: the cursor advances by one page
// increment and the loading flag clears. Tickets voided by a filter reset
// are ignored, as is a ticket delivered after its load already completed.
func (p *Pager[T]) CompleteLoad(t Ticket) bool {
	if !p.state.Loading || t.Generation != p.generation {
		return false
	}
	p.state.Cursor += p.cfg.PageIncrement
	p.state.Loading = false
	return true
}
