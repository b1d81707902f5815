package ui

import "github.com/charmbracelet/bubbles/key"

// Key bindings
var keys = struct {
	Quit        key.Binding
	Tab         key.Binding
	Refresh     key.Binding
	Up          key.Binding
	Down        key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Enter       key.Binding
	Escape      key.Binding
	Dropdown    key.Binding
	Region      key.Binding
	ClearRegion key.Binding
	Sort        key.Binding
	Wishlist    key.Binding
	Day         key.Binding
	PeopleUp    key.Binding
	PeopleDown  key.Binding
	Apply       key.Binding
	DatePrev    key.Binding
	DateNext    key.Binding
	Option      key.Binding
	Previous    key.Binding
}{
	Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "screen")),
	Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Up:          key.NewBinding(key.WithKeys("k", "up")),
	Down:        key.NewBinding(key.WithKeys("j", "down")),
	Top:         key.NewBinding(key.WithKeys("g", "home")),
	Bottom:      key.NewBinding(key.WithKeys("G", "end")),
	Enter:       key.NewBinding(key.WithKeys("enter")),
	Escape:      key.NewBinding(key.WithKeys("esc")),
	Dropdown:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "성향")),
	Region:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "지역")),
	ClearRegion: key.NewBinding(key.WithKeys("0", "esc"), key.WithHelp("0", "전체")),
	Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "정렬")),
	Wishlist:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "찜")),
	Day:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "일차")),
	PeopleUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "인원")),
	PeopleDown:  key.NewBinding(key.WithKeys("-")),
	Apply:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "적용")),
	DatePrev:    key.NewBinding(key.WithKeys("[")),
	DateNext:    key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "날짜")),
	Option:      key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "선택")),
	Previous:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "이전 질문")),
}
