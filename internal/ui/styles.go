package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorWarning   = lipgloss.Color("214") // Orange
)

// SelectedItem style for the currently highlighted row.
var SelectedItem = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalItem style for unselected rows.
var NormalItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// MetaItem style for like/comment counts and travel times.
var MetaItem = lipgloss.NewStyle().
	Foreground(colorSecondary)

// SectionTitle style for headings like "해시태그" and "추천 지역".
var SectionTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// DropdownButton style for the profile selector.
var DropdownButton = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 2)

// DropdownItem style for an entry in the open profile list.
var DropdownItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Padding(0, 2)

// DropdownCursor style for the highlighted profile list entry.
var DropdownCursor = DropdownItem.
	Foreground(colorHighlight).
	Bold(true)

// Hashtag style for profile and tour hashtags.
var Hashtag = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Background(lipgloss.Color("236")).
	Padding(0, 1).
	MarginRight(1)

// RegionChip style for an unselected recommended region.
var RegionChip = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252")).
	Padding(0, 1).
	MarginRight(1)

// RegionChipSelected style for the active region filter.
var RegionChipSelected = RegionChip.
	Foreground(lipgloss.Color("255")).
	Background(colorSuccess).
	Bold(true)

// DayHeader style for "Day N" group labels.
var DayHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// LoadingStyle for the load-more footer.
var LoadingStyle = lipgloss.NewStyle().
	Foreground(colorWarning).
	Padding(0, 1)

// PriceStyle for the per-person guide price.
var PriceStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorSuccess).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("196")).
	Bold(true).
	Padding(0, 1)

// HelpStyle for empty-state hints.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)
