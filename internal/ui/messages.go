// Package ui provides the Bubble Tea TUI for tourfeed.
package ui

import (
	"github.com/abelbrown/tourfeed/internal/feed"
	"github.com/abelbrown/tourfeed/internal/pager"
	"github.com/abelbrown/tourfeed/internal/question"
	"github.com/abelbrown/tourfeed/internal/tour"
	"github.com/abelbrown/tourfeed/internal/trait"
)

// RecordsLoaded is sent when the post source finishes loading.
type RecordsLoaded struct {
	Source  string
	Records []feed.Record
	Err     error
}

// ProfilesLoaded is sent when the profile list arrives.
type ProfilesLoaded struct {
	Profiles []trait.Profile
	Err      error
}

// TourLoaded is sent when the tour program arrives.
type TourLoaded struct {
	Program tour.Program
	Err     error
}

// QuestionsLoaded is sent when the questionnaire arrives.
type QuestionsLoaded struct {
	Questions []question.Question
	Err       error
}

// RecommendDone is sent when the submitted answers have been scored.
type RecommendDone struct {
	Result question.Result
	Err    error
}

// LoadMoreDone is delivered after the pager's load delay to complete a
// pending load-more on one screen.
type LoadMoreDone struct {
	Screen Screen
	Ticket pager.Ticket
}
