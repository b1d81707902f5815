// Package question runs the travel personality questionnaire: a list of
// multiple-choice questions answered one at a time, then submitted for a
// recommended profile.
package question

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abelbrown/tourfeed/internal/feed"
)

var (
	// ErrNoOption is returned when a choice is outside the current options.
	ErrNoOption = errors.New("question: no such option")
	// ErrAnswerCount is returned when a submission does not answer every
	// question exactly once.
	ErrAnswerCount = errors.New("question: answer count does not match the questions")
)

// Question is one multiple-choice question.
type Question struct {
	Question string   `json:"question" yaml:"question"`
	Options  []string `json:"options" yaml:"options"`
	// Letters maps each option to the MBTI letter it counts toward. Only
	// fixtures carry it; backends score answers themselves.
	Letters []string `json:"-" yaml:"letters"`
}

// Result is the profile recommended for a set of answers.
type Result struct {
	MBTI               string   `json:"mbti"`
	Description        string   `json:"description,omitempty"`
	Tags               []string `json:"tags,omitempty"`
	RecommendedRegions []string `json:"recommended_regions,omitempty"`
}

func (r Result) normalized() Result {
	r.MBTI = strings.ToUpper(strings.TrimSpace(r.MBTI))
	regions := make([]string, 0, len(r.RecommendedRegions))
	for _, region := range r.RecommendedRegions {
		if region = feed.NormalizeKey(region); region != "" {
			regions = append(regions, region)
		}
	}
	r.RecommendedRegions = regions
	return r
}

// Flow is the answer state of one questionnaire run. Going back keeps the
// later answers, so answering again only overwrites the current question.
// Like pager.Pager it is owned by a single event loop.
type Flow struct {
	questions []Question
	answers   []string
	index     int
}

// NewFlow starts at the first question with nothing answered.
func NewFlow(questions []Question) Flow {
	return Flow{questions: questions, answers: make([]string, len(questions))}
}

// Len is the number of questions.
func (f *Flow) Len() int { return len(f.questions) }

// Index is the position of the current question.
func (f *Flow) Index() int { return f.index }

// Current returns the question on display, false when there are none.
func (f *Flow) Current() (Question, bool) {
	if len(f.questions) == 0 {
		return Question{}, false
	}
	return f.questions[f.index], true
}

// Selected is the recorded answer for the current question, or "".
func (f *Flow) Selected() string {
	if len(f.answers) == 0 {
		return ""
	}
	return f.answers[f.index]
}

// Choose records option i for the current question. It advances to the
// next question and returns true once the last question is answered.
func (f *Flow) Choose(i int) (bool, error) {
	q, ok := f.Current()
	if !ok || i < 0 || i >= len(q.Options) {
		return false, ErrNoOption
	}
	f.answers[f.index] = q.Options[i]
	if f.index+1 < len(f.questions) {
		f.index++
		return false, nil
	}
	return true, nil
}

// Previous steps back one question. It returns false on the first one.
func (f *Flow) Previous() bool {
	if f.index == 0 {
		return false
	}
	f.index--
	return true
}

// Answers returns a copy of the answers in question order.
func (f *Flow) Answers() []string {
	return append([]string(nil), f.answers...)
}

// Progress renders the position, e.g. "2 / 5".
func (f *Flow) Progress() string {
	return fmt.Sprintf("%d / %d", f.index+1, len(f.questions))
}
