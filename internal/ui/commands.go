package ui

import (
	"context"
	"time"

	"github.com/abelbrown/tourfeed/internal/feed"
	"github.com/abelbrown/tourfeed/internal/logging"
	"github.com/abelbrown/tourfeed/internal/question"
	"github.com/abelbrown/tourfeed/internal/tour"
	"github.com/abelbrown/tourfeed/internal/trait"
	tea "github.com/charmbracelet/bubbletea"
)

// LoadRecords returns a loader that reads every record from src.
func LoadRecords(src feed.Source, timeout time.Duration) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			start := time.Now()
			records, err := src.Load(ctx)
			logging.Debug("Loaded posts", "source", src.Name(), "count", len(records), "elapsed", time.Since(start), "error", err)
			return RecordsLoaded{Source: src.Name(), Records: records, Err: err}
		}
	}
}

// LoadProfiles returns a loader for the trait profiles.
func LoadProfiles(src trait.Source, timeout time.Duration) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			profiles, err := src.Load(ctx)
			logging.Debug("Loaded profiles", "source", src.Name(), "count", len(profiles), "error", err)
			return ProfilesLoaded{Profiles: profiles, Err: err}
		}
	}
}

// LoadTour returns a loader for tour program id.
func LoadTour(src tour.Source, id int64, timeout time.Duration) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			p, err := src.Get(ctx, id)
			logging.Debug("Loaded tour", "source", src.Name(), "id", id, "error", err)
			return TourLoaded{Program: p, Err: err}
		}
	}
}

// LoadQuestions returns a loader for the questionnaire in language.
func LoadQuestions(src question.Source, language string, timeout time.Duration) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			qs, err := src.Questions(ctx, language)
			logging.Debug("Loaded questions", "source", src.Name(), "count", len(qs), "error", err)
			return QuestionsLoaded{Questions: qs, Err: err}
		}
	}
}

// Recommend returns a command factory that submits answers to src.
func Recommend(src question.Source, language string, timeout time.Duration) func([]string) tea.Cmd {
	return func(answers []string) tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			res, err := src.Recommend(ctx, language, answers)
			logging.Debug("Scored answers", "source", src.Name(), "mbti", res.MBTI, "error", err)
			return RecommendDone{Result: res, Err: err}
		}
	}
}
