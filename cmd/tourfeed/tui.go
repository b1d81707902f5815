package main

import (
	"fmt"

	"github.com/abelbrown/tourfeed/internal/logging"
	"github.com/abelbrown/tourfeed/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

type tuiCommand struct{}

// Execute runs the Bubble Tea program. Logs go to a file so they do not
// corrupt the terminal.
func (c *tuiCommand) Execute(args []string) error {
	dir, err := logging.DefaultDir()
	if err != nil {
		return err
	}
	cfg, err := resolve(logging.Options{Dir: dir})
	if err != nil {
		return err
	}
	defer logging.Close()

	logging.Info("tourfeed starting", "version", logging.Version)

	st, err := openStore(cfg, cfg.UsesStore())
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	posts, err := cfg.PostSource(st)
	if err != nil {
		return err
	}
	profiles, err := cfg.ProfileSource(st)
	if err != nil {
		return err
	}
	tours, err := cfg.TourSource(st)
	if err != nil {
		return err
	}
	questions, err := cfg.QuestionSource(profiles)
	if err != nil {
		return err
	}

	timeout := cfg.Remote.Timeout
	app := ui.NewApp(
		cfg.PagerSettings(),
		ui.LoadRecords(posts, timeout),
		ui.LoadProfiles(profiles, timeout),
		ui.LoadTour(tours, cfg.Tour.ID, timeout),
	).WithQuestions(
		ui.LoadQuestions(questions, cfg.Question.Language, timeout),
		ui.Recommend(questions, cfg.Question.Language, timeout),
	)

	p := tea.NewProgram(app, tea.WithAltScreen())

	logging.Info("Starting UI", "posts", posts.Name(), "profiles", profiles.Name(), "tours", tours.Name(), "questions", questions.Name())
	if _, err := p.Run(); err != nil {
		logging.Error("Application error", "error", err)
		return fmt.Errorf("run ui: %w", err)
	}

	logging.Info("tourfeed exiting normally")
	return nil
}
