package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/tourfeed/internal/logging"
	"github.com/abelbrown/tourfeed/internal/pager"
	"github.com/abelbrown/tourfeed/internal/remote"
	"github.com/abelbrown/tourfeed/internal/tour"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Screen identifies one of the app's screens.
type Screen int

const (
	ScreenFeed Screen = iota
	ScreenTour
	ScreenQuestion
)

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold sources or the store. It receives data via
// messages from the injected load commands.
type App struct {
	loadRecords  func() tea.Cmd
	loadProfiles func() tea.Cmd
	loadTour     func() tea.Cmd

	// Optional questionnaire, see WithQuestions.
	loadQuestions func() tea.Cmd
	recommend     func(answers []string) tea.Cmd

	screen   Screen
	feed     feedScreen
	tour     tourScreen
	question questionScreen
	spinner  spinner.Model

	source  string
	err     error
	width   int
	height  int
	ready   bool
	pending int // data loads in flight
}

// NewApp creates a new App with the given pager settings and command
// functions. Any loader may be nil.
// loadRecords: returns a Cmd producing RecordsLoaded
// loadProfiles: returns a Cmd producing ProfilesLoaded
// loadTour: returns a Cmd producing TourLoaded
func NewApp(cfg pager.Config, loadRecords, loadProfiles, loadTour func() tea.Cmd) App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = LoadingStyle

	return App{
		loadRecords:  loadRecords,
		loadProfiles: loadProfiles,
		loadTour:     loadTour,
		feed:         newFeedScreen(cfg),
		tour:         newTourScreen(cfg),
		spinner:      s,
		pending:      countLoaders(loadRecords, loadProfiles, loadTour),
	}
}

// WithQuestions enables the questionnaire screen.
// loadQuestions: returns a Cmd producing QuestionsLoaded
// recommend: returns a Cmd producing RecommendDone for the answers
func (a App) WithQuestions(loadQuestions func() tea.Cmd, recommend func(answers []string) tea.Cmd) App {
	a.loadQuestions = loadQuestions
	a.recommend = recommend
	return a
}

func (a App) questionsEnabled() bool {
	return a.loadQuestions != nil && a.recommend != nil
}

func countLoaders(loaders ...func() tea.Cmd) int {
	n := 0
	for _, l := range loaders {
		if l != nil {
			n++
		}
	}
	return n
}

// Init starts every loader and the loading spinner.
func (a App) Init() tea.Cmd {
	cmds := a.loaderCmds()
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(append(cmds, a.spinner.Tick)...)
}

func (a App) loaderCmds() []tea.Cmd {
	var cmds []tea.Cmd
	for _, l := range []func() tea.Cmd{a.loadRecords, a.loadProfiles, a.loadTour} {
		if l != nil {
			cmds = append(cmds, l())
		}
	}
	return cmds
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a.maybeLoadMore(a.screen)

	case RecordsLoaded:
		a.pending = max(a.pending-1, 0)
		if msg.Err != nil {
			a.err = msg.Err
			logging.Error("Failed to load posts", "source", msg.Source, "error", msg.Err)
			return a, nil
		}
		a.err = nil
		a.source = msg.Source
		a.feed.pager.SetItems(msg.Records)
		a.feed.list.clamp(len(a.feed.visible()), a.feedViewport())
		logging.Info("Posts loaded", "source", msg.Source, "count", len(msg.Records))
		return a.maybeLoadMore(ScreenFeed)

	case ProfilesLoaded:
		a.pending = max(a.pending-1, 0)
		if msg.Err != nil {
			a.err = msg.Err
			logging.Error("Failed to load profiles", "error", msg.Err)
			return a, nil
		}
		a.feed.setProfiles(msg.Profiles)
		return a, nil

	case TourLoaded:
		a.pending = max(a.pending-1, 0)
		if msg.Err != nil {
			a.err = msg.Err
			logging.Error("Failed to load tour", "error", msg.Err)
			return a, nil
		}
		a.tour.setProgram(msg.Program)
		return a.maybeLoadMore(ScreenTour)

	case QuestionsLoaded:
		a.question.loading = false
		if msg.Err != nil {
			a.err = msg.Err
			logging.Error("Failed to load questions", "error", msg.Err)
			return a, nil
		}
		a.question.setQuestions(msg.Questions)
		return a, nil

	case RecommendDone:
		if msg.Err != nil {
			a.question.submitting = false
			a.err = msg.Err
			logging.Error("Failed to score answers", "error", msg.Err)
			return a, nil
		}
		adopted := a.feed.adoptResult(msg.Result)
		a.question.setResult(msg.Result, adopted)
		logging.Info("Questionnaire scored", "mbti", msg.Result.MBTI, "adopted", adopted)
		return a, nil

	case LoadMoreDone:
		var applied bool
		switch msg.Screen {
		case ScreenFeed:
			applied = a.feed.pager.CompleteLoad(msg.Ticket)
		case ScreenTour:
			applied = a.tour.pager.CompleteLoad(msg.Ticket)
		}
		if !applied {
			logging.Debug("Dropped stale load-more", "screen", msg.Screen)
			return a, nil
		}
		return a.maybeLoadMore(msg.Screen)

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear any existing error on key press
	if a.err != nil {
		a.err = nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Tab):
		switch {
		case a.screen == ScreenFeed:
			a.screen = ScreenTour
		case a.screen == ScreenTour && a.questionsEnabled():
			a.screen = ScreenQuestion
			return a, a.startQuestions()
		default:
			a.screen = ScreenFeed
		}
		return a, nil

	case key.Matches(msg, keys.Refresh):
		if a.screen == ScreenQuestion {
			a.question = questionScreen{}
			return a, a.startQuestions()
		}
		cmds := a.loaderCmds()
		if len(cmds) == 0 {
			return a, nil
		}
		a.pending = len(cmds)
		return a, tea.Batch(cmds...)
	}

	switch a.screen {
	case ScreenTour:
		return a.handleTourKey(msg)
	case ScreenQuestion:
		return a.handleQuestionKey(msg)
	}
	return a.handleFeedKey(msg)
}

// startQuestions fetches the questionnaire the first time the screen opens.
func (a *App) startQuestions() tea.Cmd {
	if a.question.loaded || a.question.loading || !a.questionsEnabled() {
		return nil
	}
	a.question.loading = true
	return tea.Batch(a.loadQuestions(), a.spinner.Tick)
}

func (a App) handleQuestionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	q := &a.question
	if !q.loaded {
		return a, nil
	}
	if q.hasResult {
		if key.Matches(msg, keys.Enter) && q.adopted {
			a.screen = ScreenFeed
			return a.maybeLoadMore(ScreenFeed)
		}
		return a, nil
	}

	var done bool
	switch {
	case key.Matches(msg, keys.Option):
		done = q.choose(int(msg.Runes[0] - '1'))
	case key.Matches(msg, keys.Enter):
		done = q.choose(q.cursor)
	case key.Matches(msg, keys.Up):
		q.move(-1)
	case key.Matches(msg, keys.Down):
		q.move(1)
	case key.Matches(msg, keys.Previous):
		q.previous()
	}
	if done {
		return a, tea.Batch(a.recommend(q.flow.Answers()), a.spinner.Tick)
	}
	return a, nil
}

func (a App) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &a.feed
	viewport := a.feedViewport()

	if f.dropdown {
		switch {
		case key.Matches(msg, keys.Up):
			f.moveDropdown(-1)
		case key.Matches(msg, keys.Down):
			f.moveDropdown(1)
		case key.Matches(msg, keys.Enter):
			f.selectProfile(f.dropdownCursor)
			return a.maybeLoadMore(ScreenFeed)
		case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Dropdown):
			f.dropdown = false
		}
		return a, nil
	}

	n := len(f.visible())
	switch {
	case key.Matches(msg, keys.Dropdown):
		f.openDropdown()
	case key.Matches(msg, keys.Region):
		if f.selectRegion(int(msg.Runes[0] - '1')) {
			return a.maybeLoadMore(ScreenFeed)
		}
	case key.Matches(msg, keys.ClearRegion):
		f.clearRegion()
		return a.maybeLoadMore(ScreenFeed)
	case key.Matches(msg, keys.Sort):
		f.cycleSort(viewport)
		return a.maybeLoadMore(ScreenFeed)
	case key.Matches(msg, keys.Up):
		f.list.move(-1, n, viewport)
	case key.Matches(msg, keys.Down):
		f.list.move(1, n, viewport)
		return a.maybeLoadMore(ScreenFeed)
	case key.Matches(msg, keys.Top):
		f.list.top()
	case key.Matches(msg, keys.Bottom):
		f.list.bottom(n, viewport)
		return a.maybeLoadMore(ScreenFeed)
	}
	return a, nil
}

func (a App) handleTourKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	t := &a.tour
	n := len(t.pager.Visible())

	switch {
	case key.Matches(msg, keys.Wishlist):
		t.toggleWishlist()
	case key.Matches(msg, keys.Day):
		t.cycleDay()
		return a.maybeLoadMore(ScreenTour)
	case key.Matches(msg, keys.PeopleUp):
		t.booking.AddPeople(1)
	case key.Matches(msg, keys.PeopleDown):
		t.booking.AddPeople(-1)
	case key.Matches(msg, keys.Apply):
		t.booking.Apply()
	case key.Matches(msg, keys.DatePrev):
		t.booking.ShiftDate(-1)
	case key.Matches(msg, keys.DateNext):
		t.booking.ShiftDate(1)
	case key.Matches(msg, keys.Up):
		t.list.move(-1, n, scheduleRows)
	case key.Matches(msg, keys.Down):
		t.list.move(1, n, scheduleRows)
		return a.maybeLoadMore(ScreenTour)
	case key.Matches(msg, keys.Top):
		t.list.top()
	case key.Matches(msg, keys.Bottom):
		t.list.bottom(n, scheduleRows)
		return a.maybeLoadMore(ScreenTour)
	}
	return a, nil
}

// maybeLoadMore requests the next page when the list on screen s is
// scrolled near its end, and schedules the completion after the load delay.
func (a App) maybeLoadMore(s Screen) (tea.Model, tea.Cmd) {
	if !a.ready {
		return a, nil
	}

	var p interface {
		RequestMore() (pager.Ticket, bool)
		Config() pager.Config
	}
	switch s {
	case ScreenFeed:
		if _, ok := a.feed.profile(); !ok {
			return a, nil
		}
		viewport := a.feedViewport()
		if !a.feed.list.nearEnd(len(a.feed.visible()), viewport, a.feed.pager.Config().EndThreshold) {
			return a, nil
		}
		p = &a.feed.pager
	case ScreenTour:
		if !a.tour.loaded {
			return a, nil
		}
		if !a.tour.list.nearEnd(len(a.tour.pager.Visible()), scheduleRows, a.tour.pager.Config().EndThreshold) {
			return a, nil
		}
		p = &a.tour.pager
	default:
		return a, nil
	}

	ticket, ok := p.RequestMore()
	if !ok {
		return a, nil
	}
	delay := p.Config().LoadDelay
	return a, tea.Tick(delay, func(time.Time) tea.Msg {
		return LoadMoreDone{Screen: s, Ticket: ticket}
	})
}

// feedViewport is the number of post rows that fit under the header.
func (a App) feedViewport() int {
	h := a.height - lipgloss.Height(a.feed.header(a.width)) - 2 // footer + status bar
	if a.err != nil {
		h--
	}
	return max(h, 1)
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	var content string
	switch a.screen {
	case ScreenTour, ScreenQuestion:
		if a.screen == ScreenTour {
			content = a.tour.view(a.width)
		} else {
			content = a.question.view(a.width, a.spinner.View())
		}
		// Keep the status bar on screen.
		maxLines := a.height - 1
		if a.err != nil {
			maxLines--
		}
		if lines := strings.Split(content, "\n"); len(lines) > maxLines && maxLines > 0 {
			content = strings.Join(lines[:maxLines], "\n")
		}
	default:
		content = a.feed.header(a.width) + "\n" + a.feed.body(a.width, a.feedViewport()) + "\n" + a.feedFooter()
	}

	// Render error bar if there's an error (shown above status bar)
	errorBar := ""
	if a.err != nil {
		errorBar = ErrorStyle.Width(a.width).Render("Error: "+errorText(a.err)+" (press any key to dismiss)") + "\n"
	}

	return content + "\n" + errorBar + a.statusBar()
}

func (a App) feedFooter() string {
	if a.feed.pager.State().Loading {
		return LoadingStyle.Render(a.spinner.View() + " 더보기 로딩 중…")
	}
	return ""
}

func (a App) statusBar() string {
	var left string
	switch a.screen {
	case ScreenTour:
		left = fmt.Sprintf("투어 · 일정 %d개", len(a.tour.pager.Visible()))
	case ScreenQuestion:
		left = "성향 질문"
		if a.question.loaded && !a.question.hasResult {
			left += " · " + a.question.flow.Progress()
		}
	default:
		shown := len(a.feed.visible())
		total := 0
		if _, ok := a.feed.profile(); ok {
			total = len(a.feed.pager.Sorted())
		}
		left = fmt.Sprintf("게시글 %d/%d · %s", shown, total, a.feed.pager.State().Sort.Label())
	}
	if a.pending > 0 {
		left += " · " + a.spinner.View()
	}
	if a.source != "" {
		left += " · " + a.source
	}

	hints := []key.Binding{keys.Tab, keys.Refresh, keys.Quit}
	switch a.screen {
	case ScreenTour:
		hints = append([]key.Binding{keys.Wishlist, keys.Day, keys.PeopleUp, keys.Apply, keys.DateNext}, hints...)
	case ScreenQuestion:
		hints = append([]key.Binding{keys.Option, keys.Previous}, hints...)
	default:
		hints = append([]key.Binding{keys.Dropdown, keys.Region, keys.ClearRegion, keys.Sort}, hints...)
	}
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, StatusBarKey.Render(h.Help().Key)+" "+StatusBarText.Render(h.Help().Desc))
	}

	return StatusBar.Width(a.width).Render(StatusBarText.Render(left) + "  " + strings.Join(parts, "  "))
}

// errorText maps load errors to what the user should see.
func errorText(err error) string {
	if errors.Is(err, remote.ErrUnauthorized) {
		return "로그인이 필요합니다"
	}
	return err.Error()
}

// ActiveScreen returns the screen on display (for testing).
func (a App) ActiveScreen() Screen {
	return a.screen
}

// PagerState returns the feed pager state (for testing).
func (a App) PagerState() pager.State {
	return a.feed.pager.State()
}

// SelectedProfile returns the MBTI type the feed shows, or "" (for testing).
func (a App) SelectedProfile() string {
	p, _ := a.feed.profile()
	return p.MBTI
}

// BookingQuote returns the quote for the current booking (for testing).
func (a App) BookingQuote() (tour.Quote, bool) {
	if !a.tour.loaded {
		return tour.Quote{}, false
	}
	return a.tour.booking.Quote(a.tour.program), true
}

// Visible returns the posts currently rendered (for testing).
func (a App) Visible() int {
	return len(a.feed.visible())
}
