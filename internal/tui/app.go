package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/domain"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/feed"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/safety"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/search"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/source"
	"github.com/brocketdesign/chatlamix-uncensored-sub004/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateLoading ApplicationState = iota
	StateBrowsing
	StateFiltering
	StateSearchInput
	StateUpsell
	StateEmpty
	StateError
	StateHelp
)

// Model is the main Bubble Tea model: the browsing surface over the feed
// engine. It is also the engine's renderer collaborator, so the feed never
// touches Bubble Tea directly.
type Model struct {
	State ApplicationState
	Keys  KeyMap

	// Feed engine
	Window    *feed.Window
	Scheduler *feed.PrefetchScheduler
	Cursor    *source.FetchCursor
	Filter    *safety.Filter
	Likes     domain.LikeStore

	logger *slog.Logger

	// UI components
	Spinner spinner.Model
	Input   textinput.Model

	// Quick filter state
	filterMatches []search.Match

	// Slide animation state; pruning defers while true.
	transitioning bool
	transitionDur time.Duration

	width  int
	height int

	lastErr   error
	lastEvent string
	exhausted bool
}

// NewModel wires the browsing surface. The model registers itself as the
// feed window's renderer and as the safety filter's blur subscriber.
func NewModel(cfg feed.Config, scheduler *feed.PrefetchScheduler, cursor *source.FetchCursor, filter *safety.Filter, likes domain.LikeStore, transitionDur time.Duration, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	if transitionDur <= 0 {
		transitionDur = 150 * time.Millisecond
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 64

	m := &Model{
		State:         StateLoading,
		Keys:          DefaultKeyMap(),
		Scheduler:     scheduler,
		Cursor:        cursor,
		Filter:        filter,
		Likes:         likes,
		logger:        logger,
		Spinner:       sp,
		Input:         input,
		transitionDur: transitionDur,
	}
	m.Window = feed.NewWindow(cfg, m, logger)
	filter.Subscribe(func(visible bool) {
		m.Window.RecomputeBlur(visible)
	})
	m.Window.RecomputeBlur(filter.Visible())
	return m
}

// ShowUpsell implements domain.Upsell; ineligible safety-filter toggles
// land here instead of changing state.
func (m *Model) ShowUpsell() {
	m.State = StateUpsell
}

// Init starts the spinner and claims the first page fetch.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.Spinner.Tick}
	if cmd := m.maybePrefetch(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Update handles all messages on the single event-loop goroutine. Every
// window and cursor mutation happens here.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case PageFetchedMsg:
		return m.handlePageFetched(msg)

	case TransitionDoneMsg:
		m.transitioning = false
		m.Window.MaybePrune()
		return m, nil

	case ErrMsg:
		m.lastEvent = msg.Error()
		m.logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		return m, nil

	case LikeToggledMsg:
		// The entry may have been pruned while the toggle was in flight.
		if e, err := m.Window.EntryByID(msg.CharacterID); err == nil {
			e.Liked = msg.Liked
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handlePageFetched(msg PageFetchedMsg) (tea.Model, tea.Cmd) {
	res := m.Scheduler.Apply(m.Window, m.Cursor, msg.Req, msg.Entries, msg.Err)

	switch {
	case res.Stale:
		// A fresh session may be waiting for its first page.
		return m, m.maybePrefetch()

	case res.Err != nil:
		if m.Window.Len() == 0 {
			// Total failure on the very first page is the only
			// user-visible error state.
			m.State = StateError
			m.lastErr = res.Err
		} else if m.Cursor.HasMore {
			m.lastEvent = "fetch failed, will retry"
		} else {
			m.lastEvent = "fetch failed"
		}
		return m, nil

	case res.Exhausted:
		m.State = StateEmpty
		m.exhausted = true
		return m, nil
	}

	if m.State == StateLoading {
		m.State = StateBrowsing
	}
	return m, m.maybePrefetch()
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Modal states capture input first.
	switch m.State {
	case StateFiltering:
		return m.handleFilterKey(msg)
	case StateSearchInput:
		return m.handleSearchKey(msg)
	case StateUpsell:
		if msg.String() == "esc" || msg.String() == "enter" {
			m.State = StateBrowsing
		}
		return m, nil
	case StateHelp:
		m.State = StateBrowsing
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.Keys.NextEntry):
		return m, m.moveVertical(1)

	case key.Matches(msg, m.Keys.PrevEntry):
		return m, m.moveVertical(-1)

	case key.Matches(msg, m.Keys.NextImage):
		m.moveHorizontal(1)
		return m, nil

	case key.Matches(msg, m.Keys.PrevImage):
		m.moveHorizontal(-1)
		return m, nil

	case key.Matches(msg, m.Keys.ToggleSafety):
		m.Filter.Toggle()
		return m, nil

	case key.Matches(msg, m.Keys.Like):
		if entry := m.Window.ActiveEntry(); entry != nil {
			return m, ToggleLikeCmd(m.Likes, entry.ID)
		}
		return m, nil

	case key.Matches(msg, m.Keys.QuickFilter):
		if m.Window.Len() > 0 {
			m.State = StateFiltering
			m.Input.Placeholder = "filter materialized characters"
			m.Input.SetValue("")
			m.Input.Focus()
			m.filterMatches = nil
		}
		return m, nil

	case key.Matches(msg, m.Keys.NewSearch):
		m.State = StateSearchInput
		m.Input.Placeholder = "search characters"
		m.Input.SetValue(m.Cursor.Query)
		m.Input.Focus()
		return m, nil

	case key.Matches(msg, m.Keys.Retry):
		if m.State == StateError || m.State == StateEmpty {
			// The cursor may be exhausted or aborted; restarting the
			// session for the same query re-arms it and the cooldown.
			m.startSession(m.Cursor.Query, m.Cursor.NsfwMode)
			return m, m.maybePrefetch()
		}
		return m, nil

	case key.Matches(msg, m.Keys.Help):
		m.State = StateHelp
		return m, nil
	}

	return m, nil
}

func (m *Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.State = StateBrowsing
		m.Input.Blur()
		m.filterMatches = nil
		return m, nil
	case "enter":
		m.State = StateBrowsing
		m.Input.Blur()
		if len(m.filterMatches) > 0 {
			cmd := m.jumpTo(m.filterMatches[0].Index)
			m.filterMatches = nil
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	m.filterMatches = search.QuickFilter(m.Window.Entries(), m.Input.Value())
	return m, cmd
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.State = StateBrowsing
		m.Input.Blur()
		return m, nil
	case "enter":
		query := m.Input.Value()
		m.Input.Blur()
		m.startSession(query, m.Cursor.NsfwMode)
		return m, m.maybePrefetch()
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// startSession abandons the current browsing session: any in-flight page
// resolves as stale, the window rebuilds from page one.
func (m *Model) startSession(query string, mode domain.NsfwMode) {
	m.Window.Clear()
	m.Cursor.Reset(query, mode)
	m.Scheduler.Reset()
	m.State = StateLoading
	m.exhausted = false
	m.lastErr = nil
}

func (m *Model) moveVertical(delta int) tea.Cmd {
	next := m.Window.ActiveIndex() + delta
	if next < 0 || next >= m.Window.Len() {
		return nil
	}
	return m.jumpTo(next)
}

func (m *Model) jumpTo(index int) tea.Cmd {
	m.transitioning = true
	if err := m.Window.SetActiveIndex(index); err != nil {
		m.transitioning = false
		m.logger.Error("vertical move rejected", "index", index, "error", err)
		return nil
	}
	cmds := []tea.Cmd{TransitionCmd(m.transitionDur)}
	if cmd := m.maybePrefetch(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *Model) moveHorizontal(delta int) {
	carousel := m.Window.ActiveCarousel()
	if carousel == nil {
		return
	}
	entry := carousel.Entry()
	next := entry.ActiveImageIndex + delta
	if next < 0 || next >= entry.ImageCount() {
		return
	}
	if err := carousel.SetActiveImage(next); err != nil {
		m.logger.Error("horizontal move rejected", "index", next, "error", err)
	}
}

func (m *Model) maybePrefetch() tea.Cmd {
	req, ok := m.Scheduler.TryBegin(m.Window, m.Cursor)
	if !ok {
		return nil
	}
	return FetchPageCmd(m.Scheduler, req)
}

// === domain.Renderer ===

// OnEntryAppended records the lifecycle event for the status line.
func (m *Model) OnEntryAppended(entry *domain.CharacterEntry, index int) {
	m.logger.Debug("entry appended", "character", entry.ID, "index", index)
}

// OnEntryActivated marks the entry under the cursor.
func (m *Model) OnEntryActivated(entry *domain.CharacterEntry, index int) {
	m.logger.Debug("entry activated", "character", entry.ID, "index", index)
}

// OnEntryDeactivated fires when the cursor leaves an entry.
func (m *Model) OnEntryDeactivated(entry *domain.CharacterEntry, index int) {
	m.logger.Debug("entry deactivated", "character", entry.ID, "index", index)
}

// OnEntryRemoved fires when pruning evicts an entry.
func (m *Model) OnEntryRemoved(entry *domain.CharacterEntry) {
	m.logger.Debug("entry removed", "character", entry.ID)
}

// OnImagePromoted fires when an image reaches full resolution.
func (m *Model) OnImagePromoted(entry *domain.CharacterEntry, imageIndex int) {
	m.lastEvent = "full: " + entry.DisplayName
	m.logger.Debug("image promoted", "character", entry.ID, "image", imageIndex)
}

// OnImageDemoted fires when an image falls back to thumbnail.
func (m *Model) OnImageDemoted(entry *domain.CharacterEntry, imageIndex int) {
	m.logger.Debug("image demoted", "character", entry.ID, "image", imageIndex)
}

// OnImageMaterialized fires when a deferred image gets a thumbnail.
func (m *Model) OnImageMaterialized(entry *domain.CharacterEntry, imageIndex int) {
	m.logger.Debug("image materialized", "character", entry.ID, "image", imageIndex)
}

// IsTransitioning gates the deferred prune pass.
func (m *Model) IsTransitioning() bool {
	return m.transitioning
}
