package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/speedrun-arcade/internal/core"
	"github.com/vovakirdan/speedrun-arcade/internal/publish"
	"github.com/vovakirdan/speedrun-arcade/internal/registry"
	"github.com/vovakirdan/speedrun-arcade/internal/scoring"
	"github.com/vovakirdan/speedrun-arcade/internal/storage"
)

// EventSink receives score events while a run is in progress and the
// summary once it ends. *publish.Publisher implements it.
type EventSink interface {
	PublishEvent(gameID string, e scoring.Event) error
	PublishRun(msg publish.RunMessage) error
}

// tallySource is implemented by games with an end-of-stage breakdown.
type tallySource interface {
	Tally() scoring.Tally
}

// publishErrMsg reports a failed publish back to the model.
type publishErrMsg struct{ err error }

// Model is the Bubble Tea model for running arcade games.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	sink       EventSink
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keyMapper  *KeyMapper
	gameState  core.GameState
	quitting   bool
	embedded   bool // Running inside a session: back returns to the menu
	backToMenu bool
	runSaved   bool // Whether the run has been saved for current game over
	forwarded  int  // Score events already sent to the sink
	loop       uint64
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		logger:     log.Default(),
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		loop:       nextLoop(),
	}
}

// WithSink forwards score events to sink. Publish failures are logged to
// logger and never interrupt the game.
func (m Model) WithSink(sink EventSink, logger *log.Logger) Model {
	m.sink = sink
	if logger != nil {
		m.logger = logger
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate, m.loop)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		if msg.Loop != m.loop {
			return m, nil
		}
		return m.handleTick()

	case publishErrMsg:
		m.logger.Warn("could not publish score event", "game", m.game.ID(), "error", msg.err)
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	// Back to menu when the run is over or paused
	if m.embedded && m.inputFrame.Has(core.ActionBack) && (m.gameState.GameOver || m.gameState.Paused) {
		m.backToMenu = true
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// The playfield depends on the screen size, so a resize restarts the run
	if !m.gameState.GameOver {
		m.restart()
	}

	return m, nil
}

// restart resets the game and the per-run bookkeeping.
func (m *Model) restart() {
	m.game.Reset(m.config)
	m.gameState = m.game.State()
	m.runSaved = false
	m.forwarded = 0
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.restart()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate, m.loop)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	cmds := []tea.Cmd{tickCmd(m.config.TickRate, m.loop)}
	if cmd := m.forwardEvents(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	// Save the run on game over (once)
	if m.gameState.GameOver && !m.runSaved {
		if cmd := m.finishRun(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.runSaved = true
	}

	m.inputFrame.Clear()
	return m, tea.Batch(cmds...)
}

// scoreEvents returns the game's event log, if it keeps one.
func (m Model) scoreEvents() []scoring.Event {
	src, ok := m.game.(registry.ScoreEventSource)
	if !ok {
		return nil
	}
	return src.ScoreEvents()
}

// forwardEvents publishes events recorded since the last tick.
func (m *Model) forwardEvents() tea.Cmd {
	if m.sink == nil {
		return nil
	}
	events := m.scoreEvents()
	if len(events) <= m.forwarded {
		return nil
	}

	fresh := events[m.forwarded:]
	m.forwarded = len(events)

	sink, gameID := m.sink, m.game.ID()
	return func() tea.Msg {
		for _, e := range fresh {
			if err := sink.PublishEvent(gameID, e); err != nil {
				return publishErrMsg{err}
			}
		}
		return nil
	}
}

// finishRun stores the run with its event log and publishes the summary.
func (m *Model) finishRun() tea.Cmd {
	events := m.scoreEvents()

	if m.store != nil && m.gameState.Score > 0 {
		id, err := m.store.SaveRun(storage.Run{
			GameID:   m.game.ID(),
			Score:    m.gameState.Score,
			MaxCombo: m.gameState.MaxCombo,
			Ticks:    m.gameState.Tick,
			Events:   events,
		})
		if err != nil {
			m.logger.Error("could not save run", "game", m.game.ID(), "error", err)
		} else {
			m.logger.Debug("run saved", "id", id, "score", m.gameState.Score, "events", len(events))
		}
	}

	if m.sink == nil {
		return nil
	}
	msg := publish.RunMessage{
		GameID:   m.game.ID(),
		Score:    m.gameState.Score,
		MaxCombo: m.gameState.MaxCombo,
		Ticks:    m.gameState.Tick,
		Cleared:  m.gameState.Cleared,
	}
	if ts, ok := m.game.(tallySource); ok {
		msg.Tally = ts.Tally().Lines
	}
	sink := m.sink
	return func() tea.Msg {
		if err := sink.PublishRun(msg); err != nil {
			return publishErrMsg{err}
		}
		return nil
	}
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last game state seen by the model.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program with the given model.
// sink may be nil.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, sink EventSink, logger *log.Logger) error {
	model := NewModel(game, store, cfg).WithSink(sink, logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
