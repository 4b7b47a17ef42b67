package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/registry"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

// helpHeight is the number of terminal lines under the game screen taken by
// the key help.
const helpHeight = 1

// GameModel is the Bubble Tea model that runs one game: it feeds mapped
// input to the game at a fixed tick rate, draws the screen buffer with the
// key help underneath and records the score once per finished game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger // nil while the local TUI owns the terminal
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	help       help.Model
	canGoBack  bool // Running inside a session with a menu to return to
	quitting   bool
	backToMenu bool
	scoreSaved bool // Whether score has been saved for current game over
	lastSaveID int64
}

// GameOption configures a GameModel.
type GameOption func(*GameModel)

// WithLogger reports storage failures and game results.
func WithLogger(l *log.Logger) GameOption {
	return func(m *GameModel) { m.logger = l }
}

// WithBackToMenu lets B return to the session menu when the game is paused
// or over.
func WithBackToMenu() GameOption {
	return func(m *GameModel) { m.canGoBack = true }
}

// NewGameModel creates a new Bubble Tea model for the given game.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts ...GameOption) GameModel {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	h := help.New()
	h.Width = cfg.ScreenW

	m := GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		help:       h,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// gameHeight is the screen height left for the game above the help line.
func gameHeight(h int) int {
	return max(0, h-helpHeight)
}

// gameConfig is the runtime config as the game sees it.
func (m GameModel) gameConfig() core.RuntimeConfig {
	cfg := m.config
	cfg.ScreenH = gameHeight(cfg.ScreenH)
	return cfg
}

// Init initializes the model and starts the game.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.gameConfig())
	// gameState is filled on the first tick (value receiver)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.keyMapper.MapMouseToFrame(msg, &m.inputFrame)
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := m.keyMapper.Game

	switch {
	case key.Matches(msg, keys.Shot):
		m.saveScreenshot()
		return m, nil
	case m.canGoBack && key.Matches(msg, keys.Menu) && (m.gameState.GameOver || m.gameState.Paused):
		m.backToMenu = true
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events. Games that can follow a
// resize keep their state; others are restarted unless the game is over.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.help.Width = msg.Width
	m.screen.Resize(msg.Width, gameHeight(msg.Height))

	if r, ok := m.game.(registry.Resizer); ok {
		r.Resize(msg.Width, gameHeight(msg.Height))
		return m, nil
	}
	if !m.gameState.GameOver {
		m.game.Reset(m.gameConfig())
	}
	return m, nil
}

// restartRequested reports whether this frame asks for a new game.
func (m GameModel) restartRequested() bool {
	if !m.gameState.GameOver {
		return false
	}
	return m.inputFrame.Has(core.ActionRestart) || m.inputFrame.Has(core.ActionConfirm)
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.restartRequested() {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.gameConfig())
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveScore records the finished game. Failures are logged, never fatal.
func (m *GameModel) saveScore() {
	if m.store == nil || m.gameState.Score <= 0 {
		return
	}
	id, err := m.store.SaveScore(m.game.ID(), m.gameState.Score, m.gameState.Lines)
	if err != nil {
		if m.logger != nil {
			m.logger.Error("could not save score", "game", m.game.ID(), "error", err)
		}
		return
	}
	m.lastSaveID = id
	if m.logger != nil {
		m.logger.Info("game over", "game", m.game.ID(), "score", m.gameState.Score, "lines", m.gameState.Lines)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".blocks", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keyMapper.Game)
}

// State returns the last state reported by the game.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// LastSaveID returns the row ID of the most recent saved score, or 0.
func (m GameModel) LastSaveID() int64 {
	return m.lastSaveID
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a standalone Bubble Tea program for one game.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewGameModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := p.Run()
	return err
}
