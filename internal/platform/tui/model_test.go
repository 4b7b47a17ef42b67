package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/registry"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

const stubID = "tui_stub"

func init() {
	registry.Register(stubID, func() registry.Game { return &stubGame{} })
}

// stubGame reports whatever state the test puts in next.
type stubGame struct {
	resets  int
	resizes int
	cfg     core.RuntimeConfig
	lastH   int
	frames  []core.InputFrame
	next    core.GameState
}

func (g *stubGame) ID() string    { return stubID }
func (g *stubGame) Title() string { return "Stub" }
func (g *stubGame) Reset(cfg core.RuntimeConfig) {
	g.resets++
	g.cfg = cfg
	g.next = core.GameState{}
}
func (g *stubGame) Step(in core.InputFrame) core.StepResult {
	g.frames = append(g.frames, in.Clone())
	return core.StepResult{State: g.next}
}
func (g *stubGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "stub") }
func (g *stubGame) State() core.GameState   { return g.next }
func (g *stubGame) Resize(w, h int)         { g.resizes++; g.lastH = h }

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 1}
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func update(t *testing.T, m GameModel, msg tea.Msg) (GameModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	gm, ok := next.(GameModel)
	require.True(t, ok)
	return gm, cmd
}

func TestGameModelDeliversInputOnTick(t *testing.T) {
	game := &stubGame{}
	m := NewGameModel(game, nil, testConfig())
	m.Init()

	m, _ = update(t, m, runeKey("1"))
	m, _ = update(t, m, tea.MouseMsg{X: 3, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, cmd := update(t, m, TickMsg{})
	assert.NotNil(t, cmd, "tick must schedule the next tick")

	require.Len(t, game.frames, 1)
	assert.True(t, game.frames[0].Has(core.ActionSelect1))
	assert.Equal(t, []core.Click{{X: 3, Y: 2}}, game.frames[0].Clicks)

	// The frame is cleared after each tick.
	_, _ = update(t, m, TickMsg{})
	require.Len(t, game.frames, 2)
	assert.True(t, game.frames[1].Empty())
}

func TestGameModelSavesScoreOnce(t *testing.T) {
	store := openTestStore(t)
	game := &stubGame{}
	m := NewGameModel(game, store, testConfig())
	m.Init()

	game.next = core.GameState{Score: 40, Lines: 4, GameOver: true}
	m, _ = update(t, m, TickMsg{})
	m, _ = update(t, m, TickMsg{})

	assert.Positive(t, m.LastSaveID())
	scores, err := store.TopScores(stubID, 10)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 40, scores[0].Score)
	assert.Equal(t, 4, scores[0].Lines)
}

func TestGameModelSkipsZeroScore(t *testing.T) {
	store := openTestStore(t)
	game := &stubGame{}
	m := NewGameModel(game, store, testConfig())
	m.Init()

	game.next = core.GameState{GameOver: true}
	m, _ = update(t, m, TickMsg{})

	assert.Zero(t, m.LastSaveID())
	scores, err := store.TopScores(stubID, 10)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestGameModelRestartAfterGameOver(t *testing.T) {
	store := openTestStore(t)
	game := &stubGame{}
	m := NewGameModel(game, store, testConfig())
	m.Init()
	require.Equal(t, 1, game.resets)

	// Restart is ignored while playing.
	m, _ = update(t, m, runeKey("r"))
	m, _ = update(t, m, TickMsg{})
	assert.Equal(t, 1, game.resets)

	game.next = core.GameState{Score: 10, Lines: 1, GameOver: true}
	m, _ = update(t, m, TickMsg{})
	assert.True(t, m.State().GameOver)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, TickMsg{})
	assert.Equal(t, 2, game.resets)
	assert.False(t, m.State().GameOver)

	// The next finished game is saved as well.
	game.next = core.GameState{Score: 20, Lines: 2, GameOver: true}
	_, _ = update(t, m, TickMsg{})
	scores, err := store.TopScores(stubID, 10)
	require.NoError(t, err)
	assert.Len(t, scores, 2)
}

func TestGameModelResizeKeepsResizerState(t *testing.T) {
	game := &stubGame{}
	m := NewGameModel(game, nil, testConfig())
	m.Init()

	_, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, 1, game.resizes)
	assert.Equal(t, 1, game.resets)
}

func TestGameModelBackToMenu(t *testing.T) {
	game := &stubGame{}

	standalone := NewGameModel(game, nil, testConfig())
	standalone.Init()
	game.next = core.GameState{GameOver: true}
	standalone, _ = update(t, standalone, TickMsg{})
	standalone, _ = update(t, standalone, runeKey("b"))
	assert.False(t, standalone.BackToMenu(), "standalone games have no menu")

	hosted := NewGameModel(game, nil, testConfig(), WithBackToMenu())
	hosted.Init()
	hosted, _ = update(t, hosted, runeKey("b"))
	assert.False(t, hosted.BackToMenu(), "only when paused or over")

	game.next = core.GameState{Paused: true}
	hosted, _ = update(t, hosted, TickMsg{})
	hosted, _ = update(t, hosted, runeKey("b"))
	assert.True(t, hosted.BackToMenu())
}

func TestGameModelQuit(t *testing.T) {
	m := NewGameModel(&stubGame{}, nil, testConfig())
	m.Init()

	m, cmd := update(t, m, runeKey("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.IsQuitting())
	assert.Empty(t, m.View())
}

func TestGameModelView(t *testing.T) {
	m := NewGameModel(&stubGame{}, nil, testConfig())
	m.Init()
	assert.Contains(t, m.View(), "stub")
}

func TestGameModelHelpLine(t *testing.T) {
	game := &stubGame{}
	cfg := core.RuntimeConfig{ScreenW: 120, ScreenH: 12, TickRate: 60, Seed: 1}
	m := NewGameModel(game, nil, cfg)
	m.Init()

	assert.Equal(t, cfg.ScreenH-helpHeight, game.cfg.ScreenH, "game is sized above the help line")

	view := m.View()
	lines := strings.Split(view, "\n")
	require.Len(t, lines, cfg.ScreenH)
	help := lines[len(lines)-1]
	assert.Contains(t, help, "pick piece")
	assert.Contains(t, help, "place")
	assert.Contains(t, help, "quit")

	_, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	assert.Equal(t, 30-helpHeight, game.lastH)
}

func session(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	require.True(t, ok)
	return sm, cmd
}

// selectStub moves the menu cursor to the stub entry and starts it.
func selectStub(t *testing.T, m SessionModel) SessionModel {
	t.Helper()
	for i, item := range m.menu.items {
		if item.GameID == stubID {
			m.menu.cursor = i
		}
	}
	m, _ = session(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	return m
}

func TestSessionModelFlow(t *testing.T) {
	logger := log.New(io.Discard)
	m := NewSessionModel(nil, testConfig(), logger)
	m.Init()

	m = selectStub(t, m)
	require.Equal(t, screenGame, m.current)

	stub, ok := m.gameModel.game.(*stubGame)
	require.True(t, ok)

	stub.next = core.GameState{Score: 10, GameOver: true}
	m, _ = session(t, m, TickMsg{})
	m, _ = session(t, m, runeKey("b"))
	assert.Equal(t, screenMenu, m.current)

	// Stray ticks from the finished game are ignored by the menu.
	m, cmd := session(t, m, TickMsg{})
	assert.Nil(t, cmd)
	assert.Equal(t, screenMenu, m.current)

	m, _ = session(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, screenScores, m.current)
	m, cmd = session(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, screenMenu, m.current)
	assert.Nil(t, cmd)

	m, cmd = session(t, m, runeKey("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}
