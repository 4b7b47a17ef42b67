// Package blocks adapts the placement engine to the arcade platform: it owns
// the grid cursor, maps actions and mouse clicks to engine calls, animates
// cleared cells and draws everything into the platform's screen buffer.
package blocks

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
	"github.com/vovakirdan/tui-blocks/internal/registry"
)

// Built-in variants.
const (
	IDClassic = config.MainVariant
	IDMini    = "blocks_mini"
)

// Game implements the block placement puzzle.
type Game struct {
	id          string
	title       string
	defaultCols int
	defaultRows int

	cfg  config.BlocksConfig
	eng  *engine.Engine
	tick uint64

	screenW int
	screenH int
	lay     layout

	cursor engine.Point
	fades  []Fade
	msg    message

	paused   bool
	tooSmall bool

	// Set while the game-over overlay is up. The engine has already been
	// reset; the finished game's totals live in final.
	over  bool
	final finalTotals
}

type finalTotals struct {
	score int
	lines int
}

// Package-level config source, set by the CLI before games are created.
var (
	configMu   sync.RWMutex
	configPath string
)

// SetConfigPath sets the YAML file games load on Reset. Empty means the
// default search order.
func SetConfigPath(path string) {
	configMu.Lock()
	defer configMu.Unlock()
	configPath = path
}

// ConfigPath returns the path set by SetConfigPath.
func ConfigPath() string {
	configMu.RLock()
	defer configMu.RUnlock()
	return configPath
}

// New creates a game for the given variant with a fallback board size used
// when the config does not list the variant.
func New(id, title string, cols, rows int) *Game {
	return &Game{
		id:          id,
		title:       title,
		defaultCols: cols,
		defaultRows: rows,
		cfg:         config.DefaultBlocksConfig(),
	}
}

func init() {
	registry.Register(IDClassic, func() registry.Game {
		return New(IDClassic, "Blocks", 15, 11)
	})
	registry.Register(IDMini, func() registry.Game {
		return New(IDMini, "Blocks (8x8)", 8, 8)
	})
}

// RegisterVariants registers config-defined variants that are not built in.
// Returns the IDs that were added.
func RegisterVariants(variants []config.VariantConfig) []string {
	var added []string
	for _, v := range variants {
		if registry.Exists(v.ID) {
			continue
		}
		title := v.Title
		if title == "" {
			title = fmt.Sprintf("Blocks (%dx%d)", v.Cols, v.Rows)
		}
		registry.Register(v.ID, func() registry.Game {
			return New(v.ID, title, v.Cols, v.Rows)
		})
		added = append(added, v.ID)
	}
	return added
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.id
}

// Title returns the display name.
func (g *Game) Title() string {
	return g.title
}

// Description is shown in menus and list output.
func (g *Game) Description() string {
	return fmt.Sprintf("Place pieces on a %dx%d grid, clear full rows and columns", g.defaultCols, g.defaultRows)
}

// Reset loads the config and starts a fresh session.
// A config that fails to load leaves the built-in defaults in place and
// shows the error in the status line.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.msg = message{}
	cfg, _, err := config.Load(ConfigPath())
	if err != nil {
		cfg = config.DefaultBlocksConfig()
		g.flash(fmt.Sprintf("config: %v", err), 0)
	}
	g.cfg = cfg

	g.eng = engine.New(g.rules(), rand.New(rand.NewSource(rc.Seed)))
	g.tick = 0
	g.fades = nil
	g.paused = false
	g.over = false
	g.final = finalTotals{}

	grid := g.eng.Grid()
	g.cursor = engine.P(grid.Cols()/2, grid.Rows()/2)

	g.Resize(rc.ScreenW, rc.ScreenH)
}

// rules builds engine rules for this variant from the loaded config.
func (g *Game) rules() engine.Rules {
	size, ok := g.cfg.GridFor(g.id)
	if !ok {
		size = config.GridConfig{Cols: g.defaultCols, Rows: g.defaultRows}
	}
	return engine.Rules{
		Cols:           size.Cols,
		Rows:           size.Rows,
		OfferSize:      g.cfg.Rules.OfferSize,
		PointsPerLine:  g.cfg.Rules.PointsPerLine,
		RejectAboveTop: g.cfg.Rules.RejectAboveTop,
	}
}

// Resize recomputes the layout for a new terminal size, keeping game state.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	if g.eng == nil {
		return
	}
	grid := g.eng.Grid()
	g.lay = computeLayout(grid.Cols(), grid.Rows(), g.eng.Rules().OfferSize, w, h)
	g.tooSmall = !g.lay.fits
}

// Engine exposes the underlying engine for tests and tools.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// Cursor returns the grid cell the keyboard cursor is on.
func (g *Game) Cursor() engine.Point {
	return g.cursor
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.over {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.decayFades()
	g.msg.step()

	// The platform restarts the session; nothing else is accepted meanwhile.
	if g.over || in.Empty() {
		return core.StepResult{State: g.State()}
	}

	var events []core.Event

	if in.HasPointer {
		g.hover(in.Pointer)
	}

	switch {
	case in.Has(core.ActionUp):
		g.moveCursor(0, -1)
	case in.Has(core.ActionDown):
		g.moveCursor(0, 1)
	case in.Has(core.ActionLeft):
		g.moveCursor(-1, 0)
	case in.Has(core.ActionRight):
		g.moveCursor(1, 0)
	}

	for i, a := range core.SelectActions {
		if in.Has(a) {
			g.selectSlot(i)
		}
	}
	if in.Has(core.ActionNext) {
		g.cycleSelection()
	}
	if in.Has(core.ActionBack) {
		g.eng.ClearSelection()
	}
	if in.Has(core.ActionConfirm) {
		events = append(events, g.attempt(g.cursor.X, g.cursor.Y)...)
	}

	for _, c := range in.Clicks {
		if g.over {
			break
		}
		events = append(events, g.click(c)...)
	}

	return core.StepResult{State: g.State(), Events: events}
}

// moveCursor shifts the cursor, clamped to the grid.
func (g *Game) moveCursor(dx, dy int) {
	grid := g.eng.Grid()
	g.cursor.X = core.Clamp(g.cursor.X+dx, 0, grid.Cols()-1)
	g.cursor.Y = core.Clamp(g.cursor.Y+dy, 0, grid.Rows()-1)
}

// selectSlot selects the offered piece at index i.
func (g *Game) selectSlot(i int) {
	if _, err := g.eng.SelectIndex(i); err != nil {
		g.flash(fmt.Sprintf("No piece in slot %d", i+1), g.cfg.Animation.MessageTicks)
	}
}

// cycleSelection moves the selection to the next offered piece.
func (g *Game) cycleSelection() {
	n := len(g.eng.Offer())
	if n == 0 {
		return
	}
	next := g.eng.SelectedIndex() + 1
	if next >= n {
		next = 0
	}
	g.selectSlot(next)
}

// hover moves the cursor to the grid cell under the mouse so the ghost
// follows it. Positions off the board leave the cursor where it is.
func (g *Game) hover(p core.Click) {
	if col, row, ok := g.lay.cellAt(p.X, p.Y); ok {
		g.cursor = engine.P(col, row)
	}
}

// click handles a mouse press: a preview slot selects, a grid cell moves the
// cursor there and places the selected piece with its top-left on that cell.
func (g *Game) click(c core.Click) []core.Event {
	if slot, ok := g.lay.slotAt(c.X, c.Y); ok {
		g.selectSlot(slot)
		return nil
	}
	col, row, ok := g.lay.cellAt(c.X, c.Y)
	if !ok {
		return nil
	}
	g.cursor = engine.P(col, row)
	if _, selected := g.eng.Selected(); !selected {
		return nil
	}
	return g.attempt(col, row)
}

// attempt runs one turn at (col, row).
func (g *Game) attempt(col, row int) []core.Event {
	res, err := g.eng.AttemptPlacement(col, row)
	if errors.Is(err, engine.ErrNoSelection) {
		g.flash("Select a piece first (1-3)", g.cfg.Animation.MessageTicks)
		return []core.Event{{Kind: core.EventRejected}}
	}
	if err != nil {
		g.flash(err.Error(), g.cfg.Animation.MessageTicks)
		return []core.Event{{Kind: core.EventRejected}}
	}
	return g.apply(res)
}

// apply turns a placement result into events, fades and status messages.
func (g *Game) apply(res engine.PlacementResult) []core.Event {
	if !res.Placed {
		g.flash("Piece does not fit there", g.cfg.Animation.MessageTicks)
		return []core.Event{{Kind: core.EventRejected}}
	}

	events := []core.Event{{Kind: core.EventPlaced, Value: res.Piece.Shape.Size()}}

	if res.Clear.Lines > 0 {
		g.addFades(res.Clear.Cells)
		events = append(events, core.Event{Kind: core.EventLinesCleared, Value: res.Clear.Lines})
		g.flash(clearMessage(res.Clear), g.cfg.Animation.MessageTicks)
	}

	if res.GameOver {
		g.over = true
		g.final = finalTotals{score: res.FinalScore, lines: res.FinalLines}
		events = append(events, core.Event{Kind: core.EventGameOver, Value: res.FinalScore})
	}

	return events
}

// clearMessage describes a line clear for the status line.
func clearMessage(cr engine.ClearResult) string {
	noun := "line"
	if cr.Lines > 1 {
		noun = "lines"
	}
	return fmt.Sprintf("Cleared %d %s  +%d", cr.Lines, noun, cr.ScoreDelta)
}

// State returns the current game state. While the game-over overlay is up
// the finished game's totals are reported.
func (g *Game) State() core.GameState {
	if g.eng == nil {
		return core.GameState{}
	}
	if g.over {
		return core.GameState{
			Score:    g.final.score,
			Lines:    g.final.lines,
			GameOver: true,
		}
	}
	return core.GameState{
		Score:  g.eng.Score(),
		Lines:  g.eng.Lines(),
		Paused: g.paused || g.tooSmall,
	}
}
