package blocks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
	"github.com/vovakirdan/tui-blocks/internal/registry"
)

const testConfig = `
grid: {cols: 15, rows: 11}
rules: {offer_size: 3, points_per_line: 10, reject_above_top: true}
animation: {fade_step: 0.25, message_ticks: 3}
variants:
  - {id: blocks_mini, cols: 8, rows: 8}
  - {id: blocks_wide, title: "Wide", cols: 20, rows: 6}
`

// useTestConfig points games at a config with exact fade steps.
func useTestConfig(t *testing.T) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blocks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })
}

func newTestGame(t *testing.T, id string, cols, rows int) *Game {
	t.Helper()
	useTestConfig(t)
	g := New(id, "Test", cols, rows)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 42})
	return g
}

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

// moveTo steps the cursor to (col, row) one cell at a time.
func moveTo(g *Game, col, row int) {
	for g.cursor.X > col {
		g.Step(frame(core.ActionLeft))
	}
	for g.cursor.X < col {
		g.Step(frame(core.ActionRight))
	}
	for g.cursor.Y > row {
		g.Step(frame(core.ActionUp))
	}
	for g.cursor.Y < row {
		g.Step(frame(core.ActionDown))
	}
}

func eventKinds(events []core.Event) []core.EventKind {
	kinds := make([]core.EventKind, len(events))
	for i, e := range events {
		kinds[i] = e.Kind
	}
	return kinds
}

func TestBuiltinVariantsRegistered(t *testing.T) {
	for _, id := range []string{IDClassic, IDMini} {
		info, ok := registry.Lookup(id)
		require.True(t, ok, id)
		assert.NotEmpty(t, info.Title)
		assert.Contains(t, info.Description, "grid")
	}

	g, err := registry.Create(IDMini)
	require.NoError(t, err)
	assert.Equal(t, IDMini, g.ID())
}

func TestResetSizesGridPerVariant(t *testing.T) {
	classic := newTestGame(t, IDClassic, 15, 11)
	assert.Equal(t, 15, classic.Engine().Grid().Cols())
	assert.Equal(t, 11, classic.Engine().Grid().Rows())

	mini := newTestGame(t, IDMini, 5, 5)
	assert.Equal(t, 8, mini.Engine().Grid().Cols(), "config size wins over the fallback")

	wide := newTestGame(t, "blocks_wide", 5, 5)
	assert.Equal(t, 20, wide.Engine().Grid().Cols())
	assert.Equal(t, 6, wide.Engine().Grid().Rows())

	unlisted := newTestGame(t, "blocks_unlisted", 9, 7)
	assert.Equal(t, 9, unlisted.Engine().Grid().Cols())
	assert.Equal(t, 7, unlisted.Engine().Grid().Rows())
}

func TestResetWithBrokenConfigFallsBack(t *testing.T) {
	SetConfigPath(filepath.Join(t.TempDir(), "missing.yaml"))
	t.Cleanup(func() { SetConfigPath("") })

	g := New(IDClassic, "Blocks", 15, 11)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1})

	assert.Equal(t, 15, g.Engine().Grid().Cols())
	assert.Contains(t, g.msg.text, "config:")

	// Sticky until replaced.
	for i := 0; i < 10; i++ {
		g.Step(core.NewInputFrame())
	}
	assert.Contains(t, g.msg.text, "config:")
}

func TestRegisterVariants(t *testing.T) {
	added := RegisterVariants([]config.VariantConfig{
		{ID: IDMini, Cols: 8, Rows: 8},
		{ID: "blocks_test_tall", Cols: 6, Rows: 12},
	})
	assert.Equal(t, []string{"blocks_test_tall"}, added)

	info, ok := registry.Lookup("blocks_test_tall")
	require.True(t, ok)
	assert.Equal(t, "Blocks (6x12)", info.Title)
}

func TestKeyboardSelectAndPlace(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	assert.Equal(t, engine.P(7, 5), g.Cursor())

	g.Step(frame(core.ActionSelect1))
	sel, ok := g.Engine().Selected()
	require.True(t, ok)

	moveTo(g, 0, 0)
	res := g.Step(frame(core.ActionConfirm))
	assert.Equal(t, []core.EventKind{core.EventPlaced}, eventKinds(res.Events))

	grid := g.Engine().Grid()
	for _, off := range sel.Shape.Offsets() {
		assert.Equal(t, sel.Color, grid.At(off.X, off.Y))
	}
	assert.Equal(t, sel.Shape.Size(), grid.FilledCount())
	assert.Len(t, g.Engine().Offer(), 2)

	_, ok = g.Engine().Selected()
	assert.False(t, ok, "placement returns to idle")
}

func TestCursorStaysOnGrid(t *testing.T) {
	g := newTestGame(t, IDMini, 8, 8)
	moveTo(g, 0, 0)
	g.Step(frame(core.ActionLeft))
	g.Step(frame(core.ActionUp))
	assert.Equal(t, engine.P(0, 0), g.Cursor())

	for i := 0; i < 20; i++ {
		g.Step(frame(core.ActionRight))
		g.Step(frame(core.ActionDown))
	}
	assert.Equal(t, engine.P(7, 7), g.Cursor())
}

func TestConfirmWithoutSelection(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)

	res := g.Step(frame(core.ActionConfirm))
	assert.Equal(t, []core.EventKind{core.EventRejected}, eventKinds(res.Events))
	assert.Contains(t, g.msg.text, "Select a piece")
	assert.True(t, g.Engine().Grid().IsEmpty())

	// The message expires after message_ticks.
	for i := 0; i < 3; i++ {
		g.Step(core.NewInputFrame())
	}
	assert.Empty(t, g.msg.text)
}

func TestPlacementThatDoesNotFit(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	moveTo(g, 4, 4)
	// Every catalog shape covers its top-left cell.
	g.Engine().Grid().Set(4, 4, engine.ColorGreen)
	before := g.Engine().Grid().Cells()
	offer := g.Engine().Offer()

	g.Step(frame(core.ActionSelect2))
	res := g.Step(frame(core.ActionConfirm))

	assert.Equal(t, []core.EventKind{core.EventRejected}, eventKinds(res.Events))
	assert.Equal(t, before, g.Engine().Grid().Cells())
	assert.Equal(t, offer, g.Engine().Offer())
	_, ok := g.Engine().Selected()
	assert.False(t, ok, "a failed attempt clears the selection")
}

func TestSelectMissingSlot(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	g.Step(frame(core.ActionSelect1))
	moveTo(g, 0, 0)
	g.Step(frame(core.ActionConfirm))
	require.Len(t, g.Engine().Offer(), 2)

	g.Step(frame(core.ActionSelect3))
	assert.Equal(t, -1, g.Engine().SelectedIndex())
	assert.Equal(t, "No piece in slot 3", g.msg.text)
}

func TestCycleAndBack(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)

	var got []int
	for i := 0; i < 4; i++ {
		g.Step(frame(core.ActionNext))
		got = append(got, g.Engine().SelectedIndex())
	}
	assert.Equal(t, []int{0, 1, 2, 0}, got)

	g.Step(frame(core.ActionBack))
	assert.Equal(t, -1, g.Engine().SelectedIndex())
}

func TestMouseSelectsAndPlaces(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)

	slot := g.lay.slots[1]
	in := core.NewInputFrame()
	in.AddClick(slot.X+slot.W/2, slot.Y+slot.H/2)
	g.Step(in)
	require.Equal(t, 1, g.Engine().SelectedIndex())
	sel, _ := g.Engine().Selected()

	x, y := g.lay.cellOrigin(3, 2)
	in = core.NewInputFrame()
	in.AddClick(x+1, y) // right half of the cell
	res := g.Step(in)

	assert.Equal(t, []core.EventKind{core.EventPlaced}, eventKinds(res.Events))
	assert.Equal(t, engine.P(3, 2), g.Cursor())
	assert.True(t, g.Engine().Grid().Occupied(3, 2))
	assert.Equal(t, sel.Shape.Size(), g.Engine().Grid().FilledCount())
}

func TestMouseClickWithoutSelectionMovesCursor(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)

	x, y := g.lay.cellOrigin(10, 9)
	in := core.NewInputFrame()
	in.AddClick(x, y)
	in.AddClick(0, 0) // outside everything
	res := g.Step(in)

	assert.Empty(t, res.Events)
	assert.Equal(t, engine.P(10, 9), g.Cursor())
	assert.True(t, g.Engine().Grid().IsEmpty())
}

func TestHoverMovesGhost(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	g.Step(frame(core.ActionSelect1))
	sel, _ := g.Engine().Selected()

	x, y := g.lay.cellOrigin(2, 3)
	in := core.NewInputFrame()
	in.SetPointer(x+1, y)
	res := g.Step(in)

	assert.Empty(t, res.Events)
	assert.Equal(t, engine.P(2, 3), g.Cursor())
	assert.True(t, g.Engine().Grid().IsEmpty(), "hovering never places")
	assert.Equal(t, 0, g.Engine().SelectedIndex())

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	assert.Equal(t, core.Cell{Rune: '▒', Color: toScreenColor(sel.Color)}, scr.GetCell(x, y))

	// Off the board the ghost stays where it was.
	in = core.NewInputFrame()
	in.SetPointer(0, 0)
	g.Step(in)
	assert.Equal(t, engine.P(2, 3), g.Cursor())
}

func TestHoverShowsMisfit(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	g.Step(frame(core.ActionSelect1))
	g.Engine().Grid().Set(6, 6, engine.ColorBlue)

	x, y := g.lay.cellOrigin(6, 6)
	in := core.NewInputFrame()
	in.SetPointer(x, y)
	g.Step(in)

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	assert.Equal(t, core.Cell{Rune: '╳', Color: core.ColorRed}, scr.GetCell(x, y))
}

func TestLineClearQueuesFades(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	grid := g.Engine().Grid()

	g.Step(frame(core.ActionSelect1))
	sel, ok := g.Engine().Selected()
	require.True(t, ok)

	// Fill the bottom row except where the piece's last row lands.
	h := sel.Shape.Height()
	origin := engine.P(0, grid.Rows()-h)
	lands := make(map[int]bool)
	for _, off := range sel.Shape.Offsets() {
		if off.Y == h-1 {
			lands[off.X] = true
		}
	}
	for col := 0; col < grid.Cols(); col++ {
		if !lands[col] {
			grid.Set(col, grid.Rows()-1, engine.ColorBlue)
		}
	}

	moveTo(g, origin.X, origin.Y)
	res := g.Step(frame(core.ActionConfirm))

	assert.Equal(t, []core.EventKind{core.EventPlaced, core.EventLinesCleared}, eventKinds(res.Events))
	assert.Equal(t, 1, res.Events[1].Value)
	assert.Equal(t, 10, res.State.Score)
	assert.Equal(t, 1, res.State.Lines)
	assert.Contains(t, g.msg.text, "Cleared 1 line")

	require.Len(t, g.Fades(), grid.Cols())
	for _, f := range g.Fades() {
		assert.Equal(t, grid.Rows()-1, f.Y)
		assert.InDelta(t, 1.0, f.Alpha, 1e-9)
	}

	// fade_step 0.25: gone after four ticks.
	for i := 0; i < 3; i++ {
		g.Step(core.NewInputFrame())
	}
	require.Len(t, g.Fades(), grid.Cols())
	assert.InDelta(t, 0.25, g.Fades()[0].Alpha, 1e-9)
	assert.Equal(t, '░', g.Fades()[0].glyph())

	g.Step(core.NewInputFrame())
	assert.Empty(t, g.Fades())
}

func TestDoubleCountedCellsFadeTwice(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	g.addFades([]engine.ClearedCell{
		{X: 0, Y: 0, Color: engine.ColorRed},
		{X: 0, Y: 0, Color: engine.ColorRed},
	})
	assert.Len(t, g.Fades(), 2)
}

func TestGameOverOverlay(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)

	events := g.apply(engine.PlacementResult{
		Placed:     true,
		Piece:      engine.OfferedPiece{Handle: 1, Piece: engine.NewPiece(0)},
		Clear:      engine.ClearResult{Lines: 1, ScoreDelta: 10, Cells: []engine.ClearedCell{{X: 1, Y: 1, Color: engine.ColorRed}}},
		GameOver:   true,
		FinalScore: 120,
		FinalLines: 12,
	})
	assert.Equal(t, []core.EventKind{core.EventPlaced, core.EventLinesCleared, core.EventGameOver}, eventKinds(events))
	assert.Equal(t, 120, events[2].Value)

	st := g.State()
	assert.True(t, st.GameOver)
	assert.Equal(t, 120, st.Score)
	assert.Equal(t, 12, st.Lines)

	// Input is ignored while the overlay is up; fades still run out.
	cursor := g.Cursor()
	res := g.Step(frame(core.ActionLeft, core.ActionSelect1, core.ActionPause))
	assert.Empty(t, res.Events)
	assert.Equal(t, cursor, g.Cursor())
	assert.False(t, g.paused)
	assert.Equal(t, StateGameOver, g.Snapshot().State)

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	assert.Contains(t, scr.String(), "GAME OVER")
	hud := scr.Row(g.lay.origin.Y + 1)
	assert.Contains(t, hud, "Score: 120", "totals above the board match the overlay")
	assert.Contains(t, hud, "Lines: 12")

	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 3})
	assert.False(t, g.State().GameOver)
	assert.Equal(t, 0, g.State().Score)
}

func TestPause(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	cursor := g.Cursor()

	res := g.Step(frame(core.ActionPause))
	assert.True(t, res.State.Paused)

	g.Step(frame(core.ActionLeft))
	assert.Equal(t, cursor, g.Cursor())

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	assert.Contains(t, scr.String(), "PAUSED")

	res = g.Step(frame(core.ActionPause))
	assert.False(t, res.State.Paused)
}

func TestTooSmallAndResize(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	g.Step(frame(core.ActionSelect1))
	moveTo(g, 0, 0)
	g.Step(frame(core.ActionConfirm))
	filled := g.Engine().Grid().FilledCount()

	g.Resize(30, 10)
	assert.True(t, g.State().Paused)
	assert.Equal(t, StatePausedSmall, g.Snapshot().State)

	scr := core.NewScreen(30, 10)
	g.Render(scr)
	assert.Contains(t, scr.String(), "Window too small")

	g.Resize(100, 40)
	assert.False(t, g.State().Paused)
	assert.Equal(t, filled, g.Engine().Grid().FilledCount(), "resize keeps the board")
}

func TestRenderBoardAndPreviews(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	g.Engine().Grid().Set(0, 0, engine.ColorOrange)

	scr := core.NewScreen(80, 24)
	g.Render(scr)

	b := g.lay.board
	assert.Equal(t, '┌', scr.Get(b.X, b.Y))
	assert.Equal(t, '┘', scr.Get(b.Right()-1, b.Bottom()-1))

	x, y := g.lay.cellOrigin(0, 0)
	assert.Equal(t, core.Cell{Rune: glyphBlock, Color: core.ColorOrange}, scr.GetCell(x, y))
	assert.Equal(t, core.Cell{Rune: glyphBlock, Color: core.ColorOrange}, scr.GetCell(x+1, y))

	// Cursor brackets on the empty center cell.
	cx, cy := g.lay.cellOrigin(7, 5)
	assert.Equal(t, '[', scr.Get(cx, cy))

	for i, slot := range g.lay.slots {
		assert.Equal(t, rune('1'+i), scr.Get(slot.X+(slot.W-1)/2, slot.Y-1))
	}
	assert.True(t, strings.Contains(scr.String(), "Score: 0"))
	assert.True(t, strings.Contains(scr.String(), "Lines: 0"))
}

// slotColors collects the colors of piece cells drawn inside a preview box.
func slotColors(scr *core.Screen, box core.Rect) []core.Color {
	var colors []core.Color
	for y := box.Y + 1; y < box.Bottom()-1; y++ {
		for x := box.X + 1; x < box.Right()-1; x++ {
			if c := scr.GetCell(x, y); c.Rune == glyphBlock {
				colors = append(colors, c.Color)
			}
		}
	}
	return colors
}

func TestRenderDimsPiecesThatFitNowhere(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	grid := g.Engine().Grid()
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			grid.Set(col, row, engine.ColorGreen)
		}
	}

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	for _, box := range g.lay.slots {
		colors := slotColors(scr, box)
		require.NotEmpty(t, colors)
		for _, c := range colors {
			assert.Equal(t, core.ColorDim, c)
		}
	}

	grid.Reset()
	g.Render(scr)
	for i, box := range g.lay.slots {
		want := toScreenColor(g.Engine().Offer()[i].Color)
		for _, c := range slotColors(scr, box) {
			assert.Equal(t, want, c)
		}
	}
}

func TestLargestBoardFitsDefaultTerminal(t *testing.T) {
	// 24 rows less the key help line the platform draws underneath.
	l := computeLayout(config.MaxGridCols, config.MaxGridRows, 3, 80, 23)
	assert.True(t, l.fits)

	l = computeLayout(config.MaxGridCols, config.MaxGridRows+1, 3, 80, 23)
	assert.False(t, l.fits)
}

func TestSnapshotAndTextBeforeReset(t *testing.T) {
	g := New(IDClassic, "Blocks", 15, 11)
	assert.NotPanics(t, func() {
		snap := g.Snapshot()
		assert.Equal(t, IDClassic, snap.Variant)
		assert.Equal(t, -1, snap.Selected)
		assert.Empty(t, g.Text())
	})
}

func TestRenderGhost(t *testing.T) {
	g := newTestGame(t, IDClassic, 15, 11)
	g.Step(frame(core.ActionSelect1))
	sel, _ := g.Engine().Selected()

	scr := core.NewScreen(80, 24)
	g.Render(scr)
	x, y := g.lay.cellOrigin(g.cursor.X, g.cursor.Y)
	assert.Equal(t, core.Cell{Rune: '▒', Color: toScreenColor(sel.Color)}, scr.GetCell(x, y))

	g.Engine().Grid().Set(g.cursor.X, g.cursor.Y, engine.ColorBlue)
	g.Render(scr)
	assert.Equal(t, core.Cell{Rune: '╳', Color: core.ColorRed}, scr.GetCell(x, y))
}

func TestDeterministicReplay(t *testing.T) {
	inputs := []core.InputFrame{
		frame(core.ActionSelect2),
		frame(core.ActionLeft),
		frame(core.ActionConfirm),
		frame(core.ActionNext),
		frame(core.ActionDown),
		frame(core.ActionConfirm),
	}

	run := func() Snapshot {
		g := newTestGame(t, IDClassic, 15, 11)
		for _, in := range inputs {
			g.Step(in)
		}
		return g.Snapshot()
	}

	a, b := run(), run()
	assert.Equal(t, a, b)
	assert.Equal(t, uint64(len(inputs)), a.Tick)
}

func TestText(t *testing.T) {
	g := newTestGame(t, "blocks_text", 3, 3)
	g.Engine().Grid().Set(1, 0, engine.ColorRed)
	g.Engine().Grid().Set(2, 2, engine.ColorRed)
	assert.Equal(t, ".#.\n...\n..#", g.Text())
}
