package engine

import (
	"errors"
	"math/rand"
)

// Errors returned by the selection API.
var (
	ErrInvalidSelection = errors.New("engine: invalid selection")
	ErrNoSelection      = errors.New("engine: no piece selected")
)

// Rules holds the tunable parameters of a game.
type Rules struct {
	Cols          int // Grid width
	Rows          int // Grid height
	OfferSize     int // Pieces offered at a time
	PointsPerLine int // Score per cleared row or column

	// RejectAboveTop makes placement validation reject piece cells above
	// row 0. When false such cells pass validation and are never written.
	RejectAboveTop bool
}

// DefaultRules returns the classic 15x11 field (a 600x440 canvas at 40px
// per cell) with three offered pieces and 10 points per line.
func DefaultRules() Rules {
	return Rules{
		Cols:           15,
		Rows:           11,
		OfferSize:      3,
		PointsPerLine:  10,
		RejectAboveTop: true,
	}
}

// Handle identifies an offered piece independently of its position in the
// offer. Handles are never reused within an engine.
type Handle uint64

// OfferedPiece is a piece available for selection.
type OfferedPiece struct {
	Handle Handle
	Piece
}

// ClearedCell records a cell removed by a line clear.
type ClearedCell struct {
	X, Y  int
	Color Color
}

// ClearResult describes one ClearLines pass.
type ClearResult struct {
	Rows       []int // Cleared row indices, bottom to top
	Cols       []int // Cleared column indices, left to right
	Lines      int   // len(Rows) + len(Cols)
	ScoreDelta int
	Cells      []ClearedCell // Row cells first, then column cells; may repeat a cell
}

// PlacementResult describes the outcome of AttemptPlacement.
type PlacementResult struct {
	Placed   bool
	Piece    OfferedPiece
	Origin   Point
	Refilled bool // Offer was emptied and regenerated
	Clear    ClearResult

	// GameOver is set when no offered piece fits after the move. The engine
	// has already been reset; FinalScore and FinalLines hold the totals of
	// the finished game.
	GameOver   bool
	FinalScore int
	FinalLines int
}

// Engine owns the whole puzzle state for one session.
type Engine struct {
	rules Rules
	rng   *rand.Rand

	grid       *Grid
	offer      []OfferedPiece
	nextHandle Handle

	score int
	lines int

	selected    Handle
	hasSelected bool
}

// New creates an engine with an empty grid and a fresh offer.
func New(rules Rules, rng *rand.Rand) *Engine {
	if rules.OfferSize <= 0 {
		rules.OfferSize = 1
	}
	e := &Engine{
		rules: rules,
		rng:   rng,
		grid:  NewGrid(rules.Cols, rules.Rows),
	}
	e.refill()
	return e
}

// Reset empties the grid, zeroes the score and deals a new offer.
func (e *Engine) Reset() {
	e.grid.Reset()
	e.score = 0
	e.lines = 0
	e.offer = nil
	e.ClearSelection()
	e.refill()
}

// Rules returns the engine parameters.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Grid returns the playing field. Callers outside the engine must treat it
// as read-only.
func (e *Engine) Grid() *Grid {
	return e.grid
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// Lines returns the number of lines cleared in the current game.
func (e *Engine) Lines() int {
	return e.lines
}

// Offer returns a copy of the currently offered pieces.
func (e *Engine) Offer() []OfferedPiece {
	out := make([]OfferedPiece, len(e.offer))
	copy(out, e.offer)
	return out
}

// refill deals a new offer.
func (e *Engine) refill() {
	for _, p := range GeneratePieceSet(e.rng, e.rules.OfferSize) {
		e.nextHandle++
		e.offer = append(e.offer, OfferedPiece{Handle: e.nextHandle, Piece: p})
	}
}

// indexOf returns the offer position of a handle, or -1.
func (e *Engine) indexOf(h Handle) int {
	for i, op := range e.offer {
		if op.Handle == h {
			return i
		}
	}
	return -1
}

// Select marks an offered piece as the one to place next, replacing any
// previous selection.
func (e *Engine) Select(h Handle) error {
	if e.indexOf(h) < 0 {
		return ErrInvalidSelection
	}
	e.selected = h
	e.hasSelected = true
	return nil
}

// SelectIndex selects the piece at the given offer position.
func (e *Engine) SelectIndex(i int) (Handle, error) {
	if i < 0 || i >= len(e.offer) {
		return 0, ErrInvalidSelection
	}
	h := e.offer[i].Handle
	e.selected = h
	e.hasSelected = true
	return h, nil
}

// Selected returns the selected piece, if any.
func (e *Engine) Selected() (OfferedPiece, bool) {
	if !e.hasSelected {
		return OfferedPiece{}, false
	}
	i := e.indexOf(e.selected)
	if i < 0 {
		return OfferedPiece{}, false
	}
	return e.offer[i], true
}

// SelectedIndex returns the offer position of the selection, or -1.
func (e *Engine) SelectedIndex() int {
	if !e.hasSelected {
		return -1
	}
	return e.indexOf(e.selected)
}

// ClearSelection returns to the idle state.
func (e *Engine) ClearSelection() {
	e.selected = 0
	e.hasSelected = false
}

// CanPlace reports whether every occupied cell of the piece, with its
// top-left corner at (col, row), lands on an empty cell inside the grid.
func (e *Engine) CanPlace(p Piece, col, row int) bool {
	for _, off := range p.Shape.Offsets() {
		x, y := col+off.X, row+off.Y
		if x < 0 || x >= e.grid.cols || y >= e.grid.rows {
			return false
		}
		if y < 0 {
			if e.rules.RejectAboveTop {
				return false
			}
			continue
		}
		if e.grid.cells[y][x] != ColorNone {
			return false
		}
	}
	return true
}

// Place validates and writes a piece onto the grid. It does not touch the
// offer, clear lines or score; AttemptPlacement drives a full turn.
func (e *Engine) Place(p Piece, col, row int) bool {
	if !e.CanPlace(p, col, row) {
		return false
	}
	e.place(p, col, row)
	return true
}

// place writes the piece color under every occupied cell. The placement
// must already have passed CanPlace.
func (e *Engine) place(p Piece, col, row int) {
	for _, off := range p.Shape.Offsets() {
		y := row + off.Y
		if y < 0 {
			continue
		}
		e.grid.cells[y][col+off.X] = p.Color
	}
}

// ClearLines removes every full row and column and scores them.
//
// Rows and columns are both detected on the grid as it stands before any
// removal, so a cell lying in a full row and a full column is reported
// twice. Cleared rows collapse and empty rows enter at the top; cleared
// columns collapse and empty columns enter at the left.
func (e *Engine) ClearLines() ClearResult {
	var res ClearResult
	g := e.grid

	for r := g.rows - 1; r >= 0; r-- {
		if !g.RowFull(r) {
			continue
		}
		res.Rows = append(res.Rows, r)
		for c := 0; c < g.cols; c++ {
			res.Cells = append(res.Cells, ClearedCell{X: c, Y: r, Color: g.cells[r][c]})
		}
	}

	for c := 0; c < g.cols; c++ {
		if !g.ColFull(c) {
			continue
		}
		res.Cols = append(res.Cols, c)
		for r := 0; r < g.rows; r++ {
			res.Cells = append(res.Cells, ClearedCell{X: c, Y: r, Color: g.cells[r][c]})
		}
	}

	g.removeRows(res.Rows)
	g.removeCols(res.Cols)

	res.Lines = len(res.Rows) + len(res.Cols)
	if res.Lines > 0 {
		res.ScoreDelta = res.Lines * e.rules.PointsPerLine
		e.score += res.ScoreDelta
		e.lines += res.Lines
	}
	return res
}

// fits reports whether the piece can be placed at any origin on the grid.
func (e *Engine) fits(p Piece) bool {
	for row := 0; row < e.grid.rows; row++ {
		for col := 0; col < e.grid.cols; col++ {
			if e.CanPlace(p, col, row) {
				return true
			}
		}
	}
	return false
}

// IsGameOver reports whether no offered piece fits anywhere on the grid.
func (e *Engine) IsGameOver() bool {
	for _, op := range e.offer {
		if e.fits(op.Piece) {
			return false
		}
	}
	return true
}

// CanPlaceAnywhere reports whether the given piece fits at some origin.
func (e *Engine) CanPlaceAnywhere(p Piece) bool {
	return e.fits(p)
}

// AttemptPlacement places the selected piece with its top-left corner at
// (col, row) and plays out the rest of the turn: the piece leaves the
// offer, an empty offer is refilled, full lines are cleared and game over
// is checked. A game that ends is reset immediately.
//
// The selection is cleared whether or not the piece fits. A piece that
// does not fit yields Placed=false and leaves the state untouched.
func (e *Engine) AttemptPlacement(col, row int) (PlacementResult, error) {
	op, ok := e.Selected()
	e.ClearSelection()
	if !ok {
		return PlacementResult{}, ErrNoSelection
	}

	res := PlacementResult{Piece: op, Origin: P(col, row)}
	if !e.CanPlace(op.Piece, col, row) {
		return res, nil
	}

	e.place(op.Piece, col, row)
	res.Placed = true

	i := e.indexOf(op.Handle)
	e.offer = append(e.offer[:i], e.offer[i+1:]...)
	if len(e.offer) == 0 {
		e.refill()
		res.Refilled = true
	}

	res.Clear = e.ClearLines()

	if e.IsGameOver() {
		res.GameOver = true
		res.FinalScore = e.score
		res.FinalLines = e.lines
		e.Reset()
	}
	return res, nil
}
