package blocks

import "github.com/vovakirdan/tui-blocks/internal/core"

const (
	cellWidth = 2 // Screen columns per grid cell
	hudHeight = 2 // Title and score rows
	slotCells = 3 // Preview box inner size in cells; fits every catalog piece
	slotGap   = 2 // Columns between preview boxes
)

// layout positions the board and preview boxes on the screen. All rects
// include their one-character border.
type layout struct {
	origin  core.Rect // Bounding box of everything drawn
	board   core.Rect
	slots   []core.Rect
	statusY int
	fits    bool
}

// computeLayout centers the board with the preview row underneath.
func computeLayout(cols, rows, offer, screenW, screenH int) layout {
	boardW := cols*cellWidth + 2
	boardH := rows + 2
	slotW := slotCells*cellWidth + 2
	slotH := slotCells + 2
	slotsW := offer*slotW + (offer-1)*slotGap

	totalW := max(boardW, slotsW)
	// HUD, board, slot labels, slots, status line
	totalH := hudHeight + boardH + 1 + slotH + 1

	x0 := max(0, (screenW-totalW)/2)
	y0 := max(0, (screenH-totalH)/2)

	l := layout{
		origin: core.NewRect(x0, y0, totalW, totalH),
		board:  core.NewRect(x0+(totalW-boardW)/2, y0+hudHeight, boardW, boardH),
		fits:   totalW <= screenW && totalH <= screenH,
	}

	slotX := x0 + (totalW-slotsW)/2
	slotY := l.board.Bottom() + 1
	for i := 0; i < offer; i++ {
		l.slots = append(l.slots, core.NewRect(slotX+i*(slotW+slotGap), slotY, slotW, slotH))
	}
	l.statusY = slotY + slotH

	return l
}

// cellOrigin returns the screen position of a grid cell's left column.
func (l layout) cellOrigin(col, row int) (int, int) {
	return l.board.X + 1 + col*cellWidth, l.board.Y + 1 + row
}

// cellAt maps a screen position inside the board border to a grid cell.
func (l layout) cellAt(x, y int) (col, row int, ok bool) {
	inner := core.NewRect(l.board.X+1, l.board.Y+1, l.board.W-2, l.board.H-2)
	if !inner.Contains(x, y) {
		return 0, 0, false
	}
	return (x - inner.X) / cellWidth, y - inner.Y, true
}

// slotAt returns the preview box under a screen position.
func (l layout) slotAt(x, y int) (int, bool) {
	for i, r := range l.slots {
		if r.Contains(x, y) {
			return i, true
		}
	}
	return 0, false
}
