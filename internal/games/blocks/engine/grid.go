// Package engine implements the block-placement puzzle rules: a fixed grid,
// an offer of three pieces, placement validation, line clearing and
// game-over detection. It is UI-agnostic and deterministic for a given RNG.
package engine

// Point is a grid coordinate. X is the column, Y is the row (0 at the top).
type Point struct {
	X, Y int
}

// P is a shorthand constructor for Point.
func P(x, y int) Point {
	return Point{X: x, Y: y}
}

// Grid is the playing field, stored row-major as cells[row][col].
type Grid struct {
	cols  int
	rows  int
	cells [][]Color
}

// NewGrid creates an empty grid.
func NewGrid(cols, rows int) *Grid {
	g := &Grid{cols: cols, rows: rows}
	g.Reset()
	return g
}

// Cols returns the grid width.
func (g *Grid) Cols() int {
	return g.cols
}

// Rows returns the grid height.
func (g *Grid) Rows() int {
	return g.rows
}

// Reset empties every cell.
func (g *Grid) Reset() {
	g.cells = make([][]Color, g.rows)
	for r := range g.cells {
		g.cells[r] = make([]Color, g.cols)
	}
}

// InBounds reports whether (col, row) lies on the grid.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.cols && row >= 0 && row < g.rows
}

// At returns the color at (col, row), or ColorNone when out of bounds.
func (g *Grid) At(col, row int) Color {
	if !g.InBounds(col, row) {
		return ColorNone
	}
	return g.cells[row][col]
}

// Occupied reports whether (col, row) holds a block.
func (g *Grid) Occupied(col, row int) bool {
	return g.At(col, row) != ColorNone
}

// Set writes a color at (col, row). Out-of-bounds writes are ignored.
func (g *Grid) Set(col, row int, c Color) {
	if g.InBounds(col, row) {
		g.cells[row][col] = c
	}
}

// RowFull reports whether every cell of the row is occupied.
func (g *Grid) RowFull(row int) bool {
	for _, c := range g.cells[row] {
		if c == ColorNone {
			return false
		}
	}
	return true
}

// ColFull reports whether every cell of the column is occupied.
func (g *Grid) ColFull(col int) bool {
	for r := range g.cells {
		if g.cells[r][col] == ColorNone {
			return false
		}
	}
	return true
}

// removeRows drops the given rows and pushes the same number of empty rows
// in at the top, keeping the order of the surviving rows.
func (g *Grid) removeRows(rows []int) {
	if len(rows) == 0 {
		return
	}
	drop := make(map[int]bool, len(rows))
	for _, r := range rows {
		drop[r] = true
	}

	kept := make([][]Color, 0, g.rows)
	for r := 0; r < len(rows); r++ {
		kept = append(kept, make([]Color, g.cols))
	}
	for r, row := range g.cells {
		if !drop[r] {
			kept = append(kept, row)
		}
	}
	g.cells = kept
}

// removeCols drops the given columns from every row and pushes the same
// number of empty columns in at the left.
func (g *Grid) removeCols(cols []int) {
	if len(cols) == 0 {
		return
	}
	drop := make(map[int]bool, len(cols))
	for _, c := range cols {
		drop[c] = true
	}

	for r, row := range g.cells {
		shifted := make([]Color, len(cols), g.cols)
		for c, cell := range row {
			if !drop[c] {
				shifted = append(shifted, cell)
			}
		}
		g.cells[r] = shifted
	}
}

// FilledCount returns the number of occupied cells.
func (g *Grid) FilledCount() int {
	n := 0
	for _, row := range g.cells {
		for _, c := range row {
			if c != ColorNone {
				n++
			}
		}
	}
	return n
}

// IsEmpty reports whether no cell is occupied.
func (g *Grid) IsEmpty() bool {
	return g.FilledCount() == 0
}

// Cells returns a copy of the cell matrix indexed [row][col].
func (g *Grid) Cells() [][]Color {
	out := make([][]Color, g.rows)
	for r, row := range g.cells {
		out[r] = make([]Color, g.cols)
		copy(out[r], row)
	}
	return out
}
