package blocks

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"
)

const (
	glyphBlock  = '█'
	glyphEmpty  = '·'
	glyphBlock2 = "██"
)

// toScreenColor maps a piece color onto the platform palette, which lists
// the piece colors in the same order.
func toScreenColor(c engine.Color) core.Color {
	return core.Color(c)
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.eng == nil {
		return
	}
	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	g.renderHUD(dst)
	g.renderBoard(dst)
	g.renderFades(dst)
	g.renderGhost(dst)
	g.renderSlots(dst)
	g.renderStatus(dst)

	switch {
	case g.over:
		g.renderGameOver(dst)
	case g.paused:
		g.renderBanner(dst, []string{"PAUSED", "", "P to resume"})
	}
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", g.lay.origin.W, g.lay.origin.H))
}

// renderHUD draws the title and totals above the board. While the game-over
// overlay is up these are the finished game's totals.
func (g *Game) renderHUD(dst *core.Screen) {
	o := g.lay.origin
	dst.DrawTextColored(o.X+(o.W-len(g.title))/2, o.Y, g.title, core.ColorCyan)

	st := g.State()
	score := fmt.Sprintf("Score: %d", st.Score)
	lines := fmt.Sprintf("Lines: %d", st.Lines)
	dst.DrawText(o.X, o.Y+1, score)
	dst.DrawText(o.Right()-len(lines), o.Y+1, lines)
}

// drawCell paints one grid cell, two screen columns wide.
func (g *Game) drawCell(dst *core.Screen, col, row int, r rune, c core.Color) {
	x, y := g.lay.cellOrigin(col, row)
	dst.SetColored(x, y, r, c)
	dst.SetColored(x+1, y, r, c)
}

// renderBoard draws the border and every cell.
func (g *Game) renderBoard(dst *core.Screen) {
	dst.DrawBoxColored(g.lay.board, core.ColorGray)

	grid := g.eng.Grid()
	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			if c := grid.At(col, row); c != engine.ColorNone {
				g.drawCell(dst, col, row, glyphBlock, toScreenColor(c))
				continue
			}
			x, y := g.lay.cellOrigin(col, row)
			dst.SetColored(x, y, glyphEmpty, core.ColorDim)
		}
	}
}

// renderFades shades cleared cells over whatever empty cell now sits there.
func (g *Game) renderFades(dst *core.Screen) {
	grid := g.eng.Grid()
	for _, f := range g.fades {
		if grid.Occupied(f.X, f.Y) {
			continue
		}
		g.drawCell(dst, f.X, f.Y, f.glyph(), toScreenColor(f.Color))
	}
}

// renderGhost previews the selected piece at the cursor, or marks the
// cursor cell when nothing is selected.
func (g *Game) renderGhost(dst *core.Screen) {
	grid := g.eng.Grid()
	sel, ok := g.eng.Selected()
	if !ok {
		x, y := g.lay.cellOrigin(g.cursor.X, g.cursor.Y)
		c := core.ColorWhite
		if cell := grid.At(g.cursor.X, g.cursor.Y); cell != engine.ColorNone {
			c = toScreenColor(cell)
		}
		dst.SetColored(x, y, '[', c)
		dst.SetColored(x+1, y, ']', c)
		return
	}

	fits := g.eng.CanPlace(sel.Piece, g.cursor.X, g.cursor.Y)
	glyph, color := '▒', toScreenColor(sel.Color)
	if !fits {
		glyph, color = '╳', core.ColorRed
	}
	for _, off := range sel.Shape.Offsets() {
		col, row := g.cursor.X+off.X, g.cursor.Y+off.Y
		if !grid.InBounds(col, row) {
			continue
		}
		g.drawCell(dst, col, row, glyph, color)
	}
}

// renderSlots draws the offered pieces in numbered boxes.
func (g *Game) renderSlots(dst *core.Screen) {
	offer := g.eng.Offer()
	selected := g.eng.SelectedIndex()

	for i, box := range g.lay.slots {
		border := core.ColorGray
		if i == selected {
			border = core.ColorYellow
		}
		label := fmt.Sprintf("%d", i+1)
		dst.DrawTextColored(box.X+(box.W-1)/2, box.Y-1, label, border)
		dst.DrawBoxColored(box, border)

		if i >= len(offer) {
			continue
		}
		p := offer[i]
		// Pieces that fit nowhere on the board are dimmed.
		color := core.ColorDim
		if g.eng.CanPlaceAnywhere(p.Piece) {
			color = toScreenColor(p.Color)
		}
		// Center the piece inside the box.
		ox := box.X + 1 + (slotCells-p.Shape.Width())*cellWidth/2
		oy := box.Y + 1 + (slotCells-p.Shape.Height())/2
		for _, off := range p.Shape.Offsets() {
			x := ox + off.X*cellWidth
			dst.DrawTextColored(x, oy+off.Y, glyphBlock2, color)
		}
	}
}

// renderStatus draws the flashed message under the previews.
func (g *Game) renderStatus(dst *core.Screen) {
	text, color := g.msg.text, core.ColorYellow
	if text == "" {
		return
	}
	o := g.lay.origin
	if w := len([]rune(text)); w < g.screenW {
		dst.DrawTextColored((g.screenW-w)/2, g.lay.statusY, text, color)
		return
	}
	dst.DrawTextColored(o.X, g.lay.statusY, text, color)
}

// renderGameOver shows the finished game's totals over the board.
func (g *Game) renderGameOver(dst *core.Screen) {
	g.renderBanner(dst, []string{
		"GAME OVER",
		"",
		fmt.Sprintf("Score: %d", g.final.score),
		fmt.Sprintf("Lines: %d", g.final.lines),
		"",
		"R / Enter: play again",
		"Q: quit",
	})
}

// renderBanner draws a bordered box of centered lines over the board.
func (g *Game) renderBanner(dst *core.Screen, lines []string) {
	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	w += 4
	h := len(lines) + 2

	b := g.lay.board
	box := core.NewRect(b.X+(b.W-w)/2, b.Y+(b.H-h)/2, w, h)
	dst.DrawRect(box, ' ')
	dst.DrawBoxColored(box, core.ColorWhite)
	for i, l := range lines {
		x := box.X + (w-len([]rune(l)))/2
		dst.DrawText(x, box.Y+1+i, l)
	}
}

// Text renders the grid as rows of '#' and '.' for logs and tests.
func (g *Game) Text() string {
	if g.eng == nil {
		return ""
	}
	grid := g.eng.Grid()
	var sb strings.Builder
	for row := 0; row < grid.Rows(); row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for col := 0; col < grid.Cols(); col++ {
			if grid.Occupied(col, row) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
