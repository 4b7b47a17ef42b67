package blocks

import "github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"

// Fade is a cleared cell fading out where it used to be.
type Fade struct {
	X, Y  int
	Color engine.Color
	Alpha float64 // 1.0 when queued, removed once it reaches 0
}

// glyph picks a shade for the remaining alpha.
func (f Fade) glyph() rune {
	switch {
	case f.Alpha > 0.66:
		return '▓'
	case f.Alpha > 0.33:
		return '▒'
	default:
		return '░'
	}
}

// Fades returns the active fades.
func (g *Game) Fades() []Fade {
	return g.fades
}

// addFades queues one fade per cleared cell. A cell cleared by both a row
// and a column arrives twice and fades twice.
func (g *Game) addFades(cells []engine.ClearedCell) {
	for _, c := range cells {
		g.fades = append(g.fades, Fade{X: c.X, Y: c.Y, Color: c.Color, Alpha: 1})
	}
}

// decayFades lowers every fade by the configured step and drops the spent ones.
func (g *Game) decayFades() {
	step := g.cfg.Animation.FadeStep
	kept := g.fades[:0]
	for _, f := range g.fades {
		f.Alpha -= step
		if f.Alpha > 0 {
			kept = append(kept, f)
		}
	}
	g.fades = kept
}

// message is the status line text.
type message struct {
	text  string
	ticks int // Remaining lifetime; 0 with text set means it stays up
}

// flash shows text in the status line for the given number of ticks.
func (g *Game) flash(text string, ticks int) {
	g.msg = message{text: text, ticks: ticks}
}

// step counts a timed message down and drops it when it expires.
func (m *message) step() {
	if m.ticks <= 0 {
		return
	}
	m.ticks--
	if m.ticks == 0 {
		*m = message{}
	}
}
