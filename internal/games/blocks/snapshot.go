package blocks

import "github.com/vovakirdan/tui-blocks/internal/games/blocks/engine"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism tests and debugging.
type Snapshot struct {
	Tick     uint64
	Variant  string
	Grid     [][]engine.Color
	Offer    []int // Catalog kinds in offer order
	Selected int   // Offer index, -1 when idle
	Cursor   engine.Point
	Score    int
	Lines    int
	Fades    int
	State    GameStateType
}

// Snapshot returns the current game snapshot. Before the first Reset only
// the variant is set.
func (g *Game) Snapshot() Snapshot {
	if g.eng == nil {
		return Snapshot{Variant: g.id, Selected: -1, State: StatePlaying}
	}

	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.over:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	offer := g.eng.Offer()
	kinds := make([]int, len(offer))
	for i, op := range offer {
		kinds[i] = op.Kind
	}

	st := g.State()
	return Snapshot{
		Tick:     g.tick,
		Variant:  g.id,
		Grid:     g.eng.Grid().Cells(),
		Offer:    kinds,
		Selected: g.eng.SelectedIndex(),
		Cursor:   g.cursor,
		Score:    st.Score,
		Lines:    st.Lines,
		Fades:    len(g.fades),
		State:    state,
	}
}
