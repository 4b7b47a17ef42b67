package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow - move cursor up
	ActionDown           // S, Down arrow - move cursor down
	ActionLeft           // A, Left arrow - move cursor left
	ActionRight          // D, Right arrow - move cursor right
	ActionSelect1        // 1 - pick the first offered piece
	ActionSelect2        // 2 - pick the second offered piece
	ActionSelect3        // 3 - pick the third offered piece
	ActionNext           // Tab - cycle the selection
	ActionConfirm        // Enter, Space - place / confirm
	ActionBack           // Escape - drop selection, back to menu
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionSelect1:
		return "Select1"
	case ActionSelect2:
		return "Select2"
	case ActionSelect3:
		return "Select3"
	case ActionNext:
		return "Next"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// SelectActions lists the piece-selection actions in offer order.
var SelectActions = []Action{ActionSelect1, ActionSelect2, ActionSelect3}

// Click is a primary mouse button press at a screen position.
type Click struct {
	X, Y int
}

// InputFrame represents the input state for a single player during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool

	// Clicks holds mouse presses in arrival order.
	Clicks []Click

	// Pointer is the last mouse position seen this frame. Only valid when
	// HasPointer is set.
	Pointer    Click
	HasPointer bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// AddClick records a mouse press for this frame.
func (f *InputFrame) AddClick(x, y int) {
	f.Clicks = append(f.Clicks, Click{X: x, Y: y})
}

// SetPointer records where the mouse is. Later calls in the same frame win.
func (f *InputFrame) SetPointer(x, y int) {
	f.Pointer = Click{X: x, Y: y}
	f.HasPointer = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Empty reports whether nothing happened this frame.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0 && len(f.Clicks) == 0 && !f.HasPointer
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Clicks = f.Clicks[:0]
	f.Pointer = Click{}
	f.HasPointer = false
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Clicks = append(clone.Clicks, f.Clicks...)
	clone.Pointer = f.Pointer
	clone.HasPointer = f.HasPointer
	return clone
}
