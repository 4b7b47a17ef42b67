package core

// Color represents a foreground color for a screen cell.
// The platform maps each value to a terminal color when drawing.
type Color uint8

// Colors available to games. Piece colors come first so a game can map
// its own palette index straight onto them.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorOrange
	ColorPurple
	ColorCyan
	ColorWhite
	ColorGray
	ColorDim
)

// String returns the color name used in snapshots and logs.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorOrange:
		return "orange"
	case ColorPurple:
		return "purple"
	case ColorCyan:
		return "cyan"
	case ColorWhite:
		return "white"
	case ColorGray:
		return "gray"
	case ColorDim:
		return "dim"
	default:
		return "default"
	}
}
