package engine

import "math/rand"

// Color is the fill of a grid cell. The zero value is an empty cell.
type Color uint8

const (
	ColorNone Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorOrange
	ColorPurple
)

// String returns the color name.
func (c Color) String() string {
	switch c {
	case ColorNone:
		return "none"
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
	default:
		return "unknown"
	}
}

// Palette is the ordered set of piece colors. A piece takes the color at
// its shape index modulo the palette length.
var Palette = []Color{
	ColorRed,
	ColorGreen,
	ColorBlue,
	ColorYellow,
	ColorOrange,
	ColorPurple,
}

// Shape is a polyomino occupancy matrix indexed [row][col].
type Shape [][]bool

// Width returns the number of columns of the widest row.
func (s Shape) Width() int {
	w := 0
	for _, row := range s {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// Height returns the number of rows.
func (s Shape) Height() int {
	return len(s)
}

// Offsets returns the (col, row) offsets of every occupied cell, row by row.
func (s Shape) Offsets() []Point {
	var pts []Point
	for r, row := range s {
		for c, filled := range row {
			if filled {
				pts = append(pts, Point{X: c, Y: r})
			}
		}
	}
	return pts
}

// Size returns the number of occupied cells.
func (s Shape) Size() int {
	n := 0
	for _, row := range s {
		for _, filled := range row {
			if filled {
				n++
			}
		}
	}
	return n
}

// shape builds a Shape from rows of '#' and '.' characters.
func shape(rows ...string) Shape {
	s := make(Shape, len(rows))
	for r, line := range rows {
		s[r] = make([]bool, len(line))
		for c, ch := range line {
			s[r][c] = ch == '#'
		}
	}
	return s
}

// Shapes is the fixed piece catalog.
var Shapes = []Shape{
	shape("##", "##"),          // 2x2 square
	shape("###"),               // horizontal line
	shape("#", "#", "#"),       // vertical line
	shape("##", ".#"),          // L
	shape("#.", "##"),          // reverse L
	shape("###", ".#."),        // T
	shape("###", "###", "###"), // 3x3 square
}

// Piece is an immutable shape with its color.
type Piece struct {
	Kind  int // Index into Shapes
	Shape Shape
	Color Color
}

// NewPiece returns the catalog piece for the given shape index.
// The index must be in [0, len(Shapes)).
func NewPiece(kind int) Piece {
	return Piece{
		Kind:  kind,
		Shape: Shapes[kind],
		Color: Palette[kind%len(Palette)],
	}
}

// RandomPiece picks a catalog piece uniformly at random.
func RandomPiece(rng *rand.Rand) Piece {
	return NewPiece(rng.Intn(len(Shapes)))
}

// GeneratePieceSet returns n independently drawn pieces.
func GeneratePieceSet(rng *rand.Rand, n int) []Piece {
	pieces := make([]Piece, n)
	for i := range pieces {
		pieces[i] = RandomPiece(rng)
	}
	return pieces
}
