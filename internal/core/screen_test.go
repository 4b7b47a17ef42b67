package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScreenIsBlank(t *testing.T) {
	s := NewScreen(12, 4)
	require.Equal(t, 12, s.Width())
	require.Equal(t, 4, s.Height())

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			assert.Equal(t, Cell{Rune: ' ', Color: ColorDefault}, s.GetCell(x, y), "cell (%d,%d)", x, y)
		}
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(6, 3)
	s.SetColored(2, 1, '█', ColorPurple)

	assert.Equal(t, Cell{Rune: '█', Color: ColorPurple}, s.GetCell(2, 1))
	assert.Equal(t, '█', s.Get(2, 1))

	// Plain Set resets the color.
	s.Set(2, 1, 'x')
	assert.Equal(t, ColorDefault, s.GetCell(2, 1).Color)
}

func TestScreenOutOfBounds(t *testing.T) {
	s := NewScreen(4, 4)
	assert.NotPanics(t, func() {
		s.Set(-1, 0, 'A')
		s.SetColored(4, 0, 'A', ColorRed)
		s.Set(0, -1, 'A')
		s.Set(0, 4, 'A')
	})
	assert.Equal(t, ' ', s.Get(-1, 0))
	assert.Equal(t, ColorDefault, s.GetCell(9, 9).Color)
	assert.Equal(t, "    \n    \n    \n    ", s.String())
}

func TestScreenClearDropsColor(t *testing.T) {
	s := NewScreen(3, 3)
	s.DrawTextColored(0, 0, "abc", ColorGreen)
	s.Clear()

	for x := 0; x < 3; x++ {
		assert.Equal(t, blank, s.GetCell(x, 0))
	}
}

func TestScreenDrawText(t *testing.T) {
	s := NewScreen(8, 2)
	s.DrawTextColored(1, 0, "Score", ColorYellow)
	assert.Equal(t, " Score  ", s.Row(0))
	assert.Equal(t, ColorYellow, s.GetCell(5, 0).Color)

	// Clipped at the right edge.
	s.DrawText(6, 1, "Lines")
	assert.Equal(t, "      Li", s.Row(1))
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(10, 1)
	s.DrawTextCentered(0, "GO")
	assert.Equal(t, "    GO    ", s.Row(0))
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(5, 4)
	s.DrawRect(NewRect(1, 1, 2, 2), '#')
	assert.Equal(t, "     \n ##  \n ##  \n     ", s.String())
}

func TestScreenDrawBoxColored(t *testing.T) {
	s := NewScreen(6, 4)
	s.DrawBoxColored(NewRect(0, 0, 5, 3), ColorGray)

	assert.Equal(t, "┌───┐ ", s.Row(0))
	assert.Equal(t, "│   │ ", s.Row(1))
	assert.Equal(t, "└───┘ ", s.Row(2))
	assert.Equal(t, ColorGray, s.GetCell(4, 2).Color)
	assert.Equal(t, ColorDefault, s.GetCell(2, 1).Color)
}

func TestScreenResizeKeepsCells(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawTextColored(0, 0, "Hello", ColorBlue)

	s.Resize(4, 2)
	require.Equal(t, 4, s.Width())
	assert.Equal(t, "Hell", s.Row(0))

	s.Resize(12, 3)
	assert.Equal(t, "Hell        ", s.Row(0))
	assert.Equal(t, ColorBlue, s.GetCell(3, 0).Color)
	assert.Equal(t, ColorDefault, s.GetCell(4, 0).Color)
}

func TestScreenRowOutOfRange(t *testing.T) {
	s := NewScreen(3, 1)
	assert.Equal(t, "   ", s.Row(-1))
	assert.Equal(t, "   ", s.Row(1))
}
