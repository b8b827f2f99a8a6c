package core

import (
	"cmp"
	"fmt"
)

// Pos is a cell on a grid, addressed by row and column.
// Row 0 is the top row, column 0 the leftmost column.
type Pos struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// P is shorthand for Pos{Row: row, Col: col}.
func P(row, col int) Pos {
	return Pos{Row: row, Col: col}
}

// String returns "(row,col)".
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Manhattan returns the taxicab distance between two cells.
func (p Pos) Manhattan(other Pos) int {
	return Abs(p.Row-other.Row) + Abs(p.Col-other.Col)
}

// Adjacent reports whether other shares an edge with p.
func (p Pos) Adjacent(other Pos) bool {
	return p.Manhattan(other) == 1
}

// Step returns the neighbouring cell in direction d.
// DirNone returns p itself.
func (p Pos) Step(d Direction) Pos {
	dr, dc := d.Delta()
	return Pos{Row: p.Row + dr, Col: p.Col + dc}
}

// Compare orders cells row-major, returning -1, 0 or +1.
func (p Pos) Compare(other Pos) int {
	if c := cmp.Compare(p.Row, other.Row); c != 0 {
		return c
	}
	return cmp.Compare(p.Col, other.Col)
}

// Less orders cells row-major.
func (p Pos) Less(other Pos) bool {
	return p.Compare(other) < 0
}

// Direction is one of the four orthogonal moves.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions lists the four real moves in a fixed order.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta returns the row and column offsets for the direction.
func (d Direction) Delta() (dr, dc int) {
	switch d {
	case DirUp:
		return -1, 0
	case DirDown:
		return 1, 0
	case DirLeft:
		return 0, -1
	case DirRight:
		return 0, 1
	default:
		return 0, 0
	}
}

// String returns the lowercase name used in config files and wire messages.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection accepts the names produced by String.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "up":
		return DirUp, true
	case "down":
		return DirDown, true
	case "left":
		return DirLeft, true
	case "right":
		return DirRight, true
	}
	return DirNone, false
}
