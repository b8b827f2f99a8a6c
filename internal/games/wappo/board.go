// Package wappo implements the simulation core of the Wappo chase puzzle:
// board geometry, immutable game snapshots, the player movement rules and the
// enemy pursuit engine. It has no knowledge of storage, UI or timing.
package wappo

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/wappo/internal/core"
)

// TileKind classifies a board cell.
type TileKind int

const (
	TileEmpty TileKind = iota
	TileTrap
	TileExit
)

// String returns the lowercase tile name.
func (k TileKind) String() string {
	switch k {
	case TileEmpty:
		return "empty"
	case TileTrap:
		return "trap"
	case TileExit:
		return "exit"
	default:
		return fmt.Sprintf("tile(%d)", int(k))
	}
}

// Wall is an impassable edge between two orthogonally adjacent cells.
// A is always the row-major smaller cell, so {A,B} and {B,A} compare equal.
type Wall struct {
	A core.Pos `json:"a" yaml:"a"`
	B core.Pos `json:"b" yaml:"b"`
}

// NewWall returns the normalised wall between a and b.
func NewWall(a, b core.Pos) Wall {
	if b.Less(a) {
		a, b = b, a
	}
	return Wall{A: a, B: b}
}

// Valid reports whether the wall joins two distinct adjacent cells.
func (w Wall) Valid() bool {
	return w.A.Adjacent(w.B)
}

// String returns "(r,c)|(r,c)".
func (w Wall) String() string {
	return w.A.String() + "|" + w.B.String()
}

// Board is the static geometry of a level: dimensions, one tile per cell and
// the wall set. Boards are never mutated after construction; WithTile returns
// a modified copy.
type Board struct {
	rows  int
	cols  int
	tiles []TileKind // row-major, len rows*cols
	walls map[Wall]struct{}
}

// NewBoard builds a board. Tiles not listed default to TileEmpty.
// Out-of-bounds tiles and walls that do not join two adjacent in-bounds cells
// are rejected.
func NewBoard(rows, cols int, tiles map[core.Pos]TileKind, walls []Wall) (Board, error) {
	if rows <= 0 || cols <= 0 {
		return Board{}, ValidationError{
			Code:    CodeInvalidSize,
			Message: fmt.Sprintf("board must be at least 1x1, got %dx%d", rows, cols),
		}
	}

	b := Board{
		rows:  rows,
		cols:  cols,
		tiles: make([]TileKind, rows*cols),
		walls: make(map[Wall]struct{}, len(walls)),
	}

	for p, kind := range tiles {
		if !b.InBounds(p) {
			return Board{}, ValidationError{
				Code:    CodeOutOfBounds,
				Message: fmt.Sprintf("%s tile at %s is outside the %dx%d board", kind, p, rows, cols),
			}
		}
		b.tiles[b.index(p)] = kind
	}

	for _, w := range walls {
		w = NewWall(w.A, w.B)
		if !w.Valid() || !b.InBounds(w.A) || !b.InBounds(w.B) {
			return Board{}, ValidationError{
				Code:    CodeBadWall,
				Message: fmt.Sprintf("wall %s must join two adjacent cells on the board", w),
			}
		}
		b.walls[w] = struct{}{}
	}

	return b, nil
}

func (b Board) index(p core.Pos) int {
	return p.Row*b.cols + p.Col
}

// Rows returns the number of rows.
func (b Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b Board) Cols() int { return b.cols }

// InBounds returns true iff 0 <= row < rows and 0 <= col < cols.
func (b Board) InBounds(p core.Pos) bool {
	return p.Row >= 0 && p.Row < b.rows && p.Col >= 0 && p.Col < b.cols
}

// TileAt returns the tile at p. ok is false for out-of-bounds cells.
func (b Board) TileAt(p core.Pos) (kind TileKind, ok bool) {
	if !b.InBounds(p) {
		return TileEmpty, false
	}
	return b.tiles[b.index(p)], true
}

// IsWalled reports whether a wall separates a and b, in either order.
func (b Board) IsWalled(a, c core.Pos) bool {
	_, ok := b.walls[NewWall(a, c)]
	return ok
}

// WithTile returns a copy of the board with p set to kind.
// The wall set is shared, it is never written after construction.
func (b Board) WithTile(p core.Pos, kind TileKind) Board {
	if !b.InBounds(p) {
		return b
	}
	tiles := make([]TileKind, len(b.tiles))
	copy(tiles, b.tiles)
	tiles[b.index(p)] = kind
	b.tiles = tiles
	return b
}

// Walls returns the walls sorted row-major by their first cell.
func (b Board) Walls() []Wall {
	out := make([]Wall, 0, len(b.walls))
	for w := range b.walls {
		out = append(out, w)
	}
	slices.SortFunc(out, compareWalls)
	return out
}

func compareWalls(x, y Wall) int {
	if c := x.A.Compare(y.A); c != 0 {
		return c
	}
	return x.B.Compare(y.B)
}

// Traps returns every trap cell in row-major order.
func (b Board) Traps() []core.Pos {
	return b.cellsOf(TileTrap)
}

// Exits returns every exit cell in row-major order.
func (b Board) Exits() []core.Pos {
	return b.cellsOf(TileExit)
}

func (b Board) cellsOf(kind TileKind) []core.Pos {
	var out []core.Pos
	for i, k := range b.tiles {
		if k == kind {
			out = append(out, core.P(i/b.cols, i%b.cols))
		}
	}
	return out
}

// Equal compares dimensions, tiles and walls.
func (b Board) Equal(other Board) bool {
	if b.rows != other.rows || b.cols != other.cols {
		return false
	}
	if !slices.Equal(b.tiles, other.tiles) {
		return false
	}
	if len(b.walls) != len(other.walls) {
		return false
	}
	for w := range b.walls {
		if _, ok := other.walls[w]; !ok {
			return false
		}
	}
	return true
}
