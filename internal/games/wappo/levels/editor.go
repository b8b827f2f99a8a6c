package levels

import (
	"fmt"
	"maps"
	"slices"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
)

// Editor-only validation codes.
const (
	CodeNoExit   = "NO_EXIT"
	CodeNoPlayer = "NO_PLAYER"
)

// Editor builds a level definition one edit at a time. It is not safe for
// concurrent use.
type Editor struct {
	name    string
	rows    int
	cols    int
	traps   map[core.Pos]struct{}
	exit    *core.Pos
	player  *core.Pos
	enemies []core.Pos
	walls   map[wappo.Wall]struct{}
}

// NewEditor starts an empty rows x cols level.
func NewEditor(rows, cols int) *Editor {
	return &Editor{
		rows:  rows,
		cols:  cols,
		traps: make(map[core.Pos]struct{}),
		walls: make(map[wappo.Wall]struct{}),
	}
}

// EditLevel starts from an existing level.
func EditLevel(l wappo.Level) *Editor {
	e := NewEditor(l.Rows, l.Cols)
	e.name = l.Name
	for _, p := range l.Traps {
		e.traps[p] = struct{}{}
	}
	for _, w := range l.Walls {
		e.walls[wappo.NewWall(w.A, w.B)] = struct{}{}
	}
	exit, player := l.Exit, l.Player
	e.exit, e.player = &exit, &player
	e.enemies = slices.Clone(l.Enemies)
	return e
}

// SetName sets the level name. Build substitutes the default for a blank
// one.
func (e *Editor) SetName(name string) {
	e.name = name
}

func (e *Editor) inBounds(p core.Pos) bool {
	return p.Row >= 0 && p.Row < e.rows && p.Col >= 0 && p.Col < e.cols
}

func (e *Editor) outOfBounds(what string, p core.Pos) error {
	return wappo.ValidationError{
		Code:    wappo.CodeOutOfBounds,
		Message: fmt.Sprintf("%s %s is outside the %dx%d board", what, p, e.rows, e.cols),
	}
}

// CycleTile advances the tile at p: empty, trap, exit, then empty again.
// There is a single exit, so placing it elsewhere clears the old one.
func (e *Editor) CycleTile(p core.Pos) error {
	if !e.inBounds(p) {
		return e.outOfBounds("tile", p)
	}

	switch {
	case e.exit != nil && *e.exit == p:
		e.exit = nil
	case hasKey(e.traps, p):
		delete(e.traps, p)
		e.exit = &p
	default:
		e.traps[p] = struct{}{}
	}
	return nil
}

// ToggleWall adds or removes the wall between two adjacent cells.
func (e *Editor) ToggleWall(a, b core.Pos) error {
	if !e.inBounds(a) || !e.inBounds(b) || !a.Adjacent(b) {
		return wappo.ValidationError{
			Code:    wappo.CodeBadWall,
			Message: fmt.Sprintf("cannot place a wall between %s and %s", a, b),
		}
	}

	w := wappo.NewWall(a, b)
	if hasKey(e.walls, w) {
		delete(e.walls, w)
	} else {
		e.walls[w] = struct{}{}
	}
	return nil
}

// SetPlayer moves the player start to p.
func (e *Editor) SetPlayer(p core.Pos) error {
	if !e.inBounds(p) {
		return e.outOfBounds("player", p)
	}
	e.player = &p
	return nil
}

// ToggleEnemy adds an enemy start at p, or removes the one already there.
func (e *Editor) ToggleEnemy(p core.Pos) error {
	if !e.inBounds(p) {
		return e.outOfBounds("enemy", p)
	}
	if i := slices.Index(e.enemies, p); i >= 0 {
		e.enemies = slices.Delete(e.enemies, i, i+1)
		return nil
	}
	e.enemies = append(e.enemies, p)
	return nil
}

// Build returns the validated level.
func (e *Editor) Build() (wappo.Level, error) {
	if e.exit == nil {
		return wappo.Level{}, wappo.ValidationError{Code: CodeNoExit, Message: "level needs an exit"}
	}
	if e.player == nil {
		return wappo.Level{}, wappo.ValidationError{Code: CodeNoPlayer, Message: "level needs a player start"}
	}

	l := wappo.Level{
		Name:    e.name,
		Rows:    e.rows,
		Cols:    e.cols,
		Player:  *e.player,
		Enemies: slices.Clone(e.enemies),
		Exit:    *e.exit,
		Traps:   slices.Collect(maps.Keys(e.traps)),
		Walls:   slices.Collect(maps.Keys(e.walls)),
	}.Normalized()

	if err := l.Validate(); err != nil {
		return wappo.Level{}, err
	}
	return l, nil
}

func hasKey[K comparable](m map[K]struct{}, k K) bool {
	_, ok := m[k]
	return ok
}
