package wappo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vovakirdan/wappo/internal/core"
)

// DefaultLevelName is used for custom maps saved without a name.
const DefaultLevelName = "Custom Map"

// Level is a named level definition: board size, traps, exit, walls and the
// starting positions. It is the record the catalog, the YAML files and the
// map store exchange.
type Level struct {
	Name    string
	Rows    int
	Cols    int
	Player  core.Pos
	Enemies []core.Pos
	Exit    core.Pos
	Traps   []core.Pos
	Walls   []Wall
}

// Board builds the level's board.
func (l Level) Board() (Board, error) {
	tiles := make(map[core.Pos]TileKind, len(l.Traps)+1)
	for _, p := range l.Traps {
		tiles[p] = TileTrap
	}
	if kind, dup := tiles[l.Exit]; dup {
		return Board{}, ValidationError{
			Code:    CodeOverlap,
			Message: fmt.Sprintf("exit %s sits on a %s", l.Exit, kind),
		}
	}
	tiles[l.Exit] = TileExit
	return NewBoard(l.Rows, l.Cols, tiles, l.Walls)
}

// Validate reports the first content error in the level, or nil.
func (l Level) Validate() error {
	_, err := l.NewState()
	return err
}

// NewState builds the initial session state for the level.
func (l Level) NewState() (State, error) {
	board, err := l.Board()
	if err != nil {
		return State{}, err
	}
	return NewState(l.Name, board, l.Player, l.Enemies)
}

// MustState is like NewState but panics on invalid content. It is meant for
// levels compiled into the binary.
func (l Level) MustState() State {
	s, err := l.NewState()
	if err != nil {
		panic(fmt.Sprintf("wappo: level %q: %v", l.Name, err))
	}
	return s
}

// Normalized trims the name, substitutes DefaultLevelName for a blank one
// and sorts traps and walls so equal levels encode identically.
func (l Level) Normalized() Level {
	out := l.Clone()
	out.Name = strings.TrimSpace(out.Name)
	if out.Name == "" {
		out.Name = DefaultLevelName
	}
	slices.SortFunc(out.Traps, core.Pos.Compare)
	out.Traps = slices.Compact(out.Traps)
	for i, w := range out.Walls {
		out.Walls[i] = NewWall(w.A, w.B)
	}
	slices.SortFunc(out.Walls, compareWalls)
	out.Walls = slices.Compact(out.Walls)
	return out
}

// Clone returns a deep copy.
func (l Level) Clone() Level {
	l.Enemies = slices.Clone(l.Enemies)
	l.Traps = slices.Clone(l.Traps)
	l.Walls = slices.Clone(l.Walls)
	return l
}

// LevelFromState recovers the level definition a state was built from,
// including any traps that have since been cleared.
func LevelFromState(s State) Level {
	l := Level{
		Name:    s.name,
		Rows:    s.origin.Rows(),
		Cols:    s.origin.Cols(),
		Player:  s.initialPlayer,
		Enemies: slices.Clone(s.initialEnemies),
		Traps:   s.origin.Traps(),
		Walls:   s.origin.Walls(),
	}
	if exits := s.origin.Exits(); len(exits) > 0 {
		l.Exit = exits[0]
	}
	return l
}
