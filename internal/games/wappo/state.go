package wappo

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/wappo/internal/core"
)

// Turn tells whose action is expected next.
type Turn int

const (
	TurnPlayer Turn = iota
	TurnEnemy
)

func (t Turn) String() string {
	switch t {
	case TurnPlayer:
		return "player"
	case TurnEnemy:
		return "enemy"
	default:
		return fmt.Sprintf("turn(%d)", int(t))
	}
}

// Result is the outcome of a session. Anything other than ResultOngoing is
// terminal and absorbing.
type Result int

const (
	ResultOngoing Result = iota
	ResultPlayerWon
	ResultPlayerLost
)

func (r Result) String() string {
	switch r {
	case ResultOngoing:
		return "ongoing"
	case ResultPlayerWon:
		return "won"
	case ResultPlayerLost:
		return "lost"
	default:
		return fmt.Sprintf("result(%d)", int(r))
	}
}

// IsTerminal reports whether the result ends the session.
func (r Result) IsTerminal() bool {
	switch r {
	case ResultOngoing:
		return false
	case ResultPlayerWon, ResultPlayerLost:
		return true
	default:
		panic(fmt.Sprintf("wappo: unknown result %d", int(r)))
	}
}

// ParseResult accepts the names produced by Result.String.
func ParseResult(s string) (Result, error) {
	switch s {
	case "ongoing":
		return ResultOngoing, nil
	case "won":
		return ResultPlayerWon, nil
	case "lost":
		return ResultPlayerLost, nil
	}
	return ResultOngoing, fmt.Errorf("wappo: unknown result %q", s)
}

// Enemy is one pursuer. FrozenTurns counts the upcoming enemy turns during
// which it stays put.
type Enemy struct {
	Pos         core.Pos
	FrozenTurns int
}

// Frozen reports whether the enemy skips this turn.
func (e Enemy) Frozen() bool {
	return e.FrozenTurns > 0
}

// State is an immutable session snapshot. Every transition returns a new
// value; slices are copied before they are changed, so a State handed to
// another goroutine is never written again.
type State struct {
	name    string
	board   Board
	player  core.Pos
	enemies []Enemy
	turn    Turn
	moves   int
	result  Result

	origin         Board
	initialPlayer  core.Pos
	initialEnemies []core.Pos
}

// NewState creates a fresh Ongoing state with the player to move.
// Positions must be in bounds, there must be at least one enemy and the
// player must not start on an enemy, a trap or an exit.
func NewState(name string, board Board, player core.Pos, enemies []core.Pos) (State, error) {
	if err := checkPlacement(board, player, enemies); err != nil {
		return State{}, err
	}

	es := make([]Enemy, len(enemies))
	for i, p := range enemies {
		es[i] = Enemy{Pos: p}
	}

	return State{
		name:           name,
		board:          board,
		player:         player,
		enemies:        es,
		turn:           TurnPlayer,
		origin:         board,
		initialPlayer:  player,
		initialEnemies: slices.Clone(enemies),
	}, nil
}

func checkPlacement(board Board, player core.Pos, enemies []core.Pos) error {
	if !board.InBounds(player) {
		return ValidationError{
			Code:    CodeOutOfBounds,
			Message: fmt.Sprintf("player start %s is outside the %dx%d board", player, board.Rows(), board.Cols()),
		}
	}
	if len(enemies) == 0 {
		return ValidationError{Code: CodeNoEnemies, Message: "level needs at least one enemy"}
	}
	for i, p := range enemies {
		if !board.InBounds(p) {
			return ValidationError{
				Code:    CodeOutOfBounds,
				Message: fmt.Sprintf("enemy %d start %s is outside the %dx%d board", i, p, board.Rows(), board.Cols()),
			}
		}
		if p == player {
			return ValidationError{
				Code:    CodeOverlap,
				Message: fmt.Sprintf("enemy %d starts on the player at %s", i, p),
			}
		}
	}
	if kind, _ := board.TileAt(player); kind != TileEmpty {
		return ValidationError{
			Code:    CodeOverlap,
			Message: fmt.Sprintf("player starts on a %s tile at %s", kind, player),
		}
	}
	return nil
}

// Restart re-derives the initial state: original tiles (so cleared traps come
// back), initial positions, zero moves and no freezes.
func (s State) Restart() State {
	fresh, err := NewState(s.name, s.origin, s.initialPlayer, s.initialEnemies)
	if err != nil {
		// The same inputs were accepted when s was built.
		panic(err)
	}
	return fresh
}

// Name returns the level name the state was built from.
func (s State) Name() string {
	return s.name
}

// Board returns the current board, including any traps already cleared.
func (s State) Board() Board {
	return s.board
}

// Player returns the player's position.
func (s State) Player() core.Pos {
	return s.player
}

// Turn returns whose action is expected next.
func (s State) Turn() Turn {
	return s.turn
}

// Moves returns the number of accepted player moves.
func (s State) Moves() int {
	return s.moves
}

// Result returns the session outcome so far.
func (s State) Result() Result {
	return s.result
}

// InitialPlayer returns the level's player start.
func (s State) InitialPlayer() core.Pos {
	return s.initialPlayer
}

// InitialEnemies returns a copy of the level's enemy starts.
func (s State) InitialEnemies() []core.Pos {
	return slices.Clone(s.initialEnemies)
}

// EnemyCount returns the number of enemies.
func (s State) EnemyCount() int {
	return len(s.enemies)
}

// Enemy returns enemy i. The index is the enemy's identity for the session.
func (s State) Enemy(i int) Enemy {
	return s.enemies[i]
}

// Enemies returns a copy of all enemies in order.
func (s State) Enemies() []Enemy {
	return slices.Clone(s.enemies)
}

// IsTerminal reports whether the session is over.
func (s State) IsTerminal() bool {
	return s.result.IsTerminal()
}

// EnemyAt returns the index of the first enemy standing on p.
func (s State) EnemyAt(p core.Pos) (int, bool) {
	for i, e := range s.enemies {
		if e.Pos == p {
			return i, true
		}
	}
	return -1, false
}

func (s State) withPlayer(p core.Pos) State {
	s.player = p
	return s
}

func (s State) withEnemy(i int, e Enemy) State {
	s.enemies = slices.Clone(s.enemies)
	s.enemies[i] = e
	return s
}

func (s State) withEnemies(es []Enemy) State {
	s.enemies = es
	return s
}

func (s State) withBoard(b Board) State {
	s.board = b
	return s
}

func (s State) withTurn(t Turn) State {
	s.turn = t
	return s
}

func (s State) withResult(r Result) State {
	s.result = r
	return s
}

func (s State) withMoves(n int) State {
	s.moves = n
	return s
}

// Equal compares every field, including the initial positions.
func (s State) Equal(other State) bool {
	return s.name == other.name &&
		s.board.Equal(other.board) &&
		s.player == other.player &&
		slices.Equal(s.enemies, other.enemies) &&
		s.turn == other.turn &&
		s.moves == other.moves &&
		s.result == other.result &&
		s.origin.Equal(other.origin) &&
		s.initialPlayer == other.initialPlayer &&
		slices.Equal(s.initialEnemies, other.initialEnemies)
}
