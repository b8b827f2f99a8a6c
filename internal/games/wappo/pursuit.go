package wappo

import (
	"fmt"
	"iter"

	"github.com/vovakirdan/wappo/internal/core"
)

const (
	// FreezeDuration is the freeze counter an enemy gets when it steps on a
	// trap. The counter ticks down on every accepted player move, so the
	// enemy sits out FreezeDuration-1 enemy turns.
	FreezeDuration = 3

	// MaxEnemySteps is how far an enemy may travel in one turn.
	MaxEnemySteps = 2
)

// StepToward returns the next cell from from toward target. Columns are
// closed first, then rows. It returns from when the two coincide.
// This is a greedy rule, not a path search: walls are not routed around.
func StepToward(from, target core.Pos) core.Pos {
	switch {
	case target.Col < from.Col:
		return core.P(from.Row, from.Col-1)
	case target.Col > from.Col:
		return core.P(from.Row, from.Col+1)
	case target.Row < from.Row:
		return core.P(from.Row-1, from.Col)
	case target.Row > from.Row:
		return core.P(from.Row+1, from.Col)
	default:
		return from
	}
}

// EnemyPath yields the cells enemy i walks through this turn, computed one
// step at a time as the caller pulls them. The sequence can be ranged over
// once; later ranges yield nothing.
//
// The path is empty for a frozen enemy or a finished session. It stops when
// the greedy step would not move, would leave the board or is blocked by a
// wall. It ends right after a step onto a trap or onto the player.
func EnemyPath(s State, i int) iter.Seq[core.Pos] {
	consumed := false
	return func(yield func(core.Pos) bool) {
		if consumed {
			return
		}
		consumed = true

		e := s.enemies[i]
		if e.Frozen() || s.IsTerminal() {
			return
		}

		cur := e.Pos
		for range MaxEnemySteps {
			next := StepToward(cur, s.player)
			if next == cur || !s.board.InBounds(next) || s.board.IsWalled(cur, next) {
				return
			}
			cur = next
			if !yield(next) {
				return
			}
			if kind, _ := s.board.TileAt(next); kind == TileTrap {
				return
			}
			if next == s.player {
				return
			}
		}
	}
}

// StepKind labels a sub-step of an enemy turn.
type StepKind int

const (
	StepEnemyMoved StepKind = iota
	StepTrapCleared
	StepTurnEnded
)

func (k StepKind) String() string {
	switch k {
	case StepEnemyMoved:
		return "enemy_moved"
	case StepTrapCleared:
		return "trap_cleared"
	case StepTurnEnded:
		return "turn_ended"
	default:
		return fmt.Sprintf("step(%d)", int(k))
	}
}

// Step is one observable change during an enemy turn. Enemy is -1 for
// StepTurnEnded.
type Step struct {
	Kind  StepKind
	Enemy int
	Pos   core.Pos
	State State
}

// EnemyTurn resolves the enemy turn of s and yields every intermediate
// state. Nothing is yielded unless s is ongoing with the enemies to move.
//
// Enemies act in list order and each walks its whole path before the next
// starts. An enemy landing on a trap is frozen for FreezeDuration and the
// trap is removed in a following StepTrapCleared. Trap checks use the board
// as it was when the turn began, so an enemy following another onto an
// already cleared trap is frozen too. An enemy reaching the player ends the
// turn at once with ResultPlayerLost. Otherwise the final StepTurnEnded hands
// the turn back to the player.
func EnemyTurn(s State) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		if s.IsTerminal() || s.turn != TurnEnemy {
			return
		}

		cur := s
		for i := range s.enemies {
			for pos := range EnemyPath(s, i) {
				e := cur.enemies[i]
				e.Pos = pos

				trapped := false
				if kind, _ := s.board.TileAt(pos); kind == TileTrap {
					e.FrozenTurns = FreezeDuration
					trapped = true
				}

				cur = cur.withEnemy(i, e)
				if pos == cur.player {
					cur = cur.withResult(ResultPlayerLost)
				}
				if !yield(Step{Kind: StepEnemyMoved, Enemy: i, Pos: pos, State: cur}) {
					return
				}
				if cur.IsTerminal() {
					return
				}

				if trapped {
					if kind, _ := cur.board.TileAt(pos); kind == TileTrap {
						cur = ClearTrap(cur, pos)
						if !yield(Step{Kind: StepTrapCleared, Enemy: i, Pos: pos, State: cur}) {
							return
						}
					}
				}
			}
		}

		cur = cur.withTurn(TurnPlayer)
		yield(Step{Kind: StepTurnEnded, Enemy: -1, Pos: cur.player, State: cur})
	}
}

// ResolveEnemyTurn runs EnemyTurn to completion and returns the final state.
// It returns s unchanged when there is no enemy turn to play.
func ResolveEnemyTurn(s State) State {
	last := s
	for step := range EnemyTurn(s) {
		last = step.State
	}
	return last
}

// ClearTrap turns the trap at p into an empty tile. It only touches the
// board, so it is allowed on a terminal state; anything other than a trap is
// left alone.
func ClearTrap(s State, p core.Pos) State {
	if kind, ok := s.board.TileAt(p); !ok || kind != TileTrap {
		return s
	}
	return s.withBoard(s.board.WithTile(p, TileEmpty))
}

// PlayerOnTrap reports whether the player stands on a trap, which only
// happens in the state that lost to it.
func PlayerOnTrap(s State) bool {
	kind, _ := s.board.TileAt(s.player)
	return kind == TileTrap
}
