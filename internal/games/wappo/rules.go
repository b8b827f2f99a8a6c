package wappo

import "github.com/vovakirdan/wappo/internal/core"

// ApplyPlayerMove moves the player one cell in dir.
// See MovePlayerTo for the rules.
func ApplyPlayerMove(s State, dir core.Direction) State {
	return MovePlayerTo(s, s.player.Step(dir))
}

// MovePlayerTo applies a single player step to dest.
//
// The move is ignored (s is returned as is) when the session is terminal,
// when dest is off the board, when dest is not exactly one orthogonal step
// away, or when a wall separates the two cells. Illegal input is expected
// and is not an error.
//
// An accepted move bumps the move counter and then resolves, in order:
// landing on an enemy loses, landing on a trap loses, landing on an exit
// wins. Otherwise every freeze counter ticks down and the enemies move next.
// A trap the player stepped on stays a trap here; clearing it is the
// controller's job.
func MovePlayerTo(s State, dest core.Pos) State {
	if s.IsTerminal() {
		return s
	}
	if !s.board.InBounds(dest) {
		return s
	}
	if s.player.Manhattan(dest) != 1 {
		return s
	}
	if s.board.IsWalled(s.player, dest) {
		return s
	}

	next := s.withPlayer(dest).withMoves(s.moves + 1)

	if _, caught := s.EnemyAt(dest); caught {
		return next.withResult(ResultPlayerLost)
	}

	kind, _ := s.board.TileAt(dest)
	switch kind {
	case TileTrap:
		return next.withResult(ResultPlayerLost)
	case TileExit:
		return next.withResult(ResultPlayerWon)
	case TileEmpty:
	}

	enemies := make([]Enemy, len(s.enemies))
	for i, e := range s.enemies {
		e.FrozenTurns = max(e.FrozenTurns-1, 0)
		enemies[i] = e
	}
	return next.withEnemies(enemies).withTurn(TurnEnemy)
}
