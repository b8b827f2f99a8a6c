package wappo

import "github.com/vovakirdan/wappo/internal/core"

// EnemySnapshot is the wire form of an Enemy.
type EnemySnapshot struct {
	Pos         core.Pos `json:"pos"`
	FrozenTurns int      `json:"frozen_turns"`
}

// Snapshot is a plain copy of a State for encoding and for assertions in
// tests. Slices are fresh copies owned by the caller.
type Snapshot struct {
	Name    string          `json:"name"`
	Rows    int             `json:"rows"`
	Cols    int             `json:"cols"`
	Player  core.Pos        `json:"player"`
	Enemies []EnemySnapshot `json:"enemies"`
	Traps   []core.Pos      `json:"traps"`
	Exits   []core.Pos      `json:"exits"`
	Walls   []Wall          `json:"walls"`
	Turn    string          `json:"turn"`
	Moves   int             `json:"moves"`
	Result  string          `json:"result"`
}

// Snapshot captures the state in its exported form.
func (s State) Snapshot() Snapshot {
	enemies := make([]EnemySnapshot, len(s.enemies))
	for i, e := range s.enemies {
		enemies[i] = EnemySnapshot{Pos: e.Pos, FrozenTurns: e.FrozenTurns}
	}

	return Snapshot{
		Name:    s.name,
		Rows:    s.board.Rows(),
		Cols:    s.board.Cols(),
		Player:  s.player,
		Enemies: enemies,
		Traps:   s.board.Traps(),
		Exits:   s.board.Exits(),
		Walls:   s.board.Walls(),
		Turn:    s.turn.String(),
		Moves:   s.moves,
		Result:  s.result.String(),
	}
}
