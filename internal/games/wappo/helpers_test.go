package wappo

import (
	"iter"
	"testing"

	"github.com/vovakirdan/wappo/internal/core"
)

// openLevel is a 6x6 board without walls or traps and the exit in the
// bottom-right corner.
func openLevel(player core.Pos, enemies ...core.Pos) Level {
	return Level{
		Name:    "test",
		Rows:    6,
		Cols:    6,
		Player:  player,
		Enemies: enemies,
		Exit:    core.P(5, 5),
	}
}

func mustState(t *testing.T, l Level) State {
	t.Helper()
	s, err := l.NewState()
	if err != nil {
		t.Fatalf("NewState() failed: %v", err)
	}
	return s
}

func collect(seq iter.Seq[core.Pos]) []core.Pos {
	var out []core.Pos
	for p := range seq {
		out = append(out, p)
	}
	return out
}

func assertInBounds(t *testing.T, s State) {
	t.Helper()
	if !s.Board().InBounds(s.Player()) {
		t.Fatalf("player %v left the board", s.Player())
	}
	for i, e := range s.Enemies() {
		if !s.Board().InBounds(e.Pos) {
			t.Fatalf("enemy %d at %v left the board", i, e.Pos)
		}
	}
}
