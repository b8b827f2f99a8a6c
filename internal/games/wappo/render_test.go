package wappo

import (
	"strings"
	"testing"

	"github.com/vovakirdan/wappo/internal/core"
)

func TestBoardSize(t *testing.T) {
	w, h := BoardSize(6, 6)
	if w != 25 || h != 13 {
		t.Errorf("BoardSize(6, 6) = %d, %d, expected 25, 13", w, h)
	}
}

func TestRenderBoardGlyphs(t *testing.T) {
	l := openLevel(core.P(0, 0), core.P(0, 5))
	l.Traps = []core.Pos{core.P(2, 2)}
	l.Walls = []Wall{
		NewWall(core.P(1, 0), core.P(1, 1)),
		NewWall(core.P(3, 3), core.P(4, 3)),
	}
	s := mustState(t, l)
	screen := core.NewScreen(30, 15)
	RenderBoard(s, screen, 0, 0)

	cell := func(p core.Pos) rune {
		return screen.Get(p.Col*cellWidth+2, p.Row*cellHeight+1)
	}

	tests := []struct {
		name     string
		got      rune
		expected rune
	}{
		{"player", cell(core.P(0, 0)), GlyphPlayer},
		{"enemy", cell(core.P(0, 5)), GlyphEnemy},
		{"trap", cell(core.P(2, 2)), GlyphTrap},
		{"exit", cell(core.P(5, 5)), GlyphExit},
		{"empty", cell(core.P(3, 1)), GlyphEmpty},
		{"vertical wall", screen.Get(1*cellWidth, 1*cellHeight+1), GlyphWallVertical},
		{"flat wall", screen.Get(3*cellWidth+1, 4*cellHeight), GlyphWallFlat},
		{"top-left corner", screen.Get(0, 0), '┌'},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.expected {
				t.Errorf("glyph = %q, expected %q", tc.got, tc.expected)
			}
		})
	}
}

func TestRenderFrozenAndCaught(t *testing.T) {
	s := mustState(t, openLevel(core.P(0, 0), core.P(0, 2), core.P(4, 4)))
	s = s.withEnemy(1, Enemy{Pos: core.P(4, 4), FrozenTurns: 2})
	s = ResolveEnemyTurn(MovePlayerTo(s, core.P(0, 1)))

	screen := core.NewScreen(30, 15)
	RenderBoard(s, screen, 0, 0)

	if got := screen.Get(1*cellWidth+2, 1); got != GlyphCaught {
		t.Errorf("caught player glyph = %q, expected %q", got, GlyphCaught)
	}
	if got := screen.Get(4*cellWidth+2, 4*cellHeight+1); got != GlyphFrozenEnemy {
		t.Errorf("frozen enemy glyph = %q, expected %q", got, GlyphFrozenEnemy)
	}
}

func TestRenderStatus(t *testing.T) {
	s := mustState(t, openLevel(core.P(5, 4), core.P(0, 0)))
	s = MovePlayerTo(s, core.P(5, 5))

	screen := core.NewScreen(40, 24)
	Render(s, screen)

	out := screen.String()
	for _, want := range []string{"test", "Moves: 1", "ESCAPED!"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() output missing %q", want)
		}
	}
}

func TestRenderTooSmall(t *testing.T) {
	s := mustState(t, openLevel(core.P(0, 0), core.P(0, 5)))
	screen := core.NewScreen(20, 10)
	Render(s, screen)

	if !strings.Contains(screen.String(), "Window too small") {
		t.Error("expected the resize hint on a small screen")
	}
}
