package wappo

import (
	"errors"
	"testing"

	"github.com/vovakirdan/wappo/internal/core"
)

func TestBoardInBounds(t *testing.T) {
	b, err := NewBoard(6, 4, nil, nil)
	if err != nil {
		t.Fatalf("NewBoard() failed: %v", err)
	}

	tests := []struct {
		pos      core.Pos
		expected bool
	}{
		{core.P(0, 0), true},
		{core.P(5, 3), true},
		{core.P(6, 0), false},
		{core.P(0, 4), false},
		{core.P(-1, 2), false},
		{core.P(2, -1), false},
	}

	for _, tc := range tests {
		t.Run(tc.pos.String(), func(t *testing.T) {
			if got := b.InBounds(tc.pos); got != tc.expected {
				t.Errorf("InBounds(%v) = %v, expected %v", tc.pos, got, tc.expected)
			}
		})
	}
}

func TestBoardTileAt(t *testing.T) {
	b, err := NewBoard(3, 3, map[core.Pos]TileKind{
		core.P(1, 1): TileTrap,
		core.P(2, 2): TileExit,
	}, nil)
	if err != nil {
		t.Fatalf("NewBoard() failed: %v", err)
	}

	if kind, ok := b.TileAt(core.P(1, 1)); !ok || kind != TileTrap {
		t.Errorf("TileAt(1,1) = %v, %v, expected trap, true", kind, ok)
	}
	if kind, ok := b.TileAt(core.P(2, 2)); !ok || kind != TileExit {
		t.Errorf("TileAt(2,2) = %v, %v, expected exit, true", kind, ok)
	}
	if kind, ok := b.TileAt(core.P(0, 2)); !ok || kind != TileEmpty {
		t.Errorf("TileAt(0,2) = %v, %v, expected empty, true", kind, ok)
	}
	if _, ok := b.TileAt(core.P(3, 0)); ok {
		t.Error("TileAt should report out-of-bounds cells as absent")
	}
}

func TestBoardWallSymmetry(t *testing.T) {
	walls := []Wall{
		{A: core.P(0, 1), B: core.P(0, 0)}, // given in reverse order
		NewWall(core.P(2, 2), core.P(3, 2)),
		NewWall(core.P(4, 5), core.P(4, 4)),
	}
	b, err := NewBoard(6, 6, nil, walls)
	if err != nil {
		t.Fatalf("NewBoard() failed: %v", err)
	}

	for _, w := range b.Walls() {
		if !b.IsWalled(w.A, w.B) || !b.IsWalled(w.B, w.A) {
			t.Errorf("IsWalled should be symmetric for %v", w)
		}
	}
	if len(b.Walls()) != 3 {
		t.Errorf("Walls() returned %d walls, expected 3", len(b.Walls()))
	}
	if b.IsWalled(core.P(0, 0), core.P(1, 0)) {
		t.Error("IsWalled reported a wall that does not exist")
	}
}

func TestNewWallNormalises(t *testing.T) {
	a, b := core.P(3, 2), core.P(2, 2)
	if NewWall(a, b) != NewWall(b, a) {
		t.Errorf("NewWall(%v, %v) != NewWall(%v, %v)", a, b, b, a)
	}
	if w := NewWall(a, b); w.A != b {
		t.Errorf("NewWall().A = %v, expected %v", w.A, b)
	}
}

func TestNewBoardRejectsBadContent(t *testing.T) {
	tests := []struct {
		name  string
		rows  int
		cols  int
		tiles map[core.Pos]TileKind
		walls []Wall
		code  string
	}{
		{"zero size", 0, 6, nil, nil, CodeInvalidSize},
		{"tile off board", 6, 6, map[core.Pos]TileKind{core.P(6, 6): TileTrap}, nil, CodeOutOfBounds},
		{"wall to itself", 6, 6, nil, []Wall{{A: core.P(1, 1), B: core.P(1, 1)}}, CodeBadWall},
		{"diagonal wall", 6, 6, nil, []Wall{{A: core.P(1, 1), B: core.P(2, 2)}}, CodeBadWall},
		{"wall off board", 6, 6, nil, []Wall{{A: core.P(0, 5), B: core.P(0, 6)}}, CodeBadWall},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBoard(tc.rows, tc.cols, tc.tiles, tc.walls)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("NewBoard() error = %v, expected ValidationError", err)
			}
			if verr.Code != tc.code {
				t.Errorf("Code = %s, expected %s", verr.Code, tc.code)
			}
		})
	}
}

func TestBoardWithTileCopies(t *testing.T) {
	b, _ := NewBoard(2, 2, map[core.Pos]TileKind{core.P(0, 1): TileTrap}, nil)
	cleared := b.WithTile(core.P(0, 1), TileEmpty)

	if kind, _ := b.TileAt(core.P(0, 1)); kind != TileTrap {
		t.Error("WithTile must not modify the original board")
	}
	if kind, _ := cleared.TileAt(core.P(0, 1)); kind != TileEmpty {
		t.Error("WithTile did not apply the change")
	}
	if b.Equal(cleared) {
		t.Error("Equal should notice the changed tile")
	}
}
