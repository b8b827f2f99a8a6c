package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
)

func testLevel(name string) wappo.Level {
	return wappo.Level{
		Name:    name,
		Rows:    4,
		Cols:    4,
		Player:  core.P(0, 0),
		Enemies: []core.Pos{core.P(0, 3)},
		Exit:    core.P(3, 3),
		Traps:   []core.Pos{core.P(1, 1)},
	}
}

func TestRegisterKeepsOrder(t *testing.T) {
	start := Count()
	names := []string{"order-b", "order-a", "order-c"}
	for _, n := range names {
		Register(testLevel(n))
	}

	if Count() != start+len(names) {
		t.Fatalf("Count() = %d, expected %d", Count(), start+len(names))
	}
	for i, n := range names {
		if got := IndexOf(n); got != start+i {
			t.Errorf("IndexOf(%q) = %d, expected %d", n, got, start+i)
		}
		l, ok := At(start + i)
		if !ok || l.Name != n {
			t.Errorf("At(%d) = %q, %v, expected %q", start+i, l.Name, ok, n)
		}
	}

	info := List()
	if got := info[start+1]; got.Name != "order-a" || got.Index != start+1 || got.Traps != 1 || got.Enemies != 1 {
		t.Errorf("List()[%d] = %+v", start+1, got)
	}
}

func TestGet(t *testing.T) {
	Register(testLevel("get-me"))

	l, err := Get("get-me")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if l.Exit != core.P(3, 3) {
		t.Errorf("Exit = %v, expected (3,3)", l.Exit)
	}

	// Callers get their own copy
	l.Traps[0] = core.P(2, 2)
	again, _ := Get("get-me")
	if again.Traps[0] != core.P(1, 1) {
		t.Error("Get() handed out the registered slice")
	}

	if _, err := Get("missing"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("Get(missing) error = %v, expected ErrUnknownLevel", err)
	}
	if Exists("missing") || IndexOf("missing") != -1 {
		t.Error("unknown level reported as registered")
	}
	if _, ok := At(-1); ok {
		t.Error("At(-1) should fail")
	}
}

func TestRegisterPanics(t *testing.T) {
	Register(testLevel("dup"))

	tests := []struct {
		name  string
		level wappo.Level
	}{
		{"duplicate name", testLevel("dup")},
		{"invalid level", wappo.Level{Name: "broken", Rows: 0, Cols: 4}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Register(%q) should panic", tc.level.Name)
				}
			}()
			Register(tc.level)
		})
	}
	if Exists("broken") {
		t.Error("an invalid level must not be registered")
	}
}
