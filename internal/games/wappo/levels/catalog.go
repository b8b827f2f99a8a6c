// Package levels holds the built-in Wappo campaign, the YAML level format
// and a loader for level directories. The campaign registers itself with
// the registry on import.
package levels

import (
	"fmt"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/registry"
)

// Campaign boards are all 6x6.
const (
	campaignRows = 6
	campaignCols = 6
)

func init() {
	for _, l := range Campaign() {
		registry.Register(l)
	}
}

// Corner positions shared by most campaign levels.
var (
	topLeft     = core.P(0, 0)
	topRight    = core.P(0, 5)
	bottomLeft  = core.P(5, 0)
	bottomRight = core.P(5, 5)
)

type spec struct {
	traps   []core.Pos
	exit    core.Pos
	player  core.Pos
	enemies []core.Pos
	walls   []wappo.Wall
}

func ps(coords ...int) []core.Pos {
	out := make([]core.Pos, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		out = append(out, core.P(coords[i], coords[i+1]))
	}
	return out
}

func w(r1, c1, r2, c2 int) wappo.Wall {
	return wappo.NewWall(core.P(r1, c1), core.P(r2, c2))
}

var campaign = []spec{
	{ps(2, 2), bottomRight, topLeft, []core.Pos{topRight}, nil},
	{ps(2, 2, 4, 3), bottomRight, topLeft, ps(2, 5), nil},
	{ps(1, 4, 3, 2), bottomRight, topLeft, []core.Pos{bottomLeft, topRight},
		[]wappo.Wall{w(2, 2, 3, 2), w(0, 4, 0, 5), w(4, 4, 4, 5)}},
	{ps(2, 1, 2, 4, 4, 3), topRight, bottomLeft, ps(3, 5),
		[]wappo.Wall{w(1, 1, 1, 2), w(3, 3, 4, 3)}},
	{ps(1, 0, 2, 2, 3, 4, 5, 1), topRight, bottomLeft, []core.Pos{topLeft, bottomRight},
		[]wappo.Wall{w(0, 3, 1, 3), w(2, 1, 3, 1), w(4, 4, 5, 4)}},
	{ps(1, 1, 3, 4), bottomRight, topLeft, []core.Pos{topRight}, nil},
	{ps(2, 2, 3, 3), bottomLeft, topRight, []core.Pos{bottomRight, topLeft},
		[]wappo.Wall{w(1, 4, 2, 4), w(3, 1, 4, 1)}},
	{ps(1, 3, 4, 2), bottomRight, topLeft, []core.Pos{bottomLeft}, nil},
	{ps(1, 2, 2, 5, 4, 3), bottomRight, topLeft, []core.Pos{core.P(3, 5), bottomLeft}, nil},
	{ps(2, 1, 3, 2, 1, 4), bottomLeft, topRight, []core.Pos{bottomRight}, nil},
	{ps(0, 3, 2, 4, 4, 1), bottomRight, topLeft, []core.Pos{bottomLeft},
		[]wappo.Wall{w(1, 1, 2, 1), w(3, 3, 4, 3)}},
	{ps(1, 1, 3, 2), topRight, bottomLeft, []core.Pos{topLeft},
		[]wappo.Wall{w(2, 3, 3, 3), w(4, 4, 5, 4)}},
	{ps(2, 2, 3, 4, 1, 5), bottomLeft, topRight, []core.Pos{bottomRight},
		[]wappo.Wall{w(2, 1, 3, 1), w(1, 3, 2, 3)}},
	{ps(0, 2, 4, 3), bottomRight, topLeft, []core.Pos{topRight},
		[]wappo.Wall{w(1, 4, 2, 4), w(3, 2, 4, 2)}},
	{ps(2, 3, 3, 1), bottomLeft, topRight, []core.Pos{bottomRight},
		[]wappo.Wall{w(1, 1, 2, 1), w(4, 3, 5, 3)}},
	{ps(0, 4, 3, 2), bottomRight, topLeft, []core.Pos{bottomLeft},
		[]wappo.Wall{w(2, 2, 3, 2), w(4, 1, 5, 1)}},
	{ps(1, 3, 2, 5, 4, 2), topRight, bottomLeft, []core.Pos{topLeft},
		[]wappo.Wall{w(1, 1, 1, 2), w(3, 3, 4, 3)}},
	{ps(2, 2, 4, 4), bottomLeft, topRight, []core.Pos{bottomRight},
		[]wappo.Wall{w(1, 2, 2, 2), w(3, 1, 4, 1)}},
	{ps(0, 3, 2, 1, 4, 2), bottomRight, topLeft, []core.Pos{bottomLeft},
		[]wappo.Wall{w(1, 3, 2, 3), w(3, 4, 4, 4)}},
	{ps(1, 2, 3, 3), topRight, bottomLeft, []core.Pos{topLeft},
		[]wappo.Wall{w(2, 2, 3, 2), w(4, 3, 5, 3)}},
	{ps(2, 4, 3, 2, 1, 1), bottomRight, topLeft, []core.Pos{bottomLeft},
		[]wappo.Wall{w(1, 3, 2, 3), w(3, 4, 4, 4)}},
	{ps(0, 2, 4, 1), bottomLeft, topRight, []core.Pos{bottomRight},
		[]wappo.Wall{w(2, 2, 3, 2), w(1, 4, 2, 4)}},
	{ps(1, 3, 3, 4), bottomRight, topLeft, []core.Pos{bottomLeft},
		[]wappo.Wall{w(2, 1, 3, 1), w(4, 3, 5, 3)}},
	{ps(2, 2, 4, 4, 0, 3), topRight, bottomLeft, []core.Pos{topLeft},
		[]wappo.Wall{w(1, 1, 2, 1), w(3, 3, 4, 3)}},
	{ps(1, 4, 3, 2), bottomLeft, topRight, []core.Pos{bottomRight},
		[]wappo.Wall{w(2, 2, 3, 2), w(4, 1, 5, 1)}},
}

// CampaignName returns the display name of the i-th campaign level.
func CampaignName(i int) string {
	return fmt.Sprintf("Level %d", i+1)
}

// Campaign returns fresh copies of the built-in levels in play order.
func Campaign() []wappo.Level {
	out := make([]wappo.Level, len(campaign))
	for i, s := range campaign {
		out[i] = s.level(CampaignName(i))
	}
	return out
}

func (s spec) level(name string) wappo.Level {
	l := wappo.Level{
		Name:    name,
		Rows:    campaignRows,
		Cols:    campaignCols,
		Player:  s.player,
		Enemies: s.enemies,
		Exit:    s.exit,
		Traps:   s.traps,
		Walls:   s.walls,
	}
	return l.Clone()
}

// DefaultName is the name of the level played when nothing else is
// available.
const DefaultName = "Default"

// Default returns the fallback level.
func Default() wappo.Level {
	return spec{
		traps:   ps(1, 4, 3, 2),
		exit:    bottomRight,
		player:  topLeft,
		enemies: []core.Pos{topRight},
		walls:   []wappo.Wall{w(0, 0, 0, 1), w(2, 2, 3, 2), w(4, 4, 4, 5)},
	}.level(DefaultName)
}
