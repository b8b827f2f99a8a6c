package levels

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	Name    string       `yaml:"name"`
	Size    YAMLSize     `yaml:"size,flow"`
	Player  *core.Pos    `yaml:"player,flow"`
	Exit    *core.Pos    `yaml:"exit,flow"`
	Enemies []core.Pos   `yaml:"enemies,flow"`
	Traps   []core.Pos   `yaml:"traps,omitempty,flow"`
	Walls   []wappo.Wall `yaml:"walls,omitempty,flow"`
}

// YAMLSize represents board dimensions.
type YAMLSize struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// Parse decodes and validates a YAML level definition. The level is built
// through an Editor, so a file without an exit or a player start is
// rejected. A blank name becomes wappo.DefaultLevelName.
func Parse(data []byte) (wappo.Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return wappo.Level{}, fmt.Errorf("levels: yaml unmarshal: %w", err)
	}

	l, err := yl.editor().Build()
	if err != nil {
		return wappo.Level{}, fmt.Errorf("levels: %q: %w", yl.Name, err)
	}
	return l, nil
}

// editor loads the decoded fields into an Editor without per-edit checks;
// Build validates the result as a whole.
func (yl YAMLLevel) editor() *Editor {
	e := NewEditor(yl.Size.Rows, yl.Size.Cols)
	e.name = yl.Name
	for _, p := range yl.Traps {
		e.traps[p] = struct{}{}
	}
	for _, w := range yl.Walls {
		e.walls[wappo.NewWall(w.A, w.B)] = struct{}{}
	}
	e.exit, e.player = yl.Exit, yl.Player
	e.enemies = slices.Clone(yl.Enemies)
	return e
}

// Encode renders a level in the format Parse reads.
func Encode(l wappo.Level) ([]byte, error) {
	l = l.Normalized()
	yl := YAMLLevel{
		Name:    l.Name,
		Size:    YAMLSize{Rows: l.Rows, Cols: l.Cols},
		Player:  &l.Player,
		Exit:    &l.Exit,
		Enemies: l.Enemies,
		Traps:   l.Traps,
		Walls:   l.Walls,
	}

	data, err := yaml.Marshal(&yl)
	if err != nil {
		return nil, fmt.Errorf("levels: yaml marshal: %w", err)
	}
	return data, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
