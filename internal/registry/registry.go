// Package registry is the global catalog of built-in levels.
// Level packages register their definitions in init() functions, so the
// platform can list and load levels without hardcoded dependencies.
// Registration order is campaign order.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vovakirdan/wappo/internal/games/wappo"
)

// ErrUnknownLevel is returned when no built-in level has the requested name.
var ErrUnknownLevel = errors.New("registry: unknown level")

// LevelInfo contains metadata about a registered level.
type LevelInfo struct {
	Index   int
	Name    string
	Rows    int
	Cols    int
	Enemies int
	Traps   int
	Walls   int
}

var (
	levels []wappo.Level
	index  = make(map[string]int)
	mu     sync.RWMutex
)

// Register appends a level to the catalog.
// Typically called from a level package's init() function.
// Panics if the name is taken or the level is not playable.
func Register(l wappo.Level) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := index[l.Name]; exists {
		panic(fmt.Sprintf("registry: level %q already registered", l.Name))
	}

	// Validate eagerly so a broken built-in fails at startup
	l.MustState()

	index[l.Name] = len(levels)
	levels = append(levels, l.Clone())
}

// List returns information about all registered levels in campaign order.
func List() []LevelInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]LevelInfo, 0, len(levels))
	for i, l := range levels {
		result = append(result, LevelInfo{
			Index:   i,
			Name:    l.Name,
			Rows:    l.Rows,
			Cols:    l.Cols,
			Enemies: len(l.Enemies),
			Traps:   len(l.Traps),
			Walls:   len(l.Walls),
		})
	}
	return result
}

// Get returns a copy of the level with the given name.
func Get(name string) (wappo.Level, error) {
	mu.RLock()
	defer mu.RUnlock()

	i, ok := index[name]
	if !ok {
		return wappo.Level{}, fmt.Errorf("%w %q", ErrUnknownLevel, name)
	}
	return levels[i].Clone(), nil
}

// At returns a copy of the level at campaign position i.
func At(i int) (wappo.Level, bool) {
	mu.RLock()
	defer mu.RUnlock()

	if i < 0 || i >= len(levels) {
		return wappo.Level{}, false
	}
	return levels[i].Clone(), true
}

// IndexOf returns the campaign position of the named level, or -1.
func IndexOf(name string) int {
	mu.RLock()
	defer mu.RUnlock()

	if i, ok := index[name]; ok {
		return i
	}
	return -1
}

// Count returns the number of registered levels.
func Count() int {
	mu.RLock()
	defer mu.RUnlock()

	return len(levels)
}

// Exists checks if a level with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := index[name]
	return ok
}
