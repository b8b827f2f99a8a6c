package session

import (
	"errors"
	"time"

	"github.com/vovakirdan/wappo/internal/games/wappo"
)

// MapStore persists custom maps and the name of the last active level.
// The controller calls it only from its worker goroutine.
type MapStore interface {
	LoadAll() ([]wappo.Level, error)
	SaveOrUpdate(l wappo.Level) error // Upsert by name
	Delete(name string) error
	ClearAll() error
	LoadLastActiveName() (string, error)
	SaveLastActiveName(name string) error
}

// ProgressStore is optionally implemented by a MapStore to keep finished
// games and campaign progress.
type ProgressStore interface {
	RecordResult(level string, result wappo.Result, moves int) error
	UnlockedLevels() (int, error)
	SetUnlockedLevels(n int) error
}

// Delays are the pauses the worker takes so that a viewer can follow each
// sub-step. All zero means instant resolution.
type Delays struct {
	EnemyStep        time.Duration // Before each enemy step
	EnemyTrapReveal  time.Duration // Before a trap under an enemy disappears
	PlayerTrapReveal time.Duration // Before the trap that caught the player disappears
}

var errNoStore = errors.New("session: no map store configured")

// nopStore stands in when no MapStore is configured.
type nopStore struct{}

func (nopStore) LoadAll() ([]wappo.Level, error)     { return nil, nil }
func (nopStore) SaveOrUpdate(wappo.Level) error      { return errNoStore }
func (nopStore) Delete(string) error                 { return errNoStore }
func (nopStore) ClearAll() error                     { return errNoStore }
func (nopStore) LoadLastActiveName() (string, error) { return "", nil }
func (nopStore) SaveLastActiveName(string) error     { return nil }
