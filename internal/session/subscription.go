package session

import (
	"fmt"
	"sync"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
)

// UpdateKind tells what produced an Update.
type UpdateKind int

const (
	UpdateLoaded UpdateKind = iota
	UpdateReset
	UpdatePlayerMoved
	UpdateEnemyMoved
	UpdateTrapCleared
	UpdateTurnEnded
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateLoaded:
		return "loaded"
	case UpdateReset:
		return "reset"
	case UpdatePlayerMoved:
		return "player_moved"
	case UpdateEnemyMoved:
		return "enemy_moved"
	case UpdateTrapCleared:
		return "trap_cleared"
	case UpdateTurnEnded:
		return "turn_ended"
	default:
		return fmt.Sprintf("update(%d)", int(k))
	}
}

// Update is one committed snapshot. Enemy is the index of the enemy that
// acted, or -1.
type Update struct {
	Kind  UpdateKind
	State wappo.State
	Enemy int
	Pos   core.Pos
}

const defaultBufferSize = 64

// Subscription receives the updates of one controller.
// If the buffer is full the oldest update is dropped, so a slow reader
// always ends up with the newest state.
type Subscription struct {
	updates   chan Update
	done      chan struct{}
	closeOnce sync.Once
}

func newSubscription(size int) *Subscription {
	if size < 1 {
		size = defaultBufferSize
	}
	return &Subscription{
		updates: make(chan Update, size),
		done:    make(chan struct{}),
	}
}

// Updates returns the channel to receive updates from.
func (s *Subscription) Updates() <-chan Update {
	return s.updates
}

// Done returns a channel that closes when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

func (s *Subscription) send(u Update) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.updates <- u:
	default:
		// Buffer full, drop oldest and retry
		select {
		case <-s.updates:
		default:
		}
		select {
		case s.updates <- u:
		default:
		}
	}
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
