package session

import (
	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
)

// action is a unit of work for the controller's worker.
type action interface {
	sessionAction()
}

type moveAction struct {
	dir core.Direction
}

func (moveAction) sessionAction() {}

type resetAction struct{}

func (resetAction) sessionAction() {}

// loadAction carries the initial state of a level validated by the caller.
type loadAction struct {
	state wappo.State
}

func (loadAction) sessionAction() {}

type loadByNameAction struct {
	name  string
	reply chan error
}

func (loadByNameAction) sessionAction() {}

type nextLevelAction struct {
	reply chan error
}

func (nextLevelAction) sessionAction() {}

type bootstrapAction struct{}

func (bootstrapAction) sessionAction() {}

type saveAction struct {
	level wappo.Level
	reply chan error
}

func (saveAction) sessionAction() {}

type deleteAction struct {
	name  string
	reply chan error
}

func (deleteAction) sessionAction() {}

type clearMapsAction struct {
	reply chan error
}

func (clearMapsAction) sessionAction() {}

type mapsResult struct {
	maps []wappo.Level
	err  error
}

type mapsAction struct {
	reply chan mapsResult
}

func (mapsAction) sessionAction() {}

type unlockedAction struct {
	reply chan int
}

func (unlockedAction) sessionAction() {}

type syncAction struct {
	done chan struct{}
}

func (syncAction) sessionAction() {}
