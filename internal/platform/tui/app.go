package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/session"
)

type view int

const (
	viewMenu view = iota
	viewPlay
	viewResults
)

// levelLoadedMsg reports the outcome of loading a level picked in the menu.
type levelLoadedMsg struct {
	name string
	err  error
}

// SessionModel manages the full flow: menu -> play -> menu, plus the
// results board. It is the top-level model for local and SSH sessions.
type SessionModel struct {
	ctrl     *session.Controller
	results  ResultsStore
	config   core.RuntimeConfig
	view     view
	menu     MenuModel
	play     *PlayModel
	board    *ResultsModel
	quitting bool
}

// NewSessionModel creates a new session model around a running controller.
// results may be nil.
func NewSessionModel(ctrl *session.Controller, results ResultsStore, cfg core.RuntimeConfig) SessionModel {
	return SessionModel{
		ctrl:    ctrl,
		results: results,
		config:  cfg,
		menu:    NewMenuModel(ctrl, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if loaded, ok := msg.(levelLoadedMsg); ok {
		return m.startPlay(loaded)
	}

	switch m.view {
	case viewPlay:
		return m.updatePlay(msg)
	case viewResults:
		return m.updateResults(msg)
	default:
		return m.updateMenu(msg)
	}
}

func loadLevelCmd(ctrl *session.Controller, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return levelLoadedMsg{name: name, err: ctrl.LoadByName(ctx, name)}
	}
}

func (m SessionModel) startPlay(msg levelLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.updateMenu(commandResultMsg{op: "load", name: msg.name, err: msg.err})
	}
	play := NewPlayModel(m.ctrl, m.config)
	m.play = &play
	m.view = viewPlay
	return m, m.play.Init()
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsResults() {
		m.menu.openResults = false
		board := NewResultsModel(m.results, m.config.ScreenW, m.config.ScreenH)
		m.board = &board
		m.view = viewResults
		return m, m.board.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		m.menu.selected = nil
		return m, loadLevelCmd(m.ctrl, selected.Name)
	}

	return m, cmd
}

func (m SessionModel) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.play.Update(msg)
	if playModel, ok := newModel.(PlayModel); ok {
		m.play = &playModel
	}

	if m.play.IsQuitting() {
		m.play.Close()
		m.quitting = true
		return m, tea.Quit
	}

	if m.play.BackToMenu() {
		m.play.Close()
		m.play = nil
		m.view = viewMenu
		m.menu = NewMenuModel(m.ctrl, m.config)
		return m, m.menu.Init()
	}

	return m, cmd
}

func (m SessionModel) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.board.Update(msg)
	if board, ok := newModel.(ResultsModel); ok {
		m.board = &board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.board.IsGoingBack() {
		m.board = nil
		m.view = viewMenu
		m.menu = NewMenuModel(m.ctrl, m.config)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewPlay:
		return m.play.View()
	case viewResults:
		return m.board.View()
	default:
		return m.menu.View()
	}
}

// RunApp runs the menu, play and results flow in the local terminal.
func RunApp(ctrl *session.Controller, results ResultsStore, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(ctrl, results, cfg),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
