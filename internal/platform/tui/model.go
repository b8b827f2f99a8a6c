package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/registry"
	"github.com/vovakirdan/wappo/internal/session"
)

// commandTimeout bounds the blocking controller calls issued from the UI.
const commandTimeout = 5 * time.Second

const playHelp = "arrows/wasd/hjkl move  r reset  n next  ctrl+s save  b menu  q quit"

// commandResultMsg reports the outcome of a blocking controller call.
type commandResultMsg struct {
	op   string
	name string
	err  error
}

// PlayModel is the Bubble Tea model for the play screen. It shows the last
// state published by the controller and turns keys into commands.
type PlayModel struct {
	ctrl       *session.Controller
	sub        *session.Subscription
	state      wappo.State
	screen     *core.Screen
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	notice     string
	noticeID   int
	quitOnBack bool
	quitting   bool
	backToMenu bool
}

// NewPlayModel subscribes to ctrl and starts from its current state.
// The controller must already be running.
func NewPlayModel(ctrl *session.Controller, cfg core.RuntimeConfig) PlayModel {
	sub := ctrl.Subscribe()
	return PlayModel{
		ctrl:      ctrl,
		sub:       sub,
		state:     ctrl.State(),
		screen:    core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init starts listening for updates.
func (m PlayModel) Init() tea.Cmd {
	return waitForUpdate(m.sub)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case UpdateMsg:
		if msg.sub != m.sub {
			return m, nil
		}
		m.state = msg.State
		return m, waitForUpdate(m.sub)

	case subscriptionClosedMsg:
		if msg.sub == m.sub && m.quitOnBack {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case commandResultMsg:
		return m.showNotice(describeResult(msg))

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch {
	case action.IsMove():
		// Keys pressed while the enemies walk are ignored, not queued.
		if m.state.IsTerminal() || m.state.Turn() == wappo.TurnEnemy {
			return m, nil
		}
		m.ctrl.Move(action.Direction())

	case action == core.ActionReset:
		m.ctrl.Reset()

	case action == core.ActionNext:
		return m, m.nextLevelCmd()

	case action == core.ActionSave:
		return m, m.saveCmd()

	case action == core.ActionBack:
		m.backToMenu = true
		if m.quitOnBack {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m PlayModel) nextLevelCmd() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		err := ctrl.NextLevel(ctx)
		return commandResultMsg{op: "next", err: err}
	}
}

// saveCmd stores the current level's starting layout. Built-in levels are
// saved under the default custom map name.
func (m PlayModel) saveCmd() tea.Cmd {
	ctrl := m.ctrl
	l := wappo.LevelFromState(m.state)
	if registry.Exists(l.Name) {
		l.Name = ""
	}
	l = l.Normalized()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		err := ctrl.Save(ctx, l)
		return commandResultMsg{op: "save", name: l.Name, err: err}
	}
}

func describeResult(msg commandResultMsg) string {
	switch {
	case msg.err == nil && msg.op == "save":
		return fmt.Sprintf("Saved as %q", msg.name)
	case msg.err == nil && msg.op == "delete":
		return fmt.Sprintf("Deleted %q", msg.name)
	case msg.err == nil:
		return ""
	case errors.Is(msg.err, session.ErrNotWon):
		return "Escape first, then press n"
	case errors.Is(msg.err, session.ErrLevelLocked):
		return "The next level is locked"
	case errors.Is(msg.err, session.ErrNoNextLevel):
		return "No next level"
	default:
		return msg.err.Error()
	}
}

func (m PlayModel) showNotice(text string) (tea.Model, tea.Cmd) {
	if text == "" {
		return m, nil
	}
	m.noticeID++
	m.notice = text
	return m, noticeCmd(m.noticeID)
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	wappo.Render(m.state, m.screen)
	h := m.screen.Height()
	if m.notice != "" {
		m.screen.DrawTextCentered(h-2, m.notice, core.ColorYellow)
	}
	m.screen.DrawTextCentered(h-1, playHelp, core.ColorGray)

	return RenderScreen(m.screen)
}

// Close ends the model's subscription.
func (m PlayModel) Close() {
	m.ctrl.Unsubscribe(m.sub)
}

// IsQuitting returns true if user requested to quit entirely.
func (m PlayModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m PlayModel) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last state the model has seen.
func (m PlayModel) State() wappo.State {
	return m.state
}

// Run plays the controller's active level until the user quits or goes back.
func Run(ctrl *session.Controller, cfg core.RuntimeConfig) error {
	model := NewPlayModel(ctrl, cfg)
	model.quitOnBack = true
	defer model.Close()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}
