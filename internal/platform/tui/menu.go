package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/registry"
	"github.com/vovakirdan/wappo/internal/session"
)

// MenuItem represents a selectable level in the menu.
type MenuItem struct {
	Name   string
	Saved  bool // A custom map rather than a built-in level
	Locked bool
}

// menuDataMsg carries the progress and saved maps the menu lists.
type menuDataMsg struct {
	unlocked int
	maps     []wappo.Level
	err      error
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuLockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	menuSavedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	menuNoticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// MenuModel is the Bubble Tea model for the level picker.
type MenuModel struct {
	ctrl        *session.Controller
	items       []MenuItem
	cursor      int
	width       int
	height      int
	config      core.RuntimeConfig
	keyMapper   *KeyMapper
	loaded      bool
	notice      string
	noticeID    int
	quitting    bool
	selected    *MenuItem // Set when user selects a level
	openResults bool      // True if user pressed Tab for the results board
}

// NewMenuModel creates a new menu model. The list fills in once Init's
// command has asked the controller for progress and saved maps.
func NewMenuModel(ctrl *session.Controller, cfg core.RuntimeConfig) MenuModel {
	return MenuModel{
		ctrl:      ctrl,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init loads the menu contents.
func (m MenuModel) Init() tea.Cmd {
	return loadMenuCmd(m.ctrl)
}

func loadMenuCmd(ctrl *session.Controller) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		unlocked, err := ctrl.Unlocked(ctx)
		if err != nil {
			return menuDataMsg{err: err}
		}
		maps, err := ctrl.SavedMaps(ctx)
		return menuDataMsg{unlocked: unlocked, maps: maps, err: err}
	}
}

// buildMenuItems lists the built-in levels in catalog order followed by the
// saved maps.
func buildMenuItems(unlocked int, maps []wappo.Level) []MenuItem {
	infos := registry.List()
	items := make([]MenuItem, 0, len(infos)+len(maps))
	for _, info := range infos {
		items = append(items, MenuItem{
			Name:   info.Name,
			Locked: info.Index >= unlocked,
		})
	}
	for _, l := range maps {
		items = append(items, MenuItem{Name: l.Name, Saved: true})
	}
	return items
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case menuDataMsg:
		m.items = buildMenuItems(msg.unlocked, msg.maps)
		if !m.loaded {
			m.cursor = m.indexOf(m.ctrl.State().Name())
		}
		m.cursor = core.Clamp(m.cursor, 0, max(len(m.items)-1, 0))
		m.loaded = true
		if msg.err != nil {
			return m.showNotice(msg.err.Error())
		}
		return m, nil

	case commandResultMsg:
		model, cmd := m.showNotice(describeResult(msg))
		if msg.op == "delete" && msg.err == nil {
			return model, tea.Batch(cmd, loadMenuCmd(m.ctrl))
		}
		return model, cmd

	case noticeExpiredMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

func (m MenuModel) indexOf(name string) int {
	for i, item := range m.items {
		if item.Name == name {
			return i
		}
	}
	return 0
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) == 0 {
			return m, nil
		}
		item := m.items[m.cursor]
		if item.Locked {
			return m.showNotice(fmt.Sprintf("%s is locked", item.Name))
		}
		m.selected = &item

	case MenuActionDelete:
		if len(m.items) == 0 || !m.items[m.cursor].Saved {
			return m, nil
		}
		return m, deleteMapCmd(m.ctrl, m.items[m.cursor].Name)

	case MenuActionResults:
		m.openResults = true
	}

	return m, nil
}

func deleteMapCmd(ctrl *session.Controller, name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return commandResultMsg{op: "delete", name: name, err: ctrl.Delete(ctx, name)}
	}
}

func (m MenuModel) showNotice(text string) (MenuModel, tea.Cmd) {
	if text == "" {
		return m, nil
	}
	m.noticeID++
	m.notice = text
	return m, noticeCmd(m.noticeID)
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("  W A P P O  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a level", m.width))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(centerText("Loading...", m.width))
		b.WriteString("\n")
	}

	// Leave room for the title block and the footer
	visible := max(m.height-10, 3)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(m.items))

	for i := start; i < end; i++ {
		item := m.items[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		label := item.Name
		style := lipgloss.NewStyle()
		switch {
		case item.Locked:
			label += " (locked)"
			style = menuLockedStyle
		case item.Saved:
			label += " *"
			style = menuSavedStyle
		}
		if i == m.cursor && !item.Locked {
			style = menuCursorStyle
		}

		b.WriteString(centerText(style.Render(cursor+label), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(centerText(menuNoticeStyle.Render(m.notice), m.width))
	}
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Play  |  X: Delete map  |  Tab: Results  |  Q: Quit"
	b.WriteString(centerText(menuHelpStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsResults returns true if user requested the results board.
func (m MenuModel) WantsResults() bool {
	return m.openResults
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
