// Package tui provides the Bubble Tea front end for Wappo: the play screen,
// the level menu, the results board and the SSH server that serves them.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/wappo/internal/session"
)

// noticeTTL is how long a one-line notice stays on screen.
const noticeTTL = 2 * time.Second

// UpdateMsg carries one controller update into the Bubble Tea loop.
type UpdateMsg struct {
	session.Update
	sub *session.Subscription
}

// subscriptionClosedMsg is sent when the subscription feeding a model ends.
type subscriptionClosedMsg struct {
	sub *session.Subscription
}

// waitForUpdate returns a command that blocks until the next update.
// The model re-issues it after every UpdateMsg.
func waitForUpdate(sub *session.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case u := <-sub.Updates():
			return UpdateMsg{Update: u, sub: sub}
		case <-sub.Done():
			return subscriptionClosedMsg{sub: sub}
		}
	}
}

// noticeExpiredMsg clears a notice. The id guards against clearing a newer
// one.
type noticeExpiredMsg struct {
	id int
}

func noticeCmd(id int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{id: id}
	})
}
