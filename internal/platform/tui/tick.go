// Package tui provides the Bubble Tea front end for grove rooms.
// It renders room snapshots, maps keys to actor controls, and hosts
// rooms locally or over SSH.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-grove/internal/multiplayer"
)

// TickMsg is sent once per viewer frame.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// SessionEventMsg wraps an event delivered by the coordinator.
type SessionEventMsg struct {
	Event multiplayer.SessionEvent
}

// sessionClosedMsg is sent once the session is closed.
type sessionClosedMsg struct{}

// waitForEvent blocks on the session's event channel and hands the next
// event to the model.
func waitForEvent(session *multiplayer.ChannelSession) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-session.Events():
			return SessionEventMsg{Event: ev}
		case <-session.Done():
			return sessionClosedMsg{}
		}
	}
}
