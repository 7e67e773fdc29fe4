package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/multiplayer"
	"github.com/vovakirdan/tui-grove/internal/storage"
)

type sessionState int

const (
	stateLobby sessionState = iota
	stateRuns
	stateRoom
)

// SessionModel manages one session's flow: lobby -> room -> lobby, with a
// side trip to the runs board. It owns the frame ticker and the event pump
// and forwards both to the active screen.
type SessionModel struct {
	coord   ControlSender
	session *multiplayer.ChannelSession
	store   *storage.Store
	config  core.RuntimeConfig

	state  sessionState
	lobby  LobbyModel
	runs   RunsModel
	viewer ViewerModel

	initial  *LobbySelection
	quitting bool
}

// NewSessionModel creates a session model. A non-nil initial selection
// skips the lobby and joins straight away.
func NewSessionModel(coord ControlSender, session *multiplayer.ChannelSession, store *storage.Store, cfg core.RuntimeConfig, initial *LobbySelection) SessionModel {
	return SessionModel{
		coord:   coord,
		session: session,
		store:   store,
		config:  cfg,
		lobby:   NewLobbyModel(cfg.ScreenW, cfg.ScreenH),
		initial: initial,
	}
}

// Init starts the ticker and the event pump, and joins the initial room.
func (m SessionModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.config.TickRate), waitForEvent(m.session)}
	if m.initial != nil {
		cmds = append(cmds, func() tea.Msg { return *m.initial })
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height

	case LobbySelection:
		return m.enterRoom(msg), nil

	case TickMsg:
		if m.state == stateRoom {
			m.viewer, _ = m.forward(m.viewer, msg)
		}
		return m, tickCmd(m.config.TickRate)

	case SessionEventMsg:
		if m.state == stateRoom {
			m.viewer, _ = m.forward(m.viewer, msg)
		}
		return m, waitForEvent(m.session)

	case sessionClosedMsg:
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case stateRuns:
		return m.updateRuns(msg)
	case stateRoom:
		return m.updateRoom(msg)
	default:
		return m.updateLobby(msg)
	}
}

// forward passes msg to the viewer and unwraps the result.
func (m SessionModel) forward(v ViewerModel, msg tea.Msg) (ViewerModel, tea.Cmd) {
	next, cmd := v.Update(msg)
	if vm, ok := next.(ViewerModel); ok {
		return vm, cmd
	}
	return v, cmd
}

func (m SessionModel) enterRoom(sel LobbySelection) SessionModel {
	m.coord.Send(multiplayer.JoinRoomMsg{
		SessionID: m.session.ID(),
		Code:      sel.Code,
		Mode:      sel.Mode,
	})
	m.viewer = NewViewerModel(m.coord, m.session, m.config)
	m.state = stateRoom
	return m
}

func (m SessionModel) updateLobby(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.lobby.Update(msg)
	if lm, ok := next.(LobbyModel); ok {
		m.lobby = lm
	}

	switch {
	case m.lobby.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.lobby.WantsRuns():
		m.runs = NewRunsModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.state = stateRuns
		return m, nil
	case m.lobby.Selected() != nil:
		return m.enterRoom(*m.lobby.Selected()), nil
	}
	return m, cmd
}

func (m SessionModel) updateRuns(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.runs.Update(msg)
	if rm, ok := next.(RunsModel); ok {
		m.runs = rm
	}

	switch {
	case m.runs.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.runs.IsGoingBack():
		m.toLobby()
		return m, nil
	}
	return m, cmd
}

func (m SessionModel) updateRoom(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewer, cmd = m.forward(m.viewer, msg)

	switch {
	case m.viewer.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.viewer.BackToLobby():
		m.toLobby()
		return m, nil
	}
	return m, cmd
}

func (m *SessionModel) toLobby() {
	m.lobby = NewLobbyModel(m.config.ScreenW, m.config.ScreenH)
	m.state = stateLobby
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.state {
	case stateRuns:
		return m.runs.View()
	case stateRoom:
		return m.viewer.View()
	default:
		return m.lobby.View()
	}
}
