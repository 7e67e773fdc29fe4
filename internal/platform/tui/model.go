package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/multiplayer"
	"github.com/vovakirdan/tui-grove/internal/sim"
)

// ControlSender delivers a session's messages to a coordinator.
type ControlSender interface {
	Send(msg multiplayer.CoordinatorMessage)
}

// ViewerModel is the Bubble Tea model that shows one session's room. It
// turns key presses into control vectors and draws every snapshot the room
// broadcasts.
type ViewerModel struct {
	coord   ControlSender
	session *multiplayer.ChannelSession
	actor   core.ActorID

	keys ViewerKeyMap
	help help.Model
	held HeldControls

	screen *core.Screen
	config core.RuntimeConfig
	scale  float64

	snap   *sim.Snapshot
	code   string
	mode   string
	status string
	closed bool

	screenshotDir string
	backToLobby   bool
	quitting      bool
}

// NewViewerModel creates a viewer for session. The session must already
// be registered with the coordinator behind coord.
func NewViewerModel(coord ControlSender, session *multiplayer.ChannelSession, cfg core.RuntimeConfig) ViewerModel {
	h := help.New()
	h.Width = cfg.ScreenW
	return ViewerModel{
		coord:         coord,
		session:       session,
		actor:         multiplayer.ActorOf(session.ID()),
		keys:          DefaultViewerKeyMap(),
		help:          h,
		screen:        core.NewScreen(cfg.ScreenW, max(cfg.ScreenH-1, 1)),
		config:        cfg,
		scale:         DefaultScale,
		status:        "joining...",
		screenshotDir: filepath.Join(os.Getenv("HOME"), ".grove", "screenshots"),
	}
}

// Init does nothing: the owning SessionModel runs the frame ticker and the
// event pump and forwards both.
func (m ViewerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and returns the updated model.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if m.held.Tick() {
			m.sendControls()
		}
		return m, nil

	case SessionEventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))
		m.help.Width = msg.Width
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.coord.Send(multiplayer.LeaveRoomMsg{SessionID: m.session.ID()})
		m.backToLobby = true
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Zoom):
		m.scale = max(m.scale/2, MinScale)
		return m, nil
	case key.Matches(msg, m.keys.Unzoom):
		m.scale = min(m.scale*2, MaxScale)
		return m, nil
	case key.Matches(msg, m.keys.Screenshot):
		m.saveScreenshot()
		return m, nil
	}

	if m.closed {
		return m, nil
	}
	if c, ok := m.keys.Direction(msg); ok {
		m.held.Press(c)
		m.sendControls()
	}
	return m, nil
}

func (m *ViewerModel) handleEvent(ev multiplayer.SessionEvent) {
	switch ev := ev.(type) {
	case multiplayer.RoomJoinedEvent:
		m.code = ev.Code
		m.mode = ev.Mode
		m.actor = ev.Actor
		m.status = ""
	case multiplayer.RoomErrorEvent:
		m.status = ev.Message
	case multiplayer.SnapshotEvent:
		m.snap = ev.Snapshot
	case multiplayer.RoomClosedEvent:
		m.closed = true
		m.status = fmt.Sprintf("room closed (%s) after %d frames - esc for lobby, q to quit", ev.Reason, ev.Frames)
	}
}

func (m *ViewerModel) sendControls() {
	m.coord.Send(multiplayer.ControlsMsg{
		SessionID: m.session.ID(),
		Controls:  m.held.Current(),
	})
}

// render draws the current state into the screen buffer.
func (m *ViewerModel) render() {
	m.screen.Clear()
	if m.snap == nil {
		m.screen.DrawTextCentered(m.screen.Height()/2, "waiting for the room...")
	} else {
		cam := FocusCamera(m.snap, m.actor, m.scale)
		DrawSnapshot(m.screen, m.snap, m.actor, cam)
		DrawHUD(m.screen, 0, m.snap, m.code)
	}
	switch {
	case m.closed:
		DrawNotice(m.screen, m.status)
	case m.status != "":
		m.screen.DrawTextColor(1, m.screen.Height()-1, m.status, core.ColorWarn)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *ViewerModel) saveScreenshot() {
	m.render()

	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(m.screenshotDir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	name := m.mode
	if name == "" {
		name = "room"
	}
	path := filepath.Join(m.screenshotDir, fmt.Sprintf("%s_%s.txt", name, timestamp))

	//nolint:errcheck // Best-effort save, the room keeps running regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m ViewerModel) View() string {
	if m.quitting {
		return ""
	}
	m.render()
	return RenderScreen(m.screen) + "\n" + m.help.View(m.keys)
}

// Closed reports whether the room has ended.
func (m ViewerModel) Closed() bool {
	return m.closed
}

// BackToLobby reports whether the user left the room.
func (m ViewerModel) BackToLobby() bool {
	return m.backToLobby
}

// IsQuitting returns true if user requested to quit.
func (m ViewerModel) IsQuitting() bool {
	return m.quitting
}
