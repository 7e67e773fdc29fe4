package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-grove/internal/core"
)

// ViewerKeyMap defines the key bindings of the room viewer.
type ViewerKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Stop       key.Binding
	Zoom       key.Binding
	Unzoom     key.Binding
	Screenshot key.Binding
	Help       key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to show in the mini help view.
func (k ViewerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Left, k.Stop, k.Help, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k ViewerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Stop, k.Zoom, k.Unzoom},
		{k.Screenshot, k.Help, k.Back, k.Quit},
	}
}

// DefaultViewerKeyMap returns the default viewer bindings.
func DefaultViewerKeyMap() ViewerKeyMap {
	return ViewerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a"),
			key.WithHelp("←/a", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d"),
			key.WithHelp("→/d", "right"),
		),
		Stop: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "release"),
		),
		Zoom: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		Unzoom: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave room"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Direction returns the control vector a movement key asks for. Screen up
// is negative Y in world space.
func (k ViewerKeyMap) Direction(msg tea.KeyMsg) (core.Controls, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return core.Controls{Y: -1}, true
	case key.Matches(msg, k.Down):
		return core.Controls{Y: 1}, true
	case key.Matches(msg, k.Left):
		return core.Controls{X: -1}, true
	case key.Matches(msg, k.Right):
		return core.Controls{X: 1}, true
	case key.Matches(msg, k.Stop):
		return core.Controls{}, true
	}
	return core.Controls{}, false
}

// HoldTicks is how many viewer frames a key press keeps its direction
// active. Terminals report no key releases, so held keys are seen as a
// stream of repeats.
const HoldTicks = 8

// HeldControls turns key repeats into a control vector that decays to
// zero once the repeats stop.
type HeldControls struct {
	current core.Controls
	ttl     int
}

// Press merges a direction into the held vector. A zero direction
// releases everything.
func (h *HeldControls) Press(c core.Controls) {
	if c.IsZero() {
		h.current = core.Controls{}
		h.ttl = 0
		return
	}
	// Opposite axes replace, orthogonal ones combine.
	if c.X != 0 {
		h.current.X = c.X
	}
	if c.Y != 0 {
		h.current.Y = c.Y
	}
	h.ttl = HoldTicks
}

// Tick advances one viewer frame and reports whether the vector changed.
func (h *HeldControls) Tick() bool {
	if h.ttl == 0 {
		return false
	}
	h.ttl--
	if h.ttl == 0 && !h.current.IsZero() {
		h.current = core.Controls{}
		return true
	}
	return false
}

// Current returns the active control vector.
func (h *HeldControls) Current() core.Controls {
	return h.current
}

// LobbyKeyMap defines the key bindings of the lobby.
type LobbyKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Join   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to show in the mini help view.
func (k LobbyKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Join, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k LobbyKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultLobbyKeyMap returns the default lobby bindings.
func DefaultLobbyKeyMap() LobbyKeyMap {
	return LobbyKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "new room"),
		),
		Join: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "join by code"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}
