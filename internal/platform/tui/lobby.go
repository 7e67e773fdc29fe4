package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-grove/internal/registry"
)

// joinCodeLength is the length of generated room codes.
const joinCodeLength = 6

// LobbySelection is what the user picked in the lobby: a mode for a new
// room, or the code of an existing one.
type LobbySelection struct {
	Mode string
	Code string
}

// LobbyModel lets a session open a room for a mode or join one by code.
type LobbyModel struct {
	modes    []registry.ModeInfo
	cursor   int
	width    int
	height   int
	keys     LobbyKeyMap
	help     help.Model
	entering bool
	code     string
	wantRuns bool
	selected *LobbySelection
	quitting bool
}

// NewLobbyModel creates a lobby listing every registered mode.
func NewLobbyModel(width, height int) LobbyModel {
	return LobbyModel{
		modes:  registry.List(),
		width:  width,
		height: height,
		keys:   DefaultLobbyKeyMap(),
		help:   help.New(),
	}
}

// Init initializes the lobby model.
func (m LobbyModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the lobby.
func (m LobbyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.entering {
			return m.handleCodeKey(msg)
		}
		return m.handleListKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m LobbyModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.modes)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		if len(m.modes) > 0 {
			m.selected = &LobbySelection{Mode: m.modes[m.cursor].ID}
		}
	case key.Matches(msg, m.keys.Join):
		m.entering = true
		m.code = ""
	case msg.String() == "r":
		m.wantRuns = true
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m LobbyModel) handleCodeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.entering = false
	case "enter":
		if m.code != "" {
			m.selected = &LobbySelection{Code: m.code}
		}
	case "backspace":
		if m.code != "" {
			m.code = m.code[:len(m.code)-1]
		}
	default:
		k := strings.ToUpper(msg.String())
		if len(k) == 1 && len(m.code) < joinCodeLength {
			c := k[0]
			if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
				m.code += k
			}
		}
	}
	return m, nil
}

// View renders the lobby.
func (m LobbyModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  G R O V E  "), m.width))
	b.WriteString("\n\n")

	if m.entering {
		b.WriteString(centerText("Enter the room code:", m.width))
		b.WriteString("\n\n")
		display := m.code + strings.Repeat("_", joinCodeLength-len(m.code))
		b.WriteString(centerText(fmt.Sprintf("[ %s ]", display), m.width))
		b.WriteString("\n\n")
		b.WriteString(centerText(dimStyle.Render("Enter: Join  |  Esc: Back"), m.width))
		return b.String()
	}

	b.WriteString(centerText("Open a room", m.width))
	b.WriteString("\n\n")
	for i, mode := range m.modes {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+mode.Title, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render("r: recent runs  |  q: quit"), m.width))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// Selected returns the lobby choice, or nil if none was made.
func (m LobbyModel) Selected() *LobbySelection {
	return m.selected
}

// WantsRuns reports whether the user asked for the runs board.
func (m LobbyModel) WantsRuns() bool {
	return m.wantRuns
}

// IsQuitting returns true if user requested to quit.
func (m LobbyModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}
