package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/multiplayer"
	"github.com/vovakirdan/tui-grove/internal/storage"
)

// localSessionID names the single session of an in-process host.
const localSessionID multiplayer.SessionID = "local"

// PlayConfig holds what an in-process host needs.
type PlayConfig struct {
	Mode    string // Opens a room for this mode; empty shows the lobby
	Code    string // Optional room code
	Runtime core.RuntimeConfig
	Factory multiplayer.SchedulerFactory
	Store   *storage.Store // Optional, records closed rooms
	Logger  *log.Logger    // Optional
}

// Play hosts rooms in-process and attaches the terminal to them. It runs
// the same coordinator and rooms the SSH server does, with one session.
func Play(cfg PlayConfig) error {
	if cfg.Factory == nil {
		return fmt.Errorf("tui: play: no scheduler factory")
	}

	coordCfg := multiplayer.DefaultCoordinatorConfig()
	if cfg.Runtime.TickRate > 0 {
		coordCfg.TickRate = cfg.Runtime.TickRate
	}
	if cfg.Mode != "" {
		coordCfg.DefaultMode = cfg.Mode
	}

	sessions := multiplayer.NewSessionRegistry()
	coord := multiplayer.NewCoordinator(coordCfg, cfg.Factory, sessions)
	coord.SetLogger(cfg.Logger)
	if cfg.Store != nil {
		coord.SetRunSaver(cfg.Store)
	}
	coord.Start()
	defer coord.Stop()

	session := multiplayer.NewChannelSession(localSessionID, multiplayer.DefaultEventBuffer)
	sessions.Register(session)
	defer func() {
		coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: session.ID()})
		session.Close()
		sessions.Unregister(session.ID())
	}()

	var initial *LobbySelection
	if cfg.Mode != "" || cfg.Code != "" {
		initial = &LobbySelection{Mode: cfg.Mode, Code: cfg.Code}
	}

	model := NewSessionModel(coord, session, cfg.Store, cfg.Runtime, initial)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
