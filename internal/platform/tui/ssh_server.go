package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/multiplayer"
	"github.com/vovakirdan/tui-grove/internal/storage"
)

// shutdownGrace bounds how long Serve waits for open sessions on exit.
const shutdownGrace = 10 * time.Second

// SSHServerConfig configures the room host. Zero fields take the values of
// DefaultSSHServerConfig.
type SSHServerConfig struct {
	Address string

	// HostKeyPath defaults to ~/.grove/host_key, generated on first start.
	HostKeyPath string

	// DBPath is where closed rooms are recorded. An unusable path disables
	// run history rather than failing the server.
	DBPath string

	IdleTimeout time.Duration

	// TickRate is the room tick rate in Hz.
	TickRate int

	// DefaultMode is used when a session names no mode.
	DefaultMode string

	// Factory builds the scheduler of each new room.
	Factory multiplayer.SchedulerFactory

	Logger *log.Logger
}

// DefaultSSHServerConfig returns the settings used by `grove serve`.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.grove/runs.db",
		IdleTimeout: 30 * time.Minute,
		TickRate:    60,
		DefaultMode: "grove",
	}
}

func (c SSHServerConfig) withDefaults() SSHServerConfig {
	d := DefaultSSHServerConfig()
	if c.Address == "" {
		c.Address = d.Address
	}
	if c.DBPath == "" {
		c.DBPath = d.DBPath
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = d.IdleTimeout
	}
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	if c.DefaultMode == "" {
		c.DefaultMode = d.DefaultMode
	}
	if c.Logger == nil {
		c.Logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "grove-ssh",
		})
	}
	return c
}

// SSHServer hosts rooms over SSH. Every connection gets its own Bubble Tea
// program; all of them share one coordinator.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	sessions *multiplayer.SessionRegistry
	coord    *multiplayer.Coordinator
	logger   *log.Logger
}

// NewSSHServer prepares the server without listening.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Factory == nil {
		return nil, errors.New("ssh: no scheduler factory configured")
	}
	cfg = cfg.withDefaults()
	logger := cfg.Logger

	hostKey, err := resolveHostKey(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("run history disabled", "db", cfg.DBPath, "error", err)
		store = nil
	}

	sessions := multiplayer.NewSessionRegistry()
	coord := multiplayer.NewCoordinator(multiplayer.CoordinatorConfig{
		TickRate:    cfg.TickRate,
		DefaultMode: cfg.DefaultMode,
	}, cfg.Factory, sessions)
	coord.SetLogger(logger.WithPrefix("grove-rooms"))
	if store != nil {
		coord.SetRunSaver(store)
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		sessions: sessions,
		coord:    coord,
		logger:   logger,
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKey),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("ssh: create server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// resolveHostKey returns the host key path, making sure its directory
// exists. Wish generates the key itself when the file is missing.
func resolveHostKey(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("ssh: host key: %w", err)
		}
		path = filepath.Join(home, ".grove", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("ssh: host key: %w", err)
	}
	return path, nil
}

// teaHandler creates a Bubble Tea program for each SSH session. The first
// command argument names the room to join and the second its mode, so
// `ssh -t host ABC123 hillclimb` opens or joins room ABC123. Without
// arguments the session starts in the lobby.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}

	id := multiplayer.SessionID(fmt.Sprintf("%s-%d", sshSession.User(), time.Now().UnixNano()))
	session := multiplayer.NewChannelSession(id, multiplayer.DefaultEventBuffer)
	s.sessions.Register(session)

	go func() {
		<-sshSession.Context().Done()
		s.coord.Send(multiplayer.SessionDisconnectedMsg{SessionID: id})
		session.Close()
		s.sessions.Unregister(id)
		if n := session.Dropped(); n > 0 {
			s.logger.Debug("viewer fell behind", "session", id, "dropped_snapshots", n)
		}
	}()

	model := NewSessionModel(s.coord, session, s.store, cfg, selectionFromArgs(sshSession.Command()))
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// selectionFromArgs reads a room code and an optional mode from the SSH
// command line.
func selectionFromArgs(args []string) *LobbySelection {
	if len(args) == 0 {
		return nil
	}
	sel := &LobbySelection{Code: strings.ToUpper(strings.TrimSpace(args[0]))}
	if len(args) > 1 {
		sel.Mode = strings.TrimSpace(args[1])
	}
	return sel
}

// loggingMiddleware logs connects and disconnects with the requested room.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		s.logger.Info("viewer connected",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"args", sshSession.Command(),
		)
		next(sshSession)
		s.logger.Info("viewer disconnected",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// Serve accepts connections until ctx is cancelled, then shuts down. Open
// rooms are closed and their results saved before the database is released.
func (s *SSHServer) Serve(ctx context.Context) error {
	s.logger.Info("listening", "address", s.config.Address, "default_mode", s.config.DefaultMode)
	s.coord.Start()

	errc := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		s.logger.Info("shutting down")
	case err := <-errc:
		if err != nil {
			s.logger.Error("server stopped", "error", err)
			serveErr = err
		}
	}

	if err := s.shutdown(); err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}

func (s *SSHServer) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.coord.Stop()
	if s.store != nil {
		s.store.Close()
	}
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}
