package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-grove/internal/platform/tui"
	"github.com/vovakirdan/tui-grove/internal/registry"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagDefaultMode string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the grove SSH server",
	Long: `Start an SSH server that puts every connection in a shared room.

The first SSH command argument is the room code and the second the mode.
Sessions naming the same code share one world. Without arguments a
session starts in the lobby. Every closed room is recorded in --db.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.grove/host_key

Examples:
  grove serve                           # Listen on :23234 with auto-generated key
  grove serve --ssh :2222               # Listen on port 2222
  grove serve --preset fast             # Fast-growing trees in every room

Users can connect with:
  ssh -t localhost -p 23234             # lobby
  ssh -t localhost -p 23234 ABC123      # join or open room ABC123
  ssh -t localhost -p 23234 HILL hillclimb`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagDefaultMode, "mode", "grove", "Mode for rooms opened without one")
}

func runServe(_ *cobra.Command, _ []string) {
	requireMode(flagDefaultMode)

	logger := newLogger("grove")
	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		TickRate:    flagFPS,
		DefaultMode: flagDefaultMode,
		Factory:     registry.SchedulerFactory(schedulerOptions(logger.WithPrefix("grove-sim"))),
		Logger:      logger.WithPrefix("grove-ssh"),
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting grove SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with: ssh -t <host> -p <port> [code] [mode]")
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = server.Serve(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
