package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/platform/tui"
	"github.com/vovakirdan/tui-grove/internal/registry"
	"github.com/vovakirdan/tui-grove/internal/sim"
	"github.com/vovakirdan/tui-grove/internal/storage"
)

var flagRoomCode string

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Open a local room",
	Long: `Open a room in this terminal and drive an actor in it. Without a
mode the lobby lists every mode. The room is recorded when it closes.

Controls:
  Arrows/WASD  - Steer (keys repeat while held)
  Space        - Release controls
  +/-          - Zoom
  Ctrl+S       - Screenshot to ~/.grove/screenshots
  Esc          - Leave the room
  Q/Ctrl+C     - Quit

Examples:
  grove play
  grove play grove --preset fast
  grove play hillclimb --seed 42
  grove play grove --config ./my-grove.toml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagRoomCode, "code", "", "Room code (random if empty)")
}

func runPlay(cmd *cobra.Command, args []string) {
	mode := ""
	if len(args) == 1 {
		mode = args[0]
		requireMode(mode)
	}

	cfg := core.DefaultConfig()
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}

	// The alt screen owns the terminal, so rooms log nowhere.
	logger := log.New(io.Discard)
	opts := schedulerOptions(logger)
	factory := registry.SchedulerFactory(opts)
	if flagSeed != 0 {
		// A fixed seed makes every room of this process replay the same world.
		factory = func(m string, _ int64) (*sim.Scheduler, error) {
			return registry.NewScheduler(m, flagSeed, opts)
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open runs database: %v\n", err)
		// Continue without storage
		store = nil
	}

	runErr := tui.Play(tui.PlayConfig{
		Mode:    mode,
		Code:    flagRoomCode,
		Runtime: cfg,
		Factory: factory,
		Store:   store,
		Logger:  logger,
	})

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running room: %v\n", runErr)
		os.Exit(1)
	}
}
