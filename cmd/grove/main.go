// grove is a terminal sandbox for deterministic 2D physics worlds where
// actors drive, trees grow and seeds spread.
//
// Usage:
//
//	grove list               - List available modes
//	grove play [mode]        - Open a local room and drive in it
//	grove serve              - Start SSH server for shared rooms
//	grove simulate <mode>    - Run a world headless and plot it
//	grove runs [mode]        - Show recorded runs
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible worlds
//	--db <path>         - Set database path (default: ~/.grove/runs.db)
//	--config <path>     - World config file (YAML or TOML)
//	--preset <name>     - Growth preset: normal, fast
//	--log-level <level> - debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-grove/internal/config"
	"github.com/vovakirdan/tui-grove/internal/registry"

	// Import modes to register them
	_ "github.com/vovakirdan/tui-grove/internal/games/grove"
	_ "github.com/vovakirdan/tui-grove/internal/games/hillclimb"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "grove",
	Short: "Grove - physics sandboxes in your terminal",
	Long: `Grove runs deterministic 2D physics worlds in the terminal. Actors
drive around, trees drop seeds that grow into new trees, and several
people can share a room over SSH.

Available commands:
  list      - Show all available modes
  play      - Open a local room
  serve     - Start SSH server for shared rooms
  simulate  - Run a world headless and plot it
  runs      - View recorded runs

Examples:
  grove list
  grove play grove
  grove play hillclimb --preset fast
  grove serve --ssh :2222
  grove simulate grove --ticks 3000 --actors 3
  grove runs grove`,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (ticks per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.grove/runs.db", "Path to runs database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a world config file (.yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "normal", "Growth preset: "+presetNames())
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(runsCmd)
}

// newLogger creates a stderr logger at the --log-level level.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func presetNames() string {
	names := make([]string, 0, len(config.Presets()))
	for _, p := range config.Presets() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

// schedulerOptions collects the world flags shared by every command.
func schedulerOptions(logger *log.Logger) registry.SchedulerOptions {
	preset, ok := config.ParsePreset(flagPreset)
	if !ok {
		fmt.Fprintf(os.Stderr, "Warning: unknown preset %q (want %s), using normal\n", flagPreset, presetNames())
		preset = config.PresetNormal
	}
	return registry.SchedulerOptions{
		ConfigPath: flagConfig,
		Preset:     preset,
		TickRate:   flagFPS,
		Logger:     logger,
	}
}

// resolveSeed turns the --seed flag into a concrete seed.
func resolveSeed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// requireMode exits when mode is not registered.
func requireMode(mode string) {
	if !registry.Exists(mode) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", mode)
		fmt.Fprintln(os.Stderr, "Run 'grove list' to see available modes.")
		os.Exit(1)
	}
}
