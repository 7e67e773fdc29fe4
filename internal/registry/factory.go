package registry

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-grove/internal/config"
	"github.com/vovakirdan/tui-grove/internal/sim"
)

// SchedulerOptions controls how NewScheduler configures a world.
type SchedulerOptions struct {
	ConfigPath string        // Optional config file layered over the mode defaults
	Preset     config.Preset // Growth preset
	TickRate   int           // Ticks per second; 0 keeps the world default
	Logger     *log.Logger   // Optional
}

// NewScheduler loads the configuration for mode, creates the mode and a
// scheduler around it, and builds its world. No actors are joined.
func NewScheduler(mode string, seed int64, opts SchedulerOptions) (*sim.Scheduler, error) {
	if !Exists(mode) {
		return nil, fmt.Errorf("registry: unknown mode %q", mode)
	}
	cfg, err := config.Load(mode, opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("registry: config for %s: %w", mode, err)
	}
	config.ApplyPreset(&cfg, opts.Preset)

	m, err := Create(mode, cfg)
	if err != nil {
		return nil, err
	}

	simOpts := []sim.Option{sim.WithLogger(opts.Logger)}
	if opts.TickRate > 0 {
		simOpts = append(simOpts, sim.WithTimeStep(1/float64(opts.TickRate)))
	}
	s := sim.New(m, cfg, seed, simOpts...)
	if err := s.Setup(nil); err != nil {
		return nil, err
	}
	return s, nil
}

// SchedulerFactory returns a factory with fixed options, in the shape room
// hosts expect.
func SchedulerFactory(opts SchedulerOptions) func(mode string, seed int64) (*sim.Scheduler, error) {
	return func(mode string, seed int64) (*sim.Scheduler, error) {
		return NewScheduler(mode, seed, opts)
	}
}
