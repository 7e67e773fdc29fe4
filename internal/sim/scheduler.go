// Package sim drives a physics world at a fixed rate: it applies buffered
// actor controls, expires projectiles and runs the seed and tree growth
// rules on top of the physics step.
package sim

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-grove/internal/config"
	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/physics"
)

var (
	// ErrUnknownActor is returned for operations on an actor that never
	// joined or already left.
	ErrUnknownActor = errors.New("unknown actor")
	// ErrActorExists is returned when an actor joins twice.
	ErrActorExists = errors.New("actor already joined")
	// ErrNotSetup is returned when ticking a scheduler before Setup.
	ErrNotSetup = errors.New("scheduler not set up")
	// ErrAlreadySetup is returned when Setup runs twice.
	ErrAlreadySetup = errors.New("scheduler already set up")
)

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for actor lifecycle events.
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTimeStep overrides the seconds advanced per tick.
func WithTimeStep(dt float64) Option {
	return func(s *Scheduler) {
		if dt > 0 {
			s.world.TimeStep = dt
		}
	}
}

// Scheduler owns a world and advances it one tick at a time.
// It is not safe for concurrent use; hosts serialize calls.
type Scheduler struct {
	mode   Mode
	cfg    config.WorldConfig
	world  *physics.World
	rng    *RNG
	inputs *core.InputBuffer
	logger *log.Logger

	actors   []core.ActorID // join order
	bindings map[core.ActorID]Binding
	nextSlot int
	ready    bool

	consumed []*physics.Shape
}

// New creates a scheduler for mode. The world is empty until Setup.
func New(mode Mode, cfg config.WorldConfig, seed int64, opts ...Option) *Scheduler {
	cfg = config.Normalize(cfg)
	p := physics.DefaultParams()
	p.Gravity = core.V(cfg.Physics.GravityX, cfg.Physics.GravityY)
	p.Damping = cfg.Physics.Damping
	p.AngularDamping = cfg.Physics.AngularDamping
	p.RestThreshold = cfg.Physics.RestThreshold
	p.RestVelocity = cfg.Physics.RestVelocity
	p.Slop = cfg.Physics.Slop

	s := &Scheduler{
		mode:     mode,
		cfg:      cfg,
		world:    physics.NewWorld(p),
		rng:      NewRNG(seed),
		inputs:   core.NewInputBuffer(),
		logger:   log.New(io.Discard),
		bindings: make(map[core.ActorID]Binding),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mode returns the game mode.
func (s *Scheduler) Mode() Mode { return s.mode }

// Config returns the normalized world configuration.
func (s *Scheduler) Config() config.WorldConfig { return s.cfg }

// World returns the live world. Callers must not mutate it while a tick
// may run.
func (s *Scheduler) World() *physics.World { return s.world }

// RNG returns the scheduler's seeded generator.
func (s *Scheduler) RNG() *RNG { return s.rng }

// Frame returns the current frame counter.
func (s *Scheduler) Frame() uint64 { return s.world.Frame }

// Setup builds the world and joins the initial actors in order.
func (s *Scheduler) Setup(actors []core.ActorID) error {
	if s.ready {
		return fmt.Errorf("sim: setup: %w", ErrAlreadySetup)
	}
	if err := s.mode.BuildWorld(s.world, s); err != nil {
		return fmt.Errorf("sim: setup %s: %w", s.mode.ID(), err)
	}
	s.ready = true
	for _, id := range actors {
		if err := s.ActorJoined(id); err != nil {
			return err
		}
	}
	return nil
}

// ActorJoined spawns the actor's body set and binds it.
func (s *Scheduler) ActorJoined(id core.ActorID) error {
	if !s.ready {
		return fmt.Errorf("sim: join %q: %w", id, ErrNotSetup)
	}
	if _, ok := s.bindings[id]; ok {
		return fmt.Errorf("sim: join %q: %w", id, ErrActorExists)
	}
	b, err := s.mode.SpawnActor(s.world, id, s.nextSlot)
	if err != nil {
		return fmt.Errorf("sim: join %q: %w", id, err)
	}
	b.Actor = id
	s.nextSlot++
	s.bindings[id] = b
	s.actors = append(s.actors, id)
	s.logger.Debug("actor joined", "actor", id, "bodies", len(b.Bodies), "frame", s.world.Frame)
	return nil
}

// ActorLeft removes the actor's bodies, cascading joints and exclusions,
// and drops its buffered input.
func (s *Scheduler) ActorLeft(id core.ActorID) error {
	b, ok := s.bindings[id]
	if !ok {
		return fmt.Errorf("sim: leave %q: %w", id, ErrUnknownActor)
	}
	if err := s.world.RemoveBodies(b.Bodies...); err != nil {
		return fmt.Errorf("sim: leave %q: %w", id, err)
	}
	delete(s.bindings, id)
	if i := slices.Index(s.actors, id); i >= 0 {
		s.actors = slices.Delete(s.actors, i, i+1)
	}
	s.inputs.Drop(id)
	s.logger.Debug("actor left", "actor", id, "frame", s.world.Frame)
	return nil
}

// SubmitControls buffers the actor's latest control vector. Only the last
// value submitted before a tick is applied.
func (s *Scheduler) SubmitControls(id core.ActorID, c core.Controls) error {
	if _, ok := s.bindings[id]; !ok {
		return fmt.Errorf("sim: controls %q: %w", id, ErrUnknownActor)
	}
	s.inputs.Submit(id, c)
	return nil
}

// Actors returns the joined actors in join order.
func (s *Scheduler) Actors() []core.ActorID {
	return slices.Clone(s.actors)
}

// Binding returns the actor's binding.
func (s *Scheduler) Binding(id core.ActorID) (Binding, error) {
	b, ok := s.bindings[id]
	if !ok {
		return Binding{}, fmt.Errorf("sim: binding %q: %w", id, ErrUnknownActor)
	}
	return b, nil
}

// Tick runs one full simulation tick. An error leaves the tick incomplete
// and is fatal to the session.
func (s *Scheduler) Tick() error {
	if !s.ready {
		return fmt.Errorf("sim: tick: %w", ErrNotSetup)
	}

	if err := physics.Step(s.world, s.cfg.Physics.Substeps); err != nil {
		return fmt.Errorf("sim: tick: %w", err)
	}
	if err := s.expire(); err != nil {
		return fmt.Errorf("sim: tick %d: %w", s.world.Frame, err)
	}
	if s.cfg.Growth.Enabled {
		if err := s.grow(); err != nil {
			return fmt.Errorf("sim: tick %d: %w", s.world.Frame, err)
		}
	}
	s.clearConsumed()
	if err := s.applyControls(); err != nil {
		return fmt.Errorf("sim: tick %d: %w", s.world.Frame, err)
	}
	if s.cfg.Projectiles.Enabled && s.world.Frame%uint64(s.cfg.Projectiles.Every) == 0 { //#nosec G115 -- Every is normalized to >= 1
		if err := s.fire(); err != nil {
			return fmt.Errorf("sim: tick %d: %w", s.world.Frame, err)
		}
	}
	return nil
}

func (s *Scheduler) applyControls() error {
	for _, id := range s.actors {
		if err := s.mode.Control(s.world, s.bindings[id], s.inputs.Get(id)); err != nil {
			return fmt.Errorf("control %q: %w", id, err)
		}
	}
	return nil
}

func (s *Scheduler) clearConsumed() {
	for _, sh := range s.consumed {
		sh.SensorHits = sh.SensorHits[:0]
	}
	s.consumed = s.consumed[:0]
}
