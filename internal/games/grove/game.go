// Package grove implements a top-down walled arena where trees spread by
// seed. Each actor steers a rover that fires projectiles along its heading.
package grove

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-grove/internal/config"
	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/physics"
	"github.com/vovakirdan/tui-grove/internal/registry"
	"github.com/vovakirdan/tui-grove/internal/sim"
)

const (
	// SpawnRing is the distance of rover spawn points from the arena center.
	SpawnRing = 100.0
	// goldenAngle spreads successive slots around the ring without repeats.
	goldenAngle = math.Pi * (3 - 2.23606797749979)
	noseGap     = 2.0
	noseRadius  = 3.0
)

// Binding roles
const (
	RoleHull = "hull"
	RoleNose = "nose"
)

// Game implements sim.Mode for the grove arena.
type Game struct {
	cfg config.WorldConfig
}

// New creates a grove mode.
func New(cfg config.WorldConfig) *Game {
	return &Game{cfg: config.Normalize(cfg)}
}

// ID returns the unique identifier for this mode.
func (g *Game) ID() string {
	return "grove"
}

// Title returns the display name for this mode.
func (g *Game) Title() string {
	return "Grove"
}

// BuildWorld walls the arena in and plants the initial trees.
func (g *Game) BuildWorld(w *physics.World, s *sim.Scheduler) error {
	a := g.cfg.Arena
	if a.Wall > 0 {
		walls := []struct {
			center core.Vec2
			w, h   float64
		}{
			{core.V(a.Width/2, a.Wall/2), a.Width, a.Wall},
			{core.V(a.Width/2, a.Height-a.Wall/2), a.Width, a.Wall},
			{core.V(a.Wall/2, a.Height/2), a.Wall, a.Height},
			{core.V(a.Width-a.Wall/2, a.Height/2), a.Wall, a.Height},
		}
		for _, wall := range walls {
			body := physics.NewStatic(wall.center, physics.NewRectangle(core.Vec2{}, wall.w, wall.h, 0))
			body.Friction = g.cfg.Physics.Friction
			if _, err := w.AddBody(body); err != nil {
				return fmt.Errorf("grove: wall: %w", err)
			}
		}
	}

	margin := a.Wall + g.cfg.Growth.InitialRadius
	rng := s.RNG()
	for range g.cfg.Growth.InitialTrees {
		pos := core.V(
			margin+rng.Float64()*(a.Width-2*margin),
			margin+rng.Float64()*(a.Height-2*margin),
		)
		if _, err := s.PlantTree(pos); err != nil {
			return fmt.Errorf("grove: tree: %w", err)
		}
	}
	return nil
}

// SpawnPoint returns the spawn position for a join slot.
func (g *Game) SpawnPoint(slot int) core.Vec2 {
	center := core.V(g.cfg.Arena.Width/2, g.cfg.Arena.Height/2)
	return center.Add(core.FromAngle(float64(slot) * goldenAngle).Scale(SpawnRing))
}

// SpawnActor creates a rover: a solid hull with a small sensor at its nose.
func (g *Game) SpawnActor(w *physics.World, _ core.ActorID, slot int) (sim.Binding, error) {
	r := g.cfg.Actor.Radius
	hull := physics.NewCircle(core.Vec2{}, r)
	nose := physics.NewCircle(core.V(r+noseGap, 0), noseRadius).AsSensor()

	rover := physics.NewDynamic(g.SpawnPoint(slot), g.cfg.Actor.Mass, hull, nose)
	rover.Friction = g.cfg.Physics.Friction
	id, err := w.AddBody(rover)
	if err != nil {
		return sim.Binding{}, fmt.Errorf("grove: rover: %w", err)
	}
	return sim.Binding{
		Primary: id,
		Bodies:  []physics.BodyID{id},
		Shapes: map[string]physics.ShapeID{
			RoleHull: hull.ID,
			RoleNose: nose.ID,
		},
	}, nil
}

// Control steers the rover toward the control direction and accelerates
// along it, up to the configured top speed.
func (g *Game) Control(w *physics.World, b sim.Binding, c core.Controls) error {
	rover, err := w.Body(b.Primary)
	if err != nil {
		return fmt.Errorf("grove: %w", err)
	}

	a := g.cfg.Actor
	in := c.Clamped().Vec()
	if in.Len() < a.Deadzone {
		return nil
	}
	if in.Len() > 1 {
		in = in.Normalize()
	}
	target, ok := in.Angle()
	if !ok {
		return nil
	}

	heading := core.LerpAngle(rover.Angle, target, a.TurnRate)
	physics.RotateBody(rover, core.WrapAngle(heading-rover.Angle))
	rover.AngularVelocity = 0

	v := rover.Velocity.Add(in.Scale(a.Accel * w.TimeStep))
	if speed := v.Len(); speed > a.MaxSpeed {
		v = v.Scale(a.MaxSpeed / speed)
	}
	rover.SetVelocity(v)
	return nil
}

// Facing points along the rover's heading.
func (g *Game) Facing(w *physics.World, b sim.Binding) (core.Vec2, error) {
	rover, err := w.Body(b.Primary)
	if err != nil {
		return core.Vec2{}, fmt.Errorf("grove: %w", err)
	}
	return core.FromAngle(rover.Angle), nil
}

func init() {
	registry.Register("grove", func(cfg config.WorldConfig) sim.Mode {
		return New(cfg)
	})
}
