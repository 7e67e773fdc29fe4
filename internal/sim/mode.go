package sim

import (
	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/physics"
)

// Mode supplies the world layout and the per-actor rules of one game.
// The scheduler owns the world; a mode only mutates it from inside these
// calls.
type Mode interface {
	// ID returns the unique identifier for this mode (e.g., "grove").
	ID() string

	// Title returns the display name.
	Title() string

	// BuildWorld adds the static scenery and any initial bodies.
	BuildWorld(w *physics.World, s *Scheduler) error

	// SpawnActor creates the body set of a joining actor. slot counts joins
	// and is never reused, so actors can be spread out.
	SpawnActor(w *physics.World, id core.ActorID, slot int) (Binding, error)

	// Control applies one tick of input to an actor.
	Control(w *physics.World, b Binding, c core.Controls) error

	// Facing returns the unit direction projectiles leave the actor in.
	// A zero vector means the actor has no facing this tick.
	Facing(w *physics.World, b Binding) (core.Vec2, error)
}

// Binding maps an actor to the bodies and shapes that make up its entity.
type Binding struct {
	Actor   core.ActorID
	Primary physics.BodyID
	Bodies  []physics.BodyID
	Shapes  map[string]physics.ShapeID
}

// Shape returns the shape bound to a role.
func (b Binding) Shape(role string) (physics.ShapeID, bool) {
	id, ok := b.Shapes[role]
	return id, ok
}
