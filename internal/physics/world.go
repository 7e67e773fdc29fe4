// Package physics is a small deterministic 2D rigid-body engine: circle and
// rectangle shapes, sensors, static and dynamic bodies, soft joints, an
// exclusion registry and a fixed-timestep stepper.
//
// Everything iterates over insertion-ordered slices, never maps, and nothing
// reads the clock or a random source, so identical inputs produce
// bit-identical worlds.
package physics

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/tui-grove/internal/core"
)

// Params holds the global simulation parameters of a World.
type Params struct {
	Gravity        core.Vec2
	Damping        float64 // linear velocity factor applied per step
	AngularDamping float64 // angular velocity factor applied per step
	TimeStep       float64 // seconds advanced by one Step
	RestThreshold  float64 // seconds below RestVelocity before a body rests
	RestVelocity   float64 // speed (px/s) under which a body counts as still
	Slop           float64 // penetration allowed before positional correction
}

// DefaultParams returns parameters tuned for pixel-scale worlds at 60 Hz.
func DefaultParams() Params {
	return Params{
		Gravity:        core.V(0, 100),
		Damping:        0.99,
		AngularDamping: 0.95,
		TimeStep:       1.0 / 60,
		RestThreshold:  1.0,
		RestVelocity:   2.0,
		Slop:           0.05,
	}
}

// World owns every body, shape and joint plus the exclusion registry.
// It is not safe for concurrent use; the scheduler that owns it mutates it
// only between steps.
type World struct {
	Params

	// Frame counts completed steps.
	Frame uint64

	bodies arena[*Body]
	shapes arena[*Shape]
	joints arena[*Joint]

	static     []BodyID
	dynamic    []BodyID
	jointOrder []JointID

	exclusions map[BodyID]map[BodyID]struct{}
}

// NewWorld creates an empty world.
func NewWorld(p Params) *World {
	if p.TimeStep <= 0 {
		p.TimeStep = 1.0 / 60
	}
	return &World{
		Params:     p,
		exclusions: make(map[BodyID]map[BodyID]struct{}),
	}
}

// AddBody inserts b into the world, assigning ids to the body and its shapes.
func (w *World) AddBody(b *Body) (BodyID, error) {
	if b == nil {
		return 0, fmt.Errorf("physics: add body: %w: nil body", ErrInvalidBody)
	}
	if b.ID != 0 {
		return 0, fmt.Errorf("physics: add body: %w: already added as %v", ErrInvalidBody, b.ID)
	}
	if err := b.updateMassProperties(); err != nil {
		return 0, fmt.Errorf("physics: add body: %w", err)
	}

	id := BodyID(w.bodies.insert(b))
	b.ID = id
	for _, s := range b.Shapes {
		s.ID = ShapeID(w.shapes.insert(s))
		s.Body = id
		s.SensorHits = s.SensorHits[:0]
	}

	if b.Kind == Static {
		w.static = append(w.static, id)
	} else {
		w.dynamic = append(w.dynamic, id)
	}
	return id, nil
}

// Body returns the body with the given id.
func (w *World) Body(id BodyID) (*Body, error) {
	b, ok := w.bodies.get(uint64(id))
	if !ok {
		return nil, fmt.Errorf("physics: lookup: %v: %w", id, ErrBodyNotFound)
	}
	return b, nil
}

// HasBody reports whether id refers to a live body.
func (w *World) HasBody(id BodyID) bool {
	_, ok := w.bodies.get(uint64(id))
	return ok
}

// Shape returns the shape with the given id.
func (w *World) Shape(id ShapeID) (*Shape, error) {
	s, ok := w.shapes.get(uint64(id))
	if !ok {
		return nil, fmt.Errorf("physics: lookup: %v: %w", id, ErrShapeNotFound)
	}
	return s, nil
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	return w.bodies.len()
}

// StaticBodies returns the static bodies in insertion order.
func (w *World) StaticBodies() []*Body {
	return w.resolveAll(w.static)
}

// DynamicBodies returns the dynamic bodies in insertion order.
func (w *World) DynamicBodies() []*Body {
	return w.resolveAll(w.dynamic)
}

// Bodies returns all bodies: static ones first, then dynamic, each group in
// insertion order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, 0, len(w.static)+len(w.dynamic))
	out = append(out, w.resolveAll(w.static)...)
	return append(out, w.resolveAll(w.dynamic)...)
}

func (w *World) resolveAll(ids []BodyID) []*Body {
	out := make([]*Body, 0, len(ids))
	for _, id := range ids {
		if b, ok := w.bodies.get(uint64(id)); ok {
			out = append(out, b)
		}
	}
	return out
}

// RemoveBody removes a body, its shapes, every joint referencing it and all
// of its exclusion entries.
func (w *World) RemoveBody(id BodyID) error {
	return w.RemoveBodies(id)
}

// RemoveBodies removes several bodies as one operation. Every id is checked
// before anything is mutated, so an unknown id leaves the world untouched.
func (w *World) RemoveBodies(ids ...BodyID) error {
	unique := make([]BodyID, 0, len(ids))
	for _, id := range ids {
		if slices.Contains(unique, id) {
			continue
		}
		if !w.HasBody(id) {
			return fmt.Errorf("physics: remove body: %v: %w", id, ErrBodyNotFound)
		}
		unique = append(unique, id)
	}

	w.removeJointsOf(unique)
	for _, id := range unique {
		w.dropExclusions(id)

		b, _ := w.bodies.get(uint64(id))
		for _, s := range b.Shapes {
			w.shapes.remove(uint64(s.ID))
		}
		if b.Kind == Static {
			w.static = deleteID(w.static, id)
		} else {
			w.dynamic = deleteID(w.dynamic, id)
		}
		w.bodies.remove(uint64(id))
	}
	return nil
}

func deleteID(ids []BodyID, id BodyID) []BodyID {
	if i := slices.Index(ids, id); i >= 0 {
		return slices.Delete(ids, i, i+1)
	}
	return ids
}

// SetCircleRadius resizes a circle shape and refreshes its body's bounds and
// mass properties.
func (w *World) SetCircleRadius(id ShapeID, radius float64) error {
	s, err := w.Shape(id)
	if err != nil {
		return fmt.Errorf("physics: resize: %w", err)
	}
	if s.Kind != ShapeCircle {
		return fmt.Errorf("physics: resize: %v is a %v: %w", id, s.Kind, ErrInvalidBody)
	}
	b, err := w.Body(s.Body)
	if err != nil {
		return fmt.Errorf("physics: resize: %w", err)
	}
	s.Radius = radius
	return b.updateMassProperties()
}

// clearSensors empties every shape's SensorHits list.
func (w *World) clearSensors() {
	for _, group := range [][]BodyID{w.static, w.dynamic} {
		for _, id := range group {
			b, _ := w.bodies.get(uint64(id))
			for _, s := range b.Shapes {
				s.SensorHits = s.SensorHits[:0]
			}
		}
	}
}

// IsResting reports whether a dynamic body has been still for longer than
// the world's rest threshold.
func (w *World) IsResting(b *Body) bool {
	return b.Kind == Dynamic && b.RestingTime > w.RestThreshold
}

func (w *World) awake(b *Body) bool {
	return b.Kind == Dynamic && !w.IsResting(b)
}
