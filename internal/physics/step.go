package physics

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-grove/internal/core"
)

// Step advances the world by one TimeStep split into substeps sub-steps.
//
// Sensor lists are cleared once up front, so after Step returns they hold
// every overlap seen in any sub-step of this step.
func Step(w *World, substeps int) error {
	if w == nil {
		return fmt.Errorf("physics: step: nil world")
	}
	if substeps < 1 {
		substeps = 1
	}

	w.clearSensors()

	dt := w.TimeStep / float64(substeps)
	inv := 1 / float64(substeps)
	damp := math.Pow(w.Damping, inv)
	angDamp := math.Pow(w.AngularDamping, inv)

	for range substeps {
		w.integrate(dt, damp, angDamp)
		w.solveJoints(dt)
		w.collidePairs()
		w.updateResting(dt)
	}

	w.Frame++
	return nil
}

func (w *World) integrate(dt, damp, angDamp float64) {
	for _, id := range w.dynamic {
		b, _ := w.bodies.get(uint64(id))
		if w.IsResting(b) {
			continue
		}
		b.Velocity = b.Velocity.Add(w.Gravity.Scale(dt)).Scale(damp)
		b.AngularVelocity *= angDamp
		b.Center = b.Center.Add(b.Velocity.Scale(dt))
		b.rotate(b.AngularVelocity * dt)
	}
}

func (w *World) updateResting(dt float64) {
	for _, id := range w.dynamic {
		b, _ := w.bodies.get(uint64(id))
		spin := math.Abs(b.AngularVelocity) * math.Max(b.bound, 1)
		if b.Speed() > w.RestVelocity || spin > w.RestVelocity {
			b.RestingTime = 0
			continue
		}
		b.RestingTime += dt
	}
}

// Overlaps tests the body's shapes against every other body it is not
// excluded from and returns the ids of the overlapping shapes, in body
// order and without duplicates. Nothing is resolved and no sensor list is
// touched.
func (w *World) Overlaps(id BodyID) ([]ShapeID, error) {
	probe, err := w.Body(id)
	if err != nil {
		return nil, fmt.Errorf("physics: overlaps: %w", err)
	}

	var hits []ShapeID
	for _, other := range w.Bodies() {
		if other.ID == id || w.Excluded(id, other.ID) {
			continue
		}
		reach := probe.bound + other.bound
		if probe.Center.Sub(other.Center).LenSq() > reach*reach {
			continue
		}
		for _, so := range other.Shapes {
			for _, sp := range probe.Shapes {
				if _, ok := Collide(sp, probe, so, other); ok {
					hits = append(hits, so.ID)
					break
				}
			}
		}
	}
	return hits, nil
}

// ShapesAt returns the shapes whose geometry contains point p, static bodies
// first.
func (w *World) ShapesAt(p core.Vec2) []ShapeID {
	dot := worldShape{kind: ShapeCircle, center: p, radius: core.Epsilon}
	var out []ShapeID
	for _, b := range w.Bodies() {
		for _, s := range b.Shapes {
			if _, ok := collideWorld(dot, resolveShape(s, b)); ok {
				out = append(out, s.ID)
			}
		}
	}
	return out
}
