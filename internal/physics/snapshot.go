package physics

import "github.com/vovakirdan/tui-grove/internal/core"

// ShapeState is a read-only copy of a shape in world space.
type ShapeState struct {
	ID     ShapeID
	Kind   ShapeKind
	Center core.Vec2
	Angle  float64
	Radius float64
	Width  float64
	Height float64
	Sensor bool
	Hits   int
}

// BodyState is a read-only copy of a body.
type BodyState struct {
	ID              BodyID
	Kind            BodyKind
	Center          core.Vec2
	Angle           float64
	Velocity        core.Vec2
	AngularVelocity float64
	RestingTime     float64
	Resting         bool
	Shapes          []ShapeState
	Tag             any // shared with the live body, not copied
}

// JointState is a read-only copy of a joint with resolved anchors.
type JointState struct {
	ID      JointID
	BodyA   BodyID
	BodyB   BodyID
	AnchorA core.Vec2
	AnchorB core.Vec2
}

// Snapshot is a copy of the world's geometry and motion. Body tags are
// carried by reference; their owner detaches them when it needs to.
type Snapshot struct {
	Frame      uint64
	Bodies     []BodyState
	Joints     []JointState
	Exclusions int
}

// Body returns the state of the body with the given id.
func (s Snapshot) Body(id BodyID) (BodyState, bool) {
	for _, b := range s.Bodies {
		if b.ID == id {
			return b, true
		}
	}
	return BodyState{}, false
}

// Snapshot copies the current world state. Bodies are listed static first,
// then dynamic, each in insertion order.
func (w *World) Snapshot() Snapshot {
	snap := Snapshot{
		Frame:      w.Frame,
		Exclusions: len(w.exclusions),
	}
	for _, b := range w.Bodies() {
		bs := BodyState{
			ID:              b.ID,
			Kind:            b.Kind,
			Center:          b.Center,
			Angle:           b.Angle,
			Velocity:        b.Velocity,
			AngularVelocity: b.AngularVelocity,
			RestingTime:     b.RestingTime,
			Resting:         w.IsResting(b),
			Tag:             b.Tag,
			Shapes:          make([]ShapeState, 0, len(b.Shapes)),
		}
		for _, s := range b.Shapes {
			bs.Shapes = append(bs.Shapes, ShapeState{
				ID:     s.ID,
				Kind:   s.Kind,
				Center: s.WorldCenter(b),
				Angle:  s.WorldAngle(b),
				Radius: s.Radius,
				Width:  s.Width,
				Height: s.Height,
				Sensor: s.Sensor,
				Hits:   len(s.SensorHits),
			})
		}
		snap.Bodies = append(snap.Bodies, bs)
	}
	for _, j := range w.Joints() {
		pa, pb, err := w.Anchors(j)
		if err != nil {
			continue
		}
		snap.Joints = append(snap.Joints, JointState{
			ID:      j.ID,
			BodyA:   j.BodyA,
			BodyB:   j.BodyB,
			AnchorA: pa,
			AnchorB: pb,
		})
	}
	return snap
}
