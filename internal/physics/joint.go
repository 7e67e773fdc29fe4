package physics

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/tui-grove/internal/core"
)

// Joint is a soft point-to-point constraint pulling anchor B toward anchor A.
//
// An anchor is the world center of the named shape, or the body center when
// the shape id is zero.
type Joint struct {
	ID     JointID
	BodyA  BodyID
	ShapeA ShapeID
	BodyB  BodyID
	ShapeB ShapeID

	Stiffness float64 // fraction of the separation removed per sub-step
	Damping   float64 // fraction of the relative anchor velocity removed
}

// Joint returns the joint with the given id.
func (w *World) Joint(id JointID) (*Joint, error) {
	j, ok := w.joints.get(uint64(id))
	if !ok {
		return nil, fmt.Errorf("physics: lookup: %v: %w", id, ErrJointNotFound)
	}
	return j, nil
}

// Joints returns all joints in creation order.
func (w *World) Joints() []*Joint {
	out := make([]*Joint, 0, len(w.jointOrder))
	for _, id := range w.jointOrder {
		if j, ok := w.joints.get(uint64(id)); ok {
			out = append(out, j)
		}
	}
	return out
}

// CreateJoint connects two bodies. shapeA and shapeB may be zero; otherwise
// each must belong to its body.
func (w *World) CreateJoint(a BodyID, shapeA ShapeID, b BodyID, shapeB ShapeID, stiffness, damping float64) (JointID, error) {
	return w.AddJoint(&Joint{
		BodyA:     a,
		ShapeA:    shapeA,
		BodyB:     b,
		ShapeB:    shapeB,
		Stiffness: stiffness,
		Damping:   damping,
	})
}

// AddJoint inserts j into the world and assigns its id.
func (w *World) AddJoint(j *Joint) (JointID, error) {
	if j == nil {
		return 0, fmt.Errorf("physics: add joint: %w: nil joint", ErrInvalidJoint)
	}
	ba, err := w.Body(j.BodyA)
	if err != nil {
		return 0, fmt.Errorf("physics: add joint: %w", err)
	}
	bb, err := w.Body(j.BodyB)
	if err != nil {
		return 0, fmt.Errorf("physics: add joint: %w", err)
	}
	if j.BodyA == j.BodyB {
		return 0, fmt.Errorf("physics: add joint: %w: %v joined to itself", ErrInvalidJoint, j.BodyA)
	}
	if j.ShapeA != 0 {
		if _, ok := ba.Shape(j.ShapeA); !ok {
			return 0, fmt.Errorf("physics: add joint: %w: %v is not on %v", ErrInvalidJoint, j.ShapeA, j.BodyA)
		}
	}
	if j.ShapeB != 0 {
		if _, ok := bb.Shape(j.ShapeB); !ok {
			return 0, fmt.Errorf("physics: add joint: %w: %v is not on %v", ErrInvalidJoint, j.ShapeB, j.BodyB)
		}
	}

	id := JointID(w.joints.insert(j))
	j.ID = id
	w.jointOrder = append(w.jointOrder, id)
	return id, nil
}

// RemoveJoint deletes a joint.
func (w *World) RemoveJoint(id JointID) error {
	if !w.joints.remove(uint64(id)) {
		return fmt.Errorf("physics: remove joint: %v: %w", id, ErrJointNotFound)
	}
	if i := slices.Index(w.jointOrder, id); i >= 0 {
		w.jointOrder = slices.Delete(w.jointOrder, i, i+1)
	}
	return nil
}

// removeJointsOf drops every joint touching one of the given bodies.
func (w *World) removeJointsOf(bodies []BodyID) {
	kept := w.jointOrder[:0]
	for _, id := range w.jointOrder {
		j, ok := w.joints.get(uint64(id))
		if !ok {
			continue
		}
		if slices.Contains(bodies, j.BodyA) || slices.Contains(bodies, j.BodyB) {
			w.joints.remove(uint64(id))
			continue
		}
		kept = append(kept, id)
	}
	w.jointOrder = kept
}

// anchor returns the world-space anchor of one side of a joint.
func anchor(b *Body, shape ShapeID) core.Vec2 {
	if shape != 0 {
		if s, ok := b.Shape(shape); ok {
			return s.WorldCenter(b)
		}
	}
	return b.Center
}

// Anchors returns the joint's two anchor points in world space.
func (w *World) Anchors(j *Joint) (core.Vec2, core.Vec2, error) {
	ba, err := w.Body(j.BodyA)
	if err != nil {
		return core.Vec2{}, core.Vec2{}, fmt.Errorf("physics: anchors: %w", err)
	}
	bb, err := w.Body(j.BodyB)
	if err != nil {
		return core.Vec2{}, core.Vec2{}, fmt.Errorf("physics: anchors: %w", err)
	}
	return anchor(ba, j.ShapeA), anchor(bb, j.ShapeB), nil
}

// generalized inverse mass of a body at lever arm r along direction n.
func effectiveInvMass(b *Body, r, n core.Vec2) float64 {
	if b.invMass == 0 {
		return 0
	}
	rn := r.Cross(n)
	return b.invMass + rn*rn*b.invInertia
}

// solveJoints applies one position-based correction per joint.
func (w *World) solveJoints(dt float64) {
	for _, id := range w.jointOrder {
		j, ok := w.joints.get(uint64(id))
		if !ok {
			continue
		}
		ba, okA := w.bodies.get(uint64(j.BodyA))
		bb, okB := w.bodies.get(uint64(j.BodyB))
		if !okA || !okB {
			continue
		}
		solveJoint(j, ba, bb, dt)
	}
}

func solveJoint(j *Joint, ba, bb *Body, dt float64) {
	pa, pb := anchor(ba, j.ShapeA), anchor(bb, j.ShapeB)
	delta := pa.Sub(pb)
	dist := delta.Len()
	if dist < core.Epsilon {
		return
	}
	n := delta.Scale(1 / dist)

	ra := pa.Sub(ba.CenterOfMass())
	rb := pb.Sub(bb.CenterOfMass())
	wa := effectiveInvMass(ba, ra, n)
	wb := effectiveInvMass(bb, rb, n)
	total := wa + wb
	if total == 0 {
		return
	}

	lambda := j.Stiffness * dist / total
	p := n.Scale(lambda)
	shiftBody(ba, p.Neg(), ra, dt)
	shiftBody(bb, p, rb, dt)

	if j.Damping > 0 && dt > 0 {
		va := ba.Velocity.Add(core.CrossScalar(ba.AngularVelocity, ra))
		vb := bb.Velocity.Add(core.CrossScalar(bb.AngularVelocity, rb))
		vrel := vb.Sub(va).Dot(n)
		impulse := n.Scale(j.Damping * vrel / total)
		ba.applyImpulse(impulse, ra)
		bb.applyImpulse(impulse.Neg(), rb)
	}
}

// shiftBody moves a dynamic body by a positional correction p applied at
// lever arm r and folds the displacement into its velocity, so the
// correction is not undone by the next integration. Any movement wakes the
// body.
func shiftBody(b *Body, p, r core.Vec2, dt float64) {
	if b.invMass == 0 {
		return
	}
	dx := p.Scale(b.invMass)
	dtheta := r.Cross(p) * b.invInertia
	b.Center = b.Center.Add(dx)
	b.rotate(dtheta)
	if dt > 0 {
		b.Velocity = b.Velocity.Add(dx.Scale(1 / dt))
		b.AngularVelocity += dtheta / dt
	}
	b.Wake()
}
