package physics

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-grove/internal/core"
)

// BodyKind distinguishes immovable bodies from simulated ones.
type BodyKind uint8

const (
	Static BodyKind = iota
	Dynamic
)

// String returns a human-readable name for the body kind.
func (k BodyKind) String() string {
	switch k {
	case Static:
		return "static"
	case Dynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Default surface properties for new bodies.
const (
	DefaultFriction    = 0.5
	DefaultRestitution = 0.0
)

// Body is a rigid body made of one or more shapes.
//
// Static bodies never move under simulation. Dynamic bodies integrate
// velocity and respond to collisions and joints.
type Body struct {
	ID     BodyID
	Kind   BodyKind
	Center core.Vec2
	Angle  float64
	Shapes []*Shape

	// Tag is an opaque payload owned by the game-rule layer.
	Tag any

	Velocity        core.Vec2
	AngularVelocity float64
	Mass            float64
	Friction        float64
	Restitution     float64

	// RestingTime accumulates the seconds this body has spent below the
	// world's rest velocity. Any disturbance resets it to zero.
	RestingTime float64

	// COMOffset is the center of mass relative to Center, in body space.
	COMOffset core.Vec2

	invMass    float64
	inertia    float64
	invInertia float64
	bound      float64
}

// NewStatic creates a static body at center.
func NewStatic(center core.Vec2, shapes ...*Shape) *Body {
	return &Body{
		Kind:        Static,
		Center:      center,
		Shapes:      shapes,
		Friction:    DefaultFriction,
		Restitution: DefaultRestitution,
	}
}

// NewDynamic creates a dynamic body at center with the given total mass.
func NewDynamic(center core.Vec2, mass float64, shapes ...*Shape) *Body {
	return &Body{
		Kind:        Dynamic,
		Center:      center,
		Shapes:      shapes,
		Mass:        mass,
		Friction:    DefaultFriction,
		Restitution: DefaultRestitution,
	}
}

// IsStatic reports whether the body is static.
func (b *Body) IsStatic() bool {
	return b.Kind == Static
}

// Speed returns the magnitude of the linear velocity.
func (b *Body) Speed() float64 {
	return b.Velocity.Len()
}

// InvMass returns the inverse mass (zero for static bodies).
func (b *Body) InvMass() float64 {
	return b.invMass
}

// CenterOfMass returns the center of mass in world space.
func (b *Body) CenterOfMass() core.Vec2 {
	return b.Center.Add(b.COMOffset.Rotate(b.Angle))
}

// Shape returns the body's shape with the given id.
func (b *Body) Shape(id ShapeID) (*Shape, bool) {
	for _, s := range b.Shapes {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// Wake clears the resting counter so the body integrates again.
func (b *Body) Wake() {
	b.RestingTime = 0
}

// SetVelocity replaces the linear velocity and wakes the body.
func (b *Body) SetVelocity(v core.Vec2) {
	b.Velocity = v
	b.Wake()
}

// RotateBody turns the body by delta radians about its center of mass and
// wakes it.
func RotateBody(b *Body, delta float64) {
	b.rotate(delta)
	b.Wake()
}

func (b *Body) rotate(delta float64) {
	if delta == 0 {
		return
	}
	com := b.CenterOfMass()
	b.Center = com.Add(b.Center.Sub(com).Rotate(delta))
	b.Angle += delta
}

func (b *Body) applyImpulse(impulse, arm core.Vec2) {
	if b.invMass == 0 {
		return
	}
	b.Velocity = b.Velocity.Add(impulse.Scale(b.invMass))
	b.AngularVelocity += arm.Cross(impulse) * b.invInertia
}

// updateMassProperties derives inverse mass, inertia, center of mass and the
// broad-phase bound from the body's shapes. Mass is spread over the solid
// shapes in proportion to their area; sensors carry no mass.
func (b *Body) updateMassProperties() error {
	if len(b.Shapes) == 0 {
		return fmt.Errorf("%w: body has no shapes", ErrInvalidBody)
	}

	b.bound = 0
	for _, s := range b.Shapes {
		b.bound = math.Max(b.bound, s.Offset.Len()+s.boundRadius())
	}

	if b.Kind == Static {
		b.invMass, b.inertia, b.invInertia = 0, 0, 0
		b.COMOffset = core.Vec2{}
		return nil
	}

	if b.Mass <= 0 || math.IsNaN(b.Mass) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("%w: dynamic body mass %v", ErrInvalidBody, b.Mass)
	}

	var totalArea float64
	var centroid core.Vec2
	for _, s := range b.Shapes {
		if s.Sensor {
			continue
		}
		a := s.area()
		totalArea += a
		centroid = centroid.Add(s.Offset.Scale(a))
	}

	b.invMass = 1 / b.Mass
	if totalArea == 0 {
		// Sensor-only bodies: treat as a disc the size of the bound.
		b.COMOffset = core.Vec2{}
		b.inertia = b.Mass * math.Max(b.bound*b.bound/2, 1)
		b.invInertia = 1 / b.inertia
		return nil
	}

	b.COMOffset = centroid.Scale(1 / totalArea)
	b.inertia = 0
	for _, s := range b.Shapes {
		if s.Sensor {
			continue
		}
		m := b.Mass * s.area() / totalArea
		d := s.Offset.Sub(b.COMOffset)
		b.inertia += m * (s.unitInertia() + d.LenSq())
	}
	if b.inertia <= 0 {
		b.inertia = b.Mass
	}
	b.invInertia = 1 / b.inertia
	return nil
}
