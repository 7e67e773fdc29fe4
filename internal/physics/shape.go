package physics

import (
	"math"

	"github.com/vovakirdan/tui-grove/internal/core"
)

// ShapeKind selects the geometry of a Shape.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeRectangle
)

// String returns a human-readable name for the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeRectangle:
		return "rectangle"
	default:
		return "unknown"
	}
}

// Shape is a piece of collision geometry owned by exactly one body.
// Offset and Angle are relative to the owning body's center and rotation.
type Shape struct {
	ID   ShapeID
	Body BodyID // owning body, for lookups only
	Kind ShapeKind

	Offset core.Vec2
	Angle  float64

	// Sensor shapes report overlaps in SensorHits but never produce a
	// collision response.
	Sensor bool

	Radius        float64 // circles
	Width, Height float64 // rectangles

	// SensorHits lists the ids of shapes overlapping this sensor during the
	// most recent step, in detection order and without duplicates.
	SensorHits []ShapeID
}

// NewCircle creates a circle shape at a local offset.
func NewCircle(offset core.Vec2, radius float64) *Shape {
	return &Shape{Kind: ShapeCircle, Offset: offset, Radius: radius}
}

// NewRectangle creates a rectangle shape at a local offset and rotation.
func NewRectangle(offset core.Vec2, width, height, angle float64) *Shape {
	return &Shape{Kind: ShapeRectangle, Offset: offset, Width: width, Height: height, Angle: angle}
}

// AsSensor marks the shape as a sensor and returns it, for chaining.
func (s *Shape) AsSensor() *Shape {
	s.Sensor = true
	return s
}

// Colliding reports whether the sensor saw any overlap in the last step.
func (s *Shape) Colliding() bool {
	return len(s.SensorHits) > 0
}

// WorldCenter returns the shape's center in world space for the given owner.
func (s *Shape) WorldCenter(owner *Body) core.Vec2 {
	return owner.Center.Add(s.Offset.Rotate(owner.Angle))
}

// WorldAngle returns the shape's rotation in world space.
func (s *Shape) WorldAngle(owner *Body) float64 {
	return owner.Angle + s.Angle
}

// boundRadius is the radius of a circle around the shape's center that
// contains the whole shape.
func (s *Shape) boundRadius() float64 {
	if s.Kind == ShapeCircle {
		return s.Radius
	}
	return math.Hypot(s.Width, s.Height) / 2
}

func (s *Shape) area() float64 {
	if s.Kind == ShapeCircle {
		return math.Pi * s.Radius * s.Radius
	}
	return s.Width * s.Height
}

// unitInertia is the shape's moment of inertia about its own center per unit
// of mass.
func (s *Shape) unitInertia() float64 {
	if s.Kind == ShapeCircle {
		return s.Radius * s.Radius / 2
	}
	return (s.Width*s.Width + s.Height*s.Height) / 12
}

func (s *Shape) addHit(id ShapeID) {
	for _, h := range s.SensorHits {
		if h == id {
			return
		}
	}
	s.SensorHits = append(s.SensorHits, id)
}

// corners returns the rectangle's four corners in world space, given its
// world center and rotation.
func rectCorners(center core.Vec2, w, h, angle float64) [4]core.Vec2 {
	hw, hh := w/2, h/2
	local := [4]core.Vec2{
		{X: -hw, Y: -hh},
		{X: hw, Y: -hh},
		{X: hw, Y: hh},
		{X: -hw, Y: hh},
	}
	var out [4]core.Vec2
	for i, p := range local {
		out[i] = center.Add(p.Rotate(angle))
	}
	return out
}
