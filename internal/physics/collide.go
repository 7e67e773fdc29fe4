package physics

import (
	"math"

	"github.com/vovakirdan/tui-grove/internal/core"
)

// Contact describes an overlap between two shapes. Normal points from shape A
// toward shape B.
type Contact struct {
	Normal core.Vec2
	Depth  float64
	Point  core.Vec2
}

// positional correction tuning
const correctionPercent = 0.4

// worldShape is a shape resolved into world space for one narrow-phase test.
type worldShape struct {
	kind   ShapeKind
	center core.Vec2
	angle  float64
	radius float64
	w, h   float64
}

func resolveShape(s *Shape, owner *Body) worldShape {
	return worldShape{
		kind:   s.Kind,
		center: s.WorldCenter(owner),
		angle:  s.WorldAngle(owner),
		radius: s.Radius,
		w:      s.Width,
		h:      s.Height,
	}
}

// Collide runs the narrow phase for two shapes on their owners. It reports
// false when the shapes do not overlap.
func Collide(sa *Shape, ba *Body, sb *Shape, bb *Body) (Contact, bool) {
	return collideWorld(resolveShape(sa, ba), resolveShape(sb, bb))
}

func collideWorld(a, b worldShape) (Contact, bool) {
	switch {
	case a.kind == ShapeCircle && b.kind == ShapeCircle:
		return circleCircle(a, b)
	case a.kind == ShapeCircle && b.kind == ShapeRectangle:
		c, ok := circleRect(a, b)
		if !ok {
			return Contact{}, false
		}
		// circleRect reports rect -> circle
		c.Normal = c.Normal.Neg()
		return c, true
	case a.kind == ShapeRectangle && b.kind == ShapeCircle:
		return circleRect(b, a)
	default:
		return rectRect(a, b)
	}
}

func circleCircle(a, b worldShape) (Contact, bool) {
	d := b.center.Sub(a.center)
	distSq := d.LenSq()
	rsum := a.radius + b.radius
	if distSq >= rsum*rsum {
		return Contact{}, false
	}
	dist := math.Sqrt(distSq)
	n := core.V(1, 0)
	if dist > core.Epsilon {
		n = d.Scale(1 / dist)
	}
	return Contact{
		Normal: n,
		Depth:  rsum - dist,
		Point:  a.center.Add(n.Scale(a.radius - (rsum-dist)/2)),
	}, true
}

// circleRect tests circle c against oriented rectangle r. The returned normal
// points from the rectangle toward the circle.
func circleRect(c, r worldShape) (Contact, bool) {
	local := c.center.Sub(r.center).Rotate(-r.angle)
	hw, hh := r.w/2, r.h/2

	closest := core.V(core.ClampF(local.X, -hw, hw), core.ClampF(local.Y, -hh, hh))
	inside := closest == local

	var n core.Vec2
	var depth float64
	if inside {
		// Push out along the axis of least penetration.
		dx := hw - math.Abs(local.X)
		dy := hh - math.Abs(local.Y)
		if dx < dy {
			n = core.V(sign(local.X), 0)
			closest.X = hw * sign(local.X)
			depth = dx + c.radius
		} else {
			n = core.V(0, sign(local.Y))
			closest.Y = hh * sign(local.Y)
			depth = dy + c.radius
		}
	} else {
		d := local.Sub(closest)
		distSq := d.LenSq()
		if distSq >= c.radius*c.radius {
			return Contact{}, false
		}
		dist := math.Sqrt(distSq)
		n = d.Scale(1 / dist)
		depth = c.radius - dist
	}

	return Contact{
		Normal: n.Rotate(r.angle),
		Depth:  depth,
		Point:  r.center.Add(closest.Rotate(r.angle)),
	}, true
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// rectRect runs the separating axis test over the four face normals of two
// oriented rectangles.
func rectRect(a, b worldShape) (Contact, bool) {
	ca := rectCorners(a.center, a.w, a.h, a.angle)
	cb := rectCorners(b.center, b.w, b.h, b.angle)
	axes := [4]core.Vec2{
		core.FromAngle(a.angle),
		core.FromAngle(a.angle).Perp(),
		core.FromAngle(b.angle),
		core.FromAngle(b.angle).Perp(),
	}

	depth := math.Inf(1)
	var normal core.Vec2
	for _, axis := range axes {
		minA, maxA := project(ca, axis)
		minB, maxB := project(cb, axis)
		overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
		if overlap <= 0 {
			return Contact{}, false
		}
		if overlap < depth {
			depth = overlap
			normal = axis
		}
	}
	if b.center.Sub(a.center).Dot(normal) < 0 {
		normal = normal.Neg()
	}

	var sum core.Vec2
	var count int
	for _, p := range cb {
		if insideRect(p, a) {
			sum = sum.Add(p)
			count++
		}
	}
	for _, p := range ca {
		if insideRect(p, b) {
			sum = sum.Add(p)
			count++
		}
	}
	point := a.center.Add(b.center).Scale(0.5)
	if count > 0 {
		point = sum.Scale(1 / float64(count))
	}
	return Contact{Normal: normal, Depth: depth, Point: point}, true
}

func project(corners [4]core.Vec2, axis core.Vec2) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range corners {
		d := p.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

func insideRect(p core.Vec2, r worldShape) bool {
	local := p.Sub(r.center).Rotate(-r.angle)
	return math.Abs(local.X) <= r.w/2 && math.Abs(local.Y) <= r.h/2
}

// collidePairs runs broad and narrow phase over every eligible body pair.
// Each dynamic body is paired with every static body, then with the dynamic
// bodies inserted after it.
func (w *World) collidePairs() {
	dyn := w.DynamicBodies()
	stat := w.StaticBodies()
	for i, a := range dyn {
		for _, b := range stat {
			w.collideBodies(a, b)
		}
		for _, b := range dyn[i+1:] {
			w.collideBodies(a, b)
		}
	}
}

func (w *World) collideBodies(a, b *Body) {
	if w.Excluded(a.ID, b.ID) {
		return
	}
	if a.Center.Sub(b.Center).LenSq() > (a.bound+b.bound)*(a.bound+b.bound) {
		return
	}
	for _, sa := range a.Shapes {
		for _, sb := range b.Shapes {
			c, ok := Collide(sa, a, sb, b)
			if !ok {
				continue
			}
			if sa.Sensor || sb.Sensor {
				if sa.Sensor {
					sa.addHit(sb.ID)
				}
				if sb.Sensor {
					sb.addHit(sa.ID)
				}
				continue
			}
			if w.awake(a) || w.awake(b) {
				w.resolve(a, b, c)
			}
		}
	}
}

// resolve applies a normal impulse with restitution, Coulomb friction and a
// positional correction for one contact.
func (w *World) resolve(a, b *Body, c Contact) {
	ra := c.Point.Sub(a.CenterOfMass())
	rb := c.Point.Sub(b.CenterOfMass())

	va := a.Velocity.Add(core.CrossScalar(a.AngularVelocity, ra))
	vb := b.Velocity.Add(core.CrossScalar(b.AngularVelocity, rb))
	rv := vb.Sub(va)
	vn := rv.Dot(c.Normal)

	if vn <= 0 {
		kn := effectiveInvMass(a, ra, c.Normal) + effectiveInvMass(b, rb, c.Normal)
		if kn > 0 {
			e := math.Min(a.Restitution, b.Restitution)
			jn := -(1 + e) * vn / kn
			impulse := c.Normal.Scale(jn)
			a.applyImpulse(impulse.Neg(), ra)
			b.applyImpulse(impulse, rb)
			w.wakeOnImpulse(a, jn)
			w.wakeOnImpulse(b, jn)

			// friction along the contact tangent
			va = a.Velocity.Add(core.CrossScalar(a.AngularVelocity, ra))
			vb = b.Velocity.Add(core.CrossScalar(b.AngularVelocity, rb))
			rv = vb.Sub(va)
			tangent := rv.Sub(c.Normal.Scale(rv.Dot(c.Normal))).Normalize()
			kt := effectiveInvMass(a, ra, tangent) + effectiveInvMass(b, rb, tangent)
			if kt > 0 && tangent != (core.Vec2{}) {
				mu := math.Sqrt(a.Friction * b.Friction)
				jt := -rv.Dot(tangent) / kt
				jt = core.ClampF(jt, -jn*mu, jn*mu)
				ft := tangent.Scale(jt)
				a.applyImpulse(ft.Neg(), ra)
				b.applyImpulse(ft, rb)
			}
		}
	}

	total := a.invMass + b.invMass
	if total == 0 {
		return
	}
	corr := math.Max(c.Depth-w.Slop, 0) / total * correctionPercent
	if corr == 0 {
		return
	}
	shift := c.Normal.Scale(corr)
	a.Center = a.Center.Sub(shift.Scale(a.invMass))
	b.Center = b.Center.Add(shift.Scale(b.invMass))
}

func (w *World) wakeOnImpulse(b *Body, j float64) {
	if b.Kind == Dynamic && math.Abs(j)*b.invMass > w.RestVelocity {
		b.Wake()
	}
}
