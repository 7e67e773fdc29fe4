// Package hillclimb implements a side-scrolling hill climb.
// Each actor drives a two-wheeled car over a strip of tilted ground
// segments: on the ground the controls push the car, in the air they tilt it.
package hillclimb

import (
	"fmt"

	"github.com/vovakirdan/tui-grove/internal/config"
	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/physics"
	"github.com/vovakirdan/tui-grove/internal/registry"
	"github.com/vovakirdan/tui-grove/internal/sim"
)

// Track layout
const (
	SegmentWidth  = 400.0
	SegmentHeight = 30.0
	SegmentStep   = 390.0 // horizontal distance between segment centers
	SegmentTilt   = 0.2
	Segments      = 50
	StartX        = 250.0
	StartY        = 458.0
	TrackY        = 420.0
)

// Car layout, relative to the chassis center
const (
	SlotSpacing   = 120.0
	ChassisX      = 170.0
	ChassisY      = 10.0
	ChassisMass   = 1.0
	BaseWidth     = 60.0
	BaseHeight    = 20.0
	BaseOffsetY   = -35.0
	AxleOffsetX   = 20.0
	AxleOffsetY   = -10.0
	AxleRadius    = 3.0
	SensorPadding = 1.5 // sensor radius beyond the wheel radius
)

// Binding roles
const (
	RoleChassis     = "chassis"
	RoleLeftSensor  = "left-sensor"
	RoleRightSensor = "right-sensor"
	RoleLeftWheel   = "wheel-left"
	RoleRightWheel  = "wheel-right"
)

// Game implements sim.Mode for the hill climb.
type Game struct {
	cfg config.WorldConfig
}

// New creates a hill climb mode.
func New(cfg config.WorldConfig) *Game {
	return &Game{cfg: config.Normalize(cfg)}
}

// ID returns the unique identifier for this mode.
func (g *Game) ID() string {
	return "hillclimb"
}

// Title returns the display name for this mode.
func (g *Game) Title() string {
	return "Hill Climb"
}

// BuildWorld lays out the ground strip.
func (g *Game) BuildWorld(w *physics.World, _ *sim.Scheduler) error {
	if err := g.addSegment(w, core.V(StartX, StartY), 0); err != nil {
		return err
	}
	for i := 1; i < Segments; i++ {
		tilt := SegmentTilt
		if i%2 != 0 {
			tilt = -SegmentTilt
		}
		if err := g.addSegment(w, core.V(StartX+float64(i)*SegmentStep, TrackY), tilt); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) addSegment(w *physics.World, center core.Vec2, tilt float64) error {
	ground := physics.NewStatic(center, physics.NewRectangle(core.Vec2{}, SegmentWidth, SegmentHeight, 0))
	ground.Friction = g.cfg.Physics.Friction
	ground.Angle = tilt
	if _, err := w.AddBody(ground); err != nil {
		return fmt.Errorf("hillclimb: ground: %w", err)
	}
	return nil
}

// SpawnActor builds one car: a chassis with two axle anchors and two
// wheel sensors, plus two wheels jointed to the sensors. The chassis never
// collides with its own wheels.
func (g *Game) SpawnActor(w *physics.World, _ core.ActorID, slot int) (sim.Binding, error) {
	shift := core.V(SlotSpacing*float64(slot), 0)
	wheelR := g.cfg.Actor.Radius

	leftAxle := core.V(-AxleOffsetX, AxleOffsetY)
	rightAxle := core.V(AxleOffsetX, AxleOffsetY)
	leftSensor := physics.NewCircle(leftAxle, wheelR+SensorPadding).AsSensor()
	rightSensor := physics.NewCircle(rightAxle, wheelR+SensorPadding).AsSensor()

	chassis := physics.NewDynamic(core.V(ChassisX, ChassisY).Add(shift), ChassisMass,
		physics.NewRectangle(core.V(0, BaseOffsetY), BaseWidth, BaseHeight, 0),
		physics.NewCircle(leftAxle, AxleRadius),
		physics.NewCircle(rightAxle, AxleRadius),
		leftSensor,
		rightSensor,
	)
	chassis.Friction = g.cfg.Physics.Friction
	chassisID, err := w.AddBody(chassis)
	if err != nil {
		return sim.Binding{}, fmt.Errorf("hillclimb: chassis: %w", err)
	}

	b := sim.Binding{
		Primary: chassisID,
		Bodies:  []physics.BodyID{chassisID},
		Shapes: map[string]physics.ShapeID{
			RoleChassis:     chassis.Shapes[0].ID,
			RoleLeftSensor:  leftSensor.ID,
			RoleRightSensor: rightSensor.ID,
		},
	}

	wheels := []struct {
		role   string
		sensor *physics.Shape
	}{
		{RoleLeftWheel, leftSensor},
		{RoleRightWheel, rightSensor},
	}
	for _, wh := range wheels {
		pos := chassis.Center.Add(wh.sensor.Offset)
		shape := physics.NewCircle(core.Vec2{}, wheelR)
		wheel := physics.NewDynamic(pos, g.cfg.Actor.Mass, shape)
		wheel.Friction = g.cfg.Physics.Friction
		id, err := w.AddBody(wheel)
		if err != nil {
			return sim.Binding{}, fmt.Errorf("hillclimb: %s: %w", wh.role, err)
		}
		b.Bodies = append(b.Bodies, id)
		b.Shapes[wh.role] = shape.ID

		if err := w.Exclude(chassisID, id); err != nil {
			return sim.Binding{}, fmt.Errorf("hillclimb: %s: %w", wh.role, err)
		}
		if _, err := w.CreateJoint(id, 0, chassisID, wh.sensor.ID, 1, 0); err != nil {
			return sim.Binding{}, fmt.Errorf("hillclimb: %s: %w", wh.role, err)
		}
	}
	return b, nil
}

// Grounded reports whether either wheel sensor touched something during
// the last step.
func Grounded(w *physics.World, b sim.Binding) (bool, error) {
	for _, role := range []string{RoleLeftSensor, RoleRightSensor} {
		id, ok := b.Shape(role)
		if !ok {
			return false, fmt.Errorf("hillclimb: binding has no %s: %w", role, physics.ErrShapeNotFound)
		}
		sh, err := w.Shape(id)
		if err != nil {
			return false, fmt.Errorf("hillclimb: %w", err)
		}
		if sh.Colliding() {
			return true, nil
		}
	}
	return false, nil
}

// Control keeps the car awake, then drives it when grounded or tilts it
// when airborne. Only the sign of the horizontal control matters.
func (g *Game) Control(w *physics.World, b sim.Binding, c core.Controls) error {
	chassis, err := w.Body(b.Primary)
	if err != nil {
		return fmt.Errorf("hillclimb: %w", err)
	}
	for _, id := range b.Bodies {
		body, err := w.Body(id)
		if err != nil {
			return fmt.Errorf("hillclimb: %w", err)
		}
		body.RestingTime = 0
	}

	grounded, err := Grounded(w, b)
	if err != nil {
		return err
	}

	dt := w.TimeStep
	a := g.cfg.Actor
	switch {
	case grounded && c.X < 0:
		chassis.Velocity.X = max(-a.MaxSpeed, chassis.Velocity.X-a.Accel*dt)
	case grounded && c.X > 0:
		chassis.Velocity.X = min(a.MaxSpeed, chassis.Velocity.X+a.Accel*dt)
	case !grounded && c.X < 0:
		physics.RotateBody(chassis, -a.Tilt*dt)
		chassis.AngularVelocity = 0
	case !grounded && c.X > 0:
		physics.RotateBody(chassis, a.Tilt*dt)
		chassis.AngularVelocity = 0
	}
	return nil
}

// Facing points along the chassis.
func (g *Game) Facing(w *physics.World, b sim.Binding) (core.Vec2, error) {
	chassis, err := w.Body(b.Primary)
	if err != nil {
		return core.Vec2{}, fmt.Errorf("hillclimb: %w", err)
	}
	return core.FromAngle(chassis.Angle), nil
}

func init() {
	registry.Register("hillclimb", func(cfg config.WorldConfig) sim.Mode {
		return New(cfg)
	})
}
