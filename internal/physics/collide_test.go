package physics

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-grove/internal/core"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCollideShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      *Shape
		posA      core.Vec2
		posB      core.Vec2
		hit       bool
		normal    core.Vec2
		depth     float64
		checkNorm bool
	}{
		{
			name: "circles overlapping",
			a:    NewCircle(core.Vec2{}, 5), b: NewCircle(core.Vec2{}, 5),
			posA: core.V(0, 0), posB: core.V(8, 0),
			hit: true, normal: core.V(1, 0), depth: 2, checkNorm: true,
		},
		{
			name: "circles apart",
			a:    NewCircle(core.Vec2{}, 5), b: NewCircle(core.Vec2{}, 5),
			posA: core.V(0, 0), posB: core.V(10, 0),
		},
		{
			name: "circles concentric",
			a:    NewCircle(core.Vec2{}, 2), b: NewCircle(core.Vec2{}, 3),
			hit: true, normal: core.V(1, 0), depth: 5, checkNorm: true,
		},
		{
			name: "circle above rectangle",
			a:    NewCircle(core.Vec2{}, 5), b: NewRectangle(core.Vec2{}, 20, 10, 0),
			posA: core.V(0, -9), posB: core.V(0, 0),
			hit: true, normal: core.V(0, 1), depth: 1, checkNorm: true,
		},
		{
			name: "rectangle under circle",
			a:    NewRectangle(core.Vec2{}, 20, 10, 0), b: NewCircle(core.Vec2{}, 5),
			posA: core.V(0, 0), posB: core.V(0, -9),
			hit: true, normal: core.V(0, -1), depth: 1, checkNorm: true,
		},
		{
			name: "circle off rotated rectangle",
			a:    NewCircle(core.Vec2{}, 1), b: NewRectangle(core.Vec2{}, 2, 2, math.Pi/4),
			posA: core.V(2.5, 0), posB: core.V(0, 0),
		},
		{
			name: "rectangles side by side",
			a:    NewRectangle(core.Vec2{}, 10, 10, 0), b: NewRectangle(core.Vec2{}, 10, 10, 0),
			posA: core.V(0, 0), posB: core.V(8, 1),
			hit: true, normal: core.V(1, 0), depth: 2, checkNorm: true,
		},
		{
			name: "rectangles apart",
			a:    NewRectangle(core.Vec2{}, 10, 10, 0), b: NewRectangle(core.Vec2{}, 10, 10, 0.3),
			posA: core.V(0, 0), posB: core.V(30, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ba := NewStatic(tt.posA, tt.a)
			bb := NewStatic(tt.posB, tt.b)
			c, ok := Collide(tt.a, ba, tt.b, bb)
			if ok != tt.hit {
				t.Fatalf("Collide() hit = %v, expected %v", ok, tt.hit)
			}
			if !tt.checkNorm {
				return
			}
			if !near(c.Normal.X, tt.normal.X) || !near(c.Normal.Y, tt.normal.Y) {
				t.Errorf("Collide() normal = %v, expected %v", c.Normal, tt.normal)
			}
			if !near(c.Depth, tt.depth) {
				t.Errorf("Collide() depth = %v, expected %v", c.Depth, tt.depth)
			}
		})
	}
}

func TestSensorIsolation(t *testing.T) {
	run := func(withSensor bool) (*Body, *Shape) {
		w := NewWorld(DefaultParams())
		sensor := NewCircle(core.Vec2{}, 20).AsSensor()
		b := NewDynamic(core.V(0, 0), 1, NewCircle(core.Vec2{}, 1), sensor)
		mustAdd(t, w, b)
		if withSensor {
			mustAdd(t, w, NewStatic(core.V(10, 0), NewCircle(core.Vec2{}, 5)))
		}
		for range 3 {
			if err := Step(w, 4); err != nil {
				t.Fatal(err)
			}
		}
		return b, sensor
	}

	free, freeSensor := run(false)
	touched, sensor := run(true)

	if touched.Center != free.Center || touched.Velocity != free.Velocity {
		t.Errorf("sensor overlap changed motion: %v/%v, expected %v/%v",
			touched.Center, touched.Velocity, free.Center, free.Velocity)
	}
	if len(sensor.SensorHits) != 1 {
		t.Errorf("SensorHits = %v, expected one hit", sensor.SensorHits)
	}
	if freeSensor.Colliding() {
		t.Error("free sensor reports hits")
	}
}

func TestSensorHitsDeduplicated(t *testing.T) {
	w := NewWorld(DefaultParams())
	sensor := NewCircle(core.Vec2{}, 20).AsSensor()
	mustAdd(t, w, NewDynamic(core.Vec2{}, 1, sensor))
	mustAdd(t, w, NewStatic(core.V(5, 0), NewCircle(core.Vec2{}, 5), NewRectangle(core.V(-5, 0), 4, 4, 0)))

	if err := Step(w, 8); err != nil {
		t.Fatal(err)
	}
	if len(sensor.SensorHits) != 2 {
		t.Errorf("SensorHits = %v, expected two unique hits", sensor.SensorHits)
	}
}

func TestOverlaps(t *testing.T) {
	w := NewWorld(DefaultParams())
	canopy := NewCircle(core.Vec2{}, 10).AsSensor()
	mustAdd(t, w, NewStatic(core.V(0, 0), NewCircle(core.Vec2{}, 2), canopy))
	far := mustAdd(t, w, NewStatic(core.V(100, 0), NewCircle(core.Vec2{}, 5)))
	ignored := mustAdd(t, w, NewStatic(core.V(3, 0), NewCircle(core.Vec2{}, 5).AsSensor()))

	probe := mustAdd(t, w, NewStatic(core.V(0, 0), NewCircle(core.Vec2{}, 12).AsSensor()))
	_ = w.Exclude(probe, ignored)

	hits, err := w.Overlaps(probe)
	if err != nil {
		t.Fatalf("Overlaps() error = %v", err)
	}
	if len(hits) != 2 || hits[1] != canopy.ID {
		t.Errorf("Overlaps() = %v, expected trunk and canopy", hits)
	}
	for _, h := range hits {
		s, _ := w.Shape(h)
		if s.Body == far {
			t.Error("Overlaps() reported a distant body")
		}
	}
	if _, err := w.Overlaps(BodyID(99)); err == nil {
		t.Error("Overlaps(unknown) expected error")
	}
}
