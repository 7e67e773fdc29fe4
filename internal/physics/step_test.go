package physics

import (
	"reflect"
	"testing"

	"github.com/vovakirdan/tui-grove/internal/core"
)

func TestStepAdvancesFrame(t *testing.T) {
	w := NewWorld(DefaultParams())
	for i := range 5 {
		if w.Frame != uint64(i) {
			t.Fatalf("Frame = %d, expected %d", w.Frame, i)
		}
		if err := Step(w, 4); err != nil {
			t.Fatalf("Step() error = %v", err)
		}
	}
	if err := Step(nil, 1); err == nil {
		t.Error("Step(nil) expected error")
	}
}

func TestGravityPullsDynamicBodies(t *testing.T) {
	w := NewWorld(DefaultParams())
	ball := NewDynamic(core.V(0, 0), 1, NewCircle(core.Vec2{}, 1))
	wall := NewStatic(core.V(0, 0), NewRectangle(core.V(500, 0), 10, 10, 0))
	mustAdd(t, w, ball)
	mustAdd(t, w, wall)

	for range 10 {
		if err := Step(w, 4); err != nil {
			t.Fatal(err)
		}
	}
	if ball.Center.Y <= 0 || ball.Velocity.Y <= 0 {
		t.Errorf("ball center/velocity = %v/%v, expected falling", ball.Center, ball.Velocity)
	}
	if wall.Center != (core.Vec2{}) {
		t.Errorf("static body moved to %v", wall.Center)
	}
}

func TestDampingIndependentOfSubsteps(t *testing.T) {
	speed := func(substeps int) float64 {
		w := NewWorld(zeroGravity())
		b := NewDynamic(core.Vec2{}, 1, NewCircle(core.Vec2{}, 1))
		mustAdd(t, w, b)
		b.SetVelocity(core.V(100, 0))
		if err := Step(w, substeps); err != nil {
			t.Fatal(err)
		}
		return b.Velocity.X
	}
	one, eight := speed(1), speed(8)
	if !near(one, 99) || !near(eight, 99) {
		t.Errorf("velocity after one step = %v (1 sub-step), %v (8 sub-steps), expected 99", one, eight)
	}
}

func TestRestingDetection(t *testing.T) {
	w := NewWorld(zeroGravity())
	b := NewDynamic(core.Vec2{}, 1, NewCircle(core.Vec2{}, 1))
	mustAdd(t, w, b)

	steps := 0
	for !w.IsResting(b) {
		if err := Step(w, 1); err != nil {
			t.Fatal(err)
		}
		steps++
		if steps > 120 {
			t.Fatalf("body never rested, RestingTime = %v", b.RestingTime)
		}
	}
	if steps < 60 {
		t.Errorf("body rested after %d steps, expected more than a second", steps)
	}

	b.SetVelocity(core.V(50, 0))
	if w.IsResting(b) {
		t.Error("SetVelocity() did not wake the body")
	}
	if err := Step(w, 1); err != nil {
		t.Fatal(err)
	}
	if b.RestingTime != 0 {
		t.Errorf("RestingTime = %v, expected 0 while moving", b.RestingTime)
	}
}

func TestRestingBodySkipsIntegration(t *testing.T) {
	w := NewWorld(DefaultParams())
	b := NewDynamic(core.Vec2{}, 1, NewCircle(core.Vec2{}, 1))
	mustAdd(t, w, b)
	b.RestingTime = w.RestThreshold + 1

	if err := Step(w, 4); err != nil {
		t.Fatal(err)
	}
	if b.Center != (core.Vec2{}) {
		t.Errorf("resting body moved to %v", b.Center)
	}
}

func buildStack() *World {
	w := NewWorld(DefaultParams())
	_, _ = w.AddBody(NewStatic(core.V(0, 100), NewRectangle(core.Vec2{}, 400, 20, 0.1)))
	for i := range 4 {
		x := float64(i*12 - 20)
		_, _ = w.AddBody(NewDynamic(core.V(x, float64(-i*15)), 1, NewCircle(core.Vec2{}, 5)))
		_, _ = w.AddBody(NewDynamic(core.V(x+3, float64(-i*15-40)), 2, NewRectangle(core.Vec2{}, 8, 6, 0.2)))
	}
	return w
}

func TestStepDeterminism(t *testing.T) {
	a, b := buildStack(), buildStack()
	for range 120 {
		if err := Step(a, 4); err != nil {
			t.Fatal(err)
		}
		if err := Step(b, 4); err != nil {
			t.Fatal(err)
		}
	}
	if !reflect.DeepEqual(a.Snapshot(), b.Snapshot()) {
		t.Error("identical worlds diverged after 120 steps")
	}
}

func TestBallRestsOnGround(t *testing.T) {
	w := NewWorld(DefaultParams())
	mustAdd(t, w, NewStatic(core.V(0, 20), NewRectangle(core.Vec2{}, 200, 20, 0)))
	ball := NewDynamic(core.V(0, 0), 1, NewCircle(core.Vec2{}, 5))
	mustAdd(t, w, ball)

	for range 240 {
		if err := Step(w, 4); err != nil {
			t.Fatal(err)
		}
	}
	if ball.Center.Y > 10 {
		t.Errorf("ball sank to y = %v, expected it to stay above the ground top at 10", ball.Center.Y)
	}
	if ball.Center.Y < 0 {
		t.Errorf("ball rose to y = %v", ball.Center.Y)
	}
}
