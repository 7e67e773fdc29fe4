package physics

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-grove/internal/core"
)

func zeroGravity() Params {
	p := DefaultParams()
	p.Gravity = core.Vec2{}
	return p
}

func mustAdd(t *testing.T, w *World, b *Body) BodyID {
	t.Helper()
	id, err := w.AddBody(b)
	if err != nil {
		t.Fatalf("AddBody() error = %v", err)
	}
	return id
}

func TestAddBodyAssignsIDs(t *testing.T) {
	w := NewWorld(DefaultParams())
	b := NewDynamic(core.V(0, 0), 1, NewCircle(core.Vec2{}, 5), NewCircle(core.V(5, 0), 2).AsSensor())
	id := mustAdd(t, w, b)

	if id == 0 {
		t.Fatal("AddBody() returned the zero handle")
	}
	got, err := w.Body(id)
	if err != nil || got != b {
		t.Fatalf("Body(%v) = %v, %v, expected the added body", id, got, err)
	}
	for _, s := range b.Shapes {
		if s.ID == 0 || s.Body != id {
			t.Errorf("shape %v owner = %v, expected %v", s.ID, s.Body, id)
		}
		if _, err := w.Shape(s.ID); err != nil {
			t.Errorf("Shape(%v) error = %v", s.ID, err)
		}
	}
	if _, err := w.AddBody(b); !errors.Is(err, ErrInvalidBody) {
		t.Errorf("AddBody() twice error = %v, expected ErrInvalidBody", err)
	}
}

func TestAddBodyRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body *Body
	}{
		{"nil", nil},
		{"no shapes", NewStatic(core.Vec2{})},
		{"zero mass", NewDynamic(core.Vec2{}, 0, NewCircle(core.Vec2{}, 1))},
		{"negative mass", NewDynamic(core.Vec2{}, -2, NewCircle(core.Vec2{}, 1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(DefaultParams())
			if _, err := w.AddBody(tt.body); !errors.Is(err, ErrInvalidBody) {
				t.Errorf("AddBody() error = %v, expected ErrInvalidBody", err)
			}
			if w.BodyCount() != 0 {
				t.Errorf("BodyCount() = %d, expected 0", w.BodyCount())
			}
		})
	}
}

func TestBodyOrdering(t *testing.T) {
	w := NewWorld(DefaultParams())
	d1 := mustAdd(t, w, NewDynamic(core.V(0, 0), 1, NewCircle(core.Vec2{}, 1)))
	s1 := mustAdd(t, w, NewStatic(core.V(0, 0), NewCircle(core.Vec2{}, 1)))
	d2 := mustAdd(t, w, NewDynamic(core.V(0, 0), 1, NewCircle(core.Vec2{}, 1)))

	all := w.Bodies()
	expected := []BodyID{s1, d1, d2}
	if len(all) != len(expected) {
		t.Fatalf("Bodies() len = %d, expected %d", len(all), len(expected))
	}
	for i, b := range all {
		if b.ID != expected[i] {
			t.Errorf("Bodies()[%d] = %v, expected %v", i, b.ID, expected[i])
		}
	}
}

func TestStaleHandle(t *testing.T) {
	w := NewWorld(DefaultParams())
	old := mustAdd(t, w, NewStatic(core.Vec2{}, NewCircle(core.Vec2{}, 1)))
	if err := w.RemoveBody(old); err != nil {
		t.Fatalf("RemoveBody() error = %v", err)
	}
	fresh := mustAdd(t, w, NewStatic(core.Vec2{}, NewCircle(core.Vec2{}, 1)))

	if fresh == old {
		t.Fatalf("reused slot produced the same handle %v", fresh)
	}
	if _, err := w.Body(old); !errors.Is(err, ErrBodyNotFound) {
		t.Errorf("Body(stale) error = %v, expected ErrBodyNotFound", err)
	}
	if err := w.RemoveBody(old); !errors.Is(err, ErrBodyNotFound) {
		t.Errorf("RemoveBody(stale) error = %v, expected ErrBodyNotFound", err)
	}
	if _, err := w.Body(0); !errors.Is(err, ErrBodyNotFound) {
		t.Errorf("Body(0) error = %v, expected ErrBodyNotFound", err)
	}
}

func TestRemoveBodiesIsAtomic(t *testing.T) {
	w := NewWorld(DefaultParams())
	a := mustAdd(t, w, NewDynamic(core.Vec2{}, 1, NewCircle(core.Vec2{}, 1)))
	b := mustAdd(t, w, NewDynamic(core.V(10, 0), 1, NewCircle(core.Vec2{}, 1)))
	gone := mustAdd(t, w, NewStatic(core.Vec2{}, NewCircle(core.Vec2{}, 1)))
	if err := w.RemoveBody(gone); err != nil {
		t.Fatal(err)
	}

	err := w.RemoveBodies(a, b, gone)
	if !errors.Is(err, ErrBodyNotFound) {
		t.Fatalf("RemoveBodies() error = %v, expected ErrBodyNotFound", err)
	}
	if !w.HasBody(a) || !w.HasBody(b) {
		t.Error("RemoveBodies() removed bodies despite failing")
	}

	if err := w.RemoveBodies(a, b, a); err != nil {
		t.Fatalf("RemoveBodies() with duplicate error = %v", err)
	}
	if w.BodyCount() != 0 {
		t.Errorf("BodyCount() = %d, expected 0", w.BodyCount())
	}
}

func TestRemoveBodyDropsShapes(t *testing.T) {
	w := NewWorld(DefaultParams())
	shape := NewCircle(core.Vec2{}, 1)
	id := mustAdd(t, w, NewStatic(core.Vec2{}, shape))
	if err := w.RemoveBody(id); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Shape(shape.ID); !errors.Is(err, ErrShapeNotFound) {
		t.Errorf("Shape() after removal error = %v, expected ErrShapeNotFound", err)
	}
}

func TestSetCircleRadius(t *testing.T) {
	w := NewWorld(DefaultParams())
	circle := NewCircle(core.Vec2{}, 2)
	rect := NewRectangle(core.Vec2{}, 4, 4, 0)
	id := mustAdd(t, w, NewStatic(core.Vec2{}, circle, rect))

	if err := w.SetCircleRadius(circle.ID, 10); err != nil {
		t.Fatalf("SetCircleRadius() error = %v", err)
	}
	b, _ := w.Body(id)
	if b.bound != 10 {
		t.Errorf("bound = %v, expected 10", b.bound)
	}
	if err := w.SetCircleRadius(rect.ID, 3); err == nil {
		t.Error("SetCircleRadius(rectangle) expected error")
	}
	if err := w.SetCircleRadius(0, 3); !errors.Is(err, ErrShapeNotFound) {
		t.Errorf("SetCircleRadius(0) error = %v, expected ErrShapeNotFound", err)
	}
}

func TestCenterOfMass(t *testing.T) {
	w := NewWorld(DefaultParams())
	b := NewDynamic(core.Vec2{}, 2,
		NewRectangle(core.V(-10, 0), 2, 2, 0),
		NewRectangle(core.V(10, 0), 2, 2, 0),
		NewCircle(core.V(50, 50), 30).AsSensor(),
	)
	mustAdd(t, w, b)
	if b.COMOffset.Len() > 1e-9 {
		t.Errorf("COMOffset = %v, expected origin (sensors carry no mass)", b.COMOffset)
	}
	if b.InvMass() != 0.5 {
		t.Errorf("InvMass() = %v, expected 0.5", b.InvMass())
	}
}

func TestSnapshotCopiesMotionSharesTag(t *testing.T) {
	w := NewWorld(zeroGravity())
	tag := &struct{ N int }{N: 1}
	b := NewDynamic(core.V(3, 4), 1, NewCircle(core.Vec2{}, 1))
	b.Tag = tag
	id := mustAdd(t, w, b)

	snap := w.Snapshot()
	b.Center = core.V(9, 9)
	tag.N = 2

	bs, ok := snap.Body(id)
	if !ok {
		t.Fatalf("Snapshot().Body(%v) missing", id)
	}
	if bs.Center != core.V(3, 4) {
		t.Errorf("snapshot center = %v, expected the value at copy time", bs.Center)
	}
	if bs.Tag != any(tag) {
		t.Errorf("snapshot tag = %v, expected the live tag pointer", bs.Tag)
	}
}
