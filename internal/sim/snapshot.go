package sim

import (
	"maps"
	"math"
	"slices"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/physics"
)

// ActorState is a read-only view of one actor.
type ActorState struct {
	ID       core.ActorID
	Primary  physics.BodyID
	Bodies   []physics.BodyID
	Shapes   map[string]physics.ShapeID
	Center   core.Vec2
	Velocity core.Vec2
	Angle    float64
	Controls core.Controls
}

// Counts summarizes the payload population of a world.
type Counts struct {
	Bodies      int
	Trees       int
	Seeds       int
	Projectiles int
}

// Snapshot is a detached copy of the scheduler state, taken between ticks.
type Snapshot struct {
	Mode     string
	Frame    uint64
	World    physics.Snapshot
	Actors   []ActorState
	Counts   Counts
	RNGState uint64
}

// Snapshot copies the current state. Payloads are copied too, so the
// result never aliases the live world.
func (s *Scheduler) Snapshot() Snapshot {
	ws := s.world.Snapshot()
	var counts Counts
	for i := range ws.Bodies {
		p := copyPayload(payloadOf(ws.Bodies[i].Tag))
		ws.Bodies[i].Tag = p
		switch p.(type) {
		case *Tree:
			counts.Trees++
		case *SeedPending:
			counts.Seeds++
		case *Expiring:
			counts.Projectiles++
		}
	}
	counts.Bodies = len(ws.Bodies)

	snap := Snapshot{
		Mode:     s.mode.ID(),
		Frame:    s.world.Frame,
		World:    ws,
		Counts:   counts,
		RNGState: s.rng.State(),
	}
	for _, id := range s.actors {
		b := s.bindings[id]
		as := ActorState{
			ID:       id,
			Primary:  b.Primary,
			Bodies:   slices.Clone(b.Bodies),
			Shapes:   maps.Clone(b.Shapes),
			Controls: s.inputs.Get(id),
		}
		if body, ok := ws.Body(b.Primary); ok {
			as.Center = body.Center
			as.Velocity = body.Velocity
			as.Angle = body.Angle
		}
		snap.Actors = append(snap.Actors, as)
	}
	return snap
}

// Actor returns the state of one actor.
func (snap *Snapshot) Actor(id core.ActorID) (ActorState, bool) {
	for _, a := range snap.Actors {
		if a.ID == id {
			return a, true
		}
	}
	return ActorState{}, false
}

// Hash returns a simple hash of the snapshot for determinism testing.
func (snap *Snapshot) Hash() uint64 {
	h := snap.Frame
	h = h*31 + snap.RNGState
	h = h*31 + uint64(len(snap.World.Bodies)) //#nosec G115 -- hash computation
	h = h*31 + uint64(len(snap.World.Joints)) //#nosec G115 -- hash computation
	h = h*31 + uint64(snap.World.Exclusions)  //#nosec G115 -- hash computation

	f := func(v float64) {
		h = h*31 + math.Float64bits(v)
	}
	vec := func(v core.Vec2) {
		f(v.X)
		f(v.Y)
	}

	for _, b := range snap.World.Bodies {
		h = h*31 + uint64(b.ID)
		h = h*31 + uint64(b.Kind)
		vec(b.Center)
		f(b.Angle)
		vec(b.Velocity)
		f(b.AngularVelocity)
		f(b.RestingTime)
		for _, sh := range b.Shapes {
			h = h*31 + uint64(sh.ID)
			f(sh.Radius)
			h = h*31 + uint64(sh.Hits) //#nosec G115 -- hash computation
		}
		switch p := b.Tag.(type) {
		case *Expiring:
			h = h*31 + 1
			h = h*31 + p.ExpiryFrame
			h = h*31 + uint64(p.Origin)
		case *SeedPending:
			h = h*31 + 2
			h = h*31 + p.SeedFrame
		case *Tree:
			h = h*31 + 3
			h = h*31 + p.SeedFrame
			h = h*31 + p.GrowFrame
		case *SpaceProbe:
			h = h*31 + 4
		}
	}

	for _, j := range snap.World.Joints {
		h = h*31 + uint64(j.ID)
		vec(j.AnchorA)
		vec(j.AnchorB)
	}

	for _, a := range snap.Actors {
		for _, c := range []byte(a.ID) {
			h = h*31 + uint64(c)
		}
		h = h*31 + uint64(a.Primary)
		f(a.Controls.X)
		f(a.Controls.Y)
	}
	return h
}
