package core

import "math"

// ActorID identifies a connected player inside a simulation.
// Hosts derive it from their session identifiers.
type ActorID string

// Controls is the control vector an actor submits. Each component is in
// [-1, 1]; {0, 0} means "no input".
type Controls struct {
	X float64
	Y float64
}

// Clamped returns c with both components restricted to [-1, 1]. A NaN
// component reads as 0.
func (c Controls) Clamped() Controls {
	return Controls{X: clampAxis(c.X), Y: clampAxis(c.Y)}
}

func clampAxis(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return ClampF(v, -1, 1)
}

// IsZero reports whether the vector carries no input.
func (c Controls) IsZero() bool {
	return c.X == 0 && c.Y == 0
}

// Vec returns the control vector as a Vec2.
func (c Controls) Vec() Vec2 {
	return Vec2{X: c.X, Y: c.Y}
}

// InputBuffer holds the most recent control vector per actor.
// Writers overwrite (last value wins); the scheduler reads it once per tick.
// It is not safe for concurrent use: hosts funnel submissions through their
// own tick loop before they reach the buffer.
type InputBuffer struct {
	latest map[ActorID]Controls
}

// NewInputBuffer creates an empty input buffer.
func NewInputBuffer() *InputBuffer {
	return &InputBuffer{latest: make(map[ActorID]Controls)}
}

// Submit records c as the actor's current control vector.
func (b *InputBuffer) Submit(id ActorID, c Controls) {
	if b.latest == nil {
		b.latest = make(map[ActorID]Controls)
	}
	b.latest[id] = c.Clamped()
}

// Get returns the actor's latest control vector.
// An actor that never submitted anything reads as {0, 0}.
func (b *InputBuffer) Get(id ActorID) Controls {
	if b.latest == nil {
		return Controls{}
	}
	return b.latest[id]
}

// Drop forgets an actor's buffered input.
func (b *InputBuffer) Drop(id ActorID) {
	delete(b.latest, id)
}

// Len returns the number of actors with buffered input.
func (b *InputBuffer) Len() int {
	return len(b.latest)
}
