package physics

import "fmt"

// BodyID is a generational handle to a body in a World.
// The zero value never refers to a body.
type BodyID uint64

// ShapeID is a generational handle to a shape. The zero value means "no shape".
type ShapeID uint64

// JointID is a generational handle to a joint.
type JointID uint64

func (id BodyID) String() string  { return fmt.Sprintf("body %#x", uint64(id)) }
func (id ShapeID) String() string { return fmt.Sprintf("shape %#x", uint64(id)) }
func (id JointID) String() string { return fmt.Sprintf("joint %#x", uint64(id)) }

// A handle packs the slot index into the low 32 bits and the slot generation
// into the high 32 bits. Generations start at 1, so handle 0 is always invalid
// and a stale handle stops resolving as soon as its slot is reused.
func makeHandle(index, gen uint32) uint64 {
	return uint64(gen)<<32 | uint64(index)
}

func splitHandle(h uint64) (index, gen uint32) {
	return uint32(h), uint32(h >> 32) //#nosec G115 -- intentional truncation
}

type arenaSlot[T any] struct {
	gen  uint32
	used bool
	val  T
}

// arena stores values in stable slots addressed by generational handles.
// Freed slots are reused in LIFO order, which keeps id assignment
// deterministic for identical mutation sequences.
type arena[T any] struct {
	slots []arenaSlot[T]
	free  []uint32
	live  int
}

func (a *arena[T]) insert(v T) uint64 {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots)) //#nosec G115 -- arenas never approach 2^32 entries
		a.slots = append(a.slots, arenaSlot[T]{})
	}

	s := &a.slots[idx]
	s.gen++
	s.used = true
	s.val = v
	a.live++
	return makeHandle(idx, s.gen)
}

func (a *arena[T]) get(h uint64) (T, bool) {
	var zero T
	idx, gen := splitHandle(h)
	if int(idx) >= len(a.slots) {
		return zero, false
	}
	s := a.slots[idx]
	if !s.used || s.gen != gen {
		return zero, false
	}
	return s.val, true
}

func (a *arena[T]) remove(h uint64) bool {
	idx, gen := splitHandle(h)
	if int(idx) >= len(a.slots) {
		return false
	}
	s := &a.slots[idx]
	if !s.used || s.gen != gen {
		return false
	}
	var zero T
	s.val = zero
	s.used = false
	a.free = append(a.free, idx)
	a.live--
	return true
}

func (a *arena[T]) len() int {
	return a.live
}
