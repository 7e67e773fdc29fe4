package physics

import (
	"fmt"
	"slices"
)

// Exclude forbids any interaction between bodies a and b. The relation is
// stored in both directions.
func (w *World) Exclude(a, b BodyID) error {
	if err := w.checkPair("exclude", a, b); err != nil {
		return err
	}
	w.addExclusion(a, b)
	w.addExclusion(b, a)
	return nil
}

// Include lifts an exclusion between a and b in both directions. A body's
// entry is deleted once it excludes nothing.
func (w *World) Include(a, b BodyID) error {
	if err := w.checkPair("include", a, b); err != nil {
		return err
	}
	w.removeExclusion(a, b)
	w.removeExclusion(b, a)
	return nil
}

// Excluded reports whether a and b must not interact.
func (w *World) Excluded(a, b BodyID) bool {
	set, ok := w.exclusions[a]
	if !ok {
		return false
	}
	_, ok = set[b]
	return ok
}

// ExclusionsOf returns the bodies excluded from id, sorted by id.
func (w *World) ExclusionsOf(id BodyID) []BodyID {
	set := w.exclusions[id]
	out := make([]BodyID, 0, len(set))
	for other := range set {
		out = append(out, other)
	}
	slices.Sort(out)
	return out
}

// ExclusionEntries returns the number of bodies with a non-empty exclusion
// set.
func (w *World) ExclusionEntries() int {
	return len(w.exclusions)
}

func (w *World) checkPair(op string, a, b BodyID) error {
	if !w.HasBody(a) {
		return fmt.Errorf("physics: %s: %v: %w", op, a, ErrBodyNotFound)
	}
	if !w.HasBody(b) {
		return fmt.Errorf("physics: %s: %v: %w", op, b, ErrBodyNotFound)
	}
	return nil
}

func (w *World) addExclusion(a, b BodyID) {
	set, ok := w.exclusions[a]
	if !ok {
		set = make(map[BodyID]struct{})
		w.exclusions[a] = set
	}
	set[b] = struct{}{}
}

func (w *World) removeExclusion(a, b BodyID) {
	set, ok := w.exclusions[a]
	if !ok {
		return
	}
	delete(set, b)
	if len(set) == 0 {
		delete(w.exclusions, a)
	}
}

// dropExclusions removes every pair involving id, from both sides.
func (w *World) dropExclusions(id BodyID) {
	for other := range w.exclusions[id] {
		w.removeExclusion(other, id)
	}
	delete(w.exclusions, id)
}
