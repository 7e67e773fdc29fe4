package sim

import "github.com/vovakirdan/tui-grove/internal/physics"

// Payload is the game-rule state attached to a body through Body.Tag.
// The set of variants is closed; a body with no payload is a plain physical
// body.
type Payload interface {
	payload()
	// Kind names the variant for logs and snapshots.
	Kind() string
}

// Expiring marks a body removed when the world reaches ExpiryFrame.
// A non-zero Origin had its collisions with this body excluded at spawn and
// gets them re-included before removal.
type Expiring struct {
	ExpiryFrame uint64
	Origin      physics.BodyID
}

// SeedPending marks a seed waiting one tick to learn whether it landed in
// shade.
type SeedPending struct {
	SeedFrame uint64 // frame the seed was dropped
}

// Tree carries two independent frame triggers: one for dropping seeds and
// one for the next growth check.
type Tree struct {
	SeedFrame uint64
	GrowFrame uint64
}

// SpaceProbe marks a transient body used for an overlap query.
type SpaceProbe struct{}

// Only the pointer forms are payloads; the rules update them in place.
func (*Expiring) payload()    {}
func (*SeedPending) payload() {}
func (*Tree) payload()        {}
func (*SpaceProbe) payload()  {}

func (*Expiring) Kind() string    { return "expiring" }
func (*SeedPending) Kind() string { return "seed" }
func (*Tree) Kind() string        { return "tree" }
func (*SpaceProbe) Kind() string  { return "probe" }

// PayloadOf returns the body's payload, or nil for a plain body. A tag
// that is not one of the payload pointers reads as a plain body.
func PayloadOf(b *physics.Body) Payload {
	return payloadOf(b.Tag)
}

func payloadOf(tag any) Payload {
	p, _ := tag.(Payload)
	return p
}

// copyPayload returns a detached copy of a live payload.
func copyPayload(p Payload) Payload {
	switch v := p.(type) {
	case *Expiring:
		if v == nil {
			return nil
		}
		c := *v
		return &c
	case *SeedPending:
		if v == nil {
			return nil
		}
		c := *v
		return &c
	case *Tree:
		if v == nil {
			return nil
		}
		c := *v
		return &c
	case *SpaceProbe:
		if v == nil {
			return nil
		}
		return &SpaceProbe{}
	default:
		return nil
	}
}
