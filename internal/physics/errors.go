package physics

import "errors"

// Lookup failures are invariant violations: the caller holds an id the world
// no longer (or never) knew about. They are returned wrapped with the
// operation name and the offending id; test them with errors.Is.
var (
	ErrBodyNotFound  = errors.New("body not found")
	ErrShapeNotFound = errors.New("shape not found")
	ErrJointNotFound = errors.New("joint not found")

	// ErrInvalidBody reports a body definition the world cannot accept.
	ErrInvalidBody = errors.New("invalid body")
	// ErrInvalidJoint reports a joint whose anchors do not belong to its bodies.
	ErrInvalidJoint = errors.New("invalid joint")
)
