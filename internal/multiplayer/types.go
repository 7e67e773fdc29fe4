// Package multiplayer hosts shared simulations. A Room runs one scheduler
// at a fixed rate for any number of sessions; the Coordinator routes
// session messages to rooms keyed by join code.
package multiplayer

import "github.com/vovakirdan/tui-grove/internal/core"

// SessionID uniquely identifies a player's session (e.g., SSH connection).
type SessionID string

// RoomID uniquely identifies one run of a room.
type RoomID string

// ActorOf maps a session to the actor it drives inside a simulation.
func ActorOf(id SessionID) core.ActorID {
	return core.ActorID(id)
}

// EndReason describes why a room closed.
type EndReason int

const (
	EndReasonEmpty   EndReason = iota // Last member left
	EndReasonError                    // The simulation failed
	EndReasonStopped                  // Host shut the room down
)

func (r EndReason) String() string {
	switch r {
	case EndReasonEmpty:
		return "empty"
	case EndReasonError:
		return "error"
	case EndReasonStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
