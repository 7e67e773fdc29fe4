package multiplayer

import (
	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/sim"
)

// SessionEvent represents an event sent from a room or the coordinator to a
// session.
type SessionEvent interface {
	sessionEvent()
}

// RoomJoinedEvent is sent when a session enters a room.
type RoomJoinedEvent struct {
	Room  RoomID
	Code  string
	Mode  string
	Actor core.ActorID
}

func (RoomJoinedEvent) sessionEvent() {}

// RoomErrorEvent is sent when a room operation fails for one session.
type RoomErrorEvent struct {
	Message string
}

func (RoomErrorEvent) sessionEvent() {}

// SnapshotEvent carries the state after a tick. The snapshot is detached
// and shared by every member; receivers must not modify it.
type SnapshotEvent struct {
	Room     RoomID
	Frame    uint64
	Snapshot *sim.Snapshot
}

func (SnapshotEvent) sessionEvent() {}

// RoomClosedEvent is sent to the remaining members when a room ends.
type RoomClosedEvent struct {
	Room   RoomID
	Reason EndReason
	Frames uint64
}

func (RoomClosedEvent) sessionEvent() {}

// CoordinatorMessage represents a message from a session to the coordinator.
type CoordinatorMessage interface {
	coordinatorMessage()
}

// JoinRoomMsg joins the room with the given code, creating it in Mode when
// it does not exist. An empty code creates a room with a fresh code.
type JoinRoomMsg struct {
	SessionID SessionID
	Code      string
	Mode      string
}

func (JoinRoomMsg) coordinatorMessage() {}

// LeaveRoomMsg leaves the session's current room.
type LeaveRoomMsg struct {
	SessionID SessionID
}

func (LeaveRoomMsg) coordinatorMessage() {}

// ControlsMsg submits the session's latest control vector.
type ControlsMsg struct {
	SessionID SessionID
	Controls  core.Controls
}

func (ControlsMsg) coordinatorMessage() {}

// SessionDisconnectedMsg is sent when a session disconnects.
type SessionDisconnectedMsg struct {
	SessionID SessionID
}

func (SessionDisconnectedMsg) coordinatorMessage() {}
