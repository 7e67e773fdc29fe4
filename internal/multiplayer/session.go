package multiplayer

import (
	"sync"
	"sync/atomic"
)

// DefaultEventBuffer is the event queue length used when a session is
// created with a non-positive size.
const DefaultEventBuffer = 64

// SessionHandle is how rooms and the coordinator reach a viewer without
// knowing whether it sits behind SSH or a local terminal.
type SessionHandle interface {
	ID() SessionID

	// Send queues an event. It must never block the room loop.
	Send(evt SessionEvent)

	// Done closes when the viewer goes away.
	Done() <-chan struct{}
}

// ChannelSession queues events for a Bubble Tea program.
//
// A room publishes a snapshot every tick, so snapshots are expendable: when
// the queue is full a new snapshot is dropped and counted. Lifecycle events
// (joined, error, closed) evict the oldest queued event instead, so a viewer
// always learns that its room ended.
type ChannelSession struct {
	id      SessionID
	events  chan SessionEvent
	done    chan struct{}
	once    sync.Once
	mu      sync.Mutex
	dropped atomic.Uint64
}

// NewChannelSession creates a session with room for size pending events.
func NewChannelSession(id SessionID, size int) *ChannelSession {
	if size < 1 {
		size = DefaultEventBuffer
	}
	return &ChannelSession{
		id:     id,
		events: make(chan SessionEvent, size),
		done:   make(chan struct{}),
	}
}

func (s *ChannelSession) ID() SessionID { return s.id }

// Send queues evt following the snapshot drop policy. Sends after Close are
// ignored.
func (s *ChannelSession) Send(evt SessionEvent) {
	select {
	case <-s.done:
		return
	default:
	}

	// Serialize writers so an eviction cannot race another sender into the
	// freed slot.
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case s.events <- evt:
		return
	default:
	}

	if _, ok := evt.(SnapshotEvent); ok {
		s.dropped.Add(1)
		return
	}

	select {
	case old := <-s.events:
		if _, ok := old.(SnapshotEvent); ok {
			s.dropped.Add(1)
		}
	default:
	}
	select {
	case s.events <- evt:
	default:
	}
}

// Events is the receive side read by the TUI.
func (s *ChannelSession) Events() <-chan SessionEvent {
	return s.events
}

func (s *ChannelSession) Done() <-chan struct{} {
	return s.done
}

// Dropped reports how many snapshots never reached the viewer.
func (s *ChannelSession) Dropped() uint64 {
	return s.dropped.Load()
}

// Close ends the session. Safe to call more than once.
func (s *ChannelSession) Close() {
	s.once.Do(func() { close(s.done) })
}

// SessionRegistry maps session ids to live handles for the coordinator.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]SessionHandle
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[SessionID]SessionHandle)}
}

// Register adds or replaces the handle stored under session.ID().
func (r *SessionRegistry) Register(session SessionHandle) {
	r.mu.Lock()
	r.sessions[session.ID()] = session
	r.mu.Unlock()
}

func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Get looks up a live session.
func (r *SessionRegistry) Get(id SessionID) (SessionHandle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}
