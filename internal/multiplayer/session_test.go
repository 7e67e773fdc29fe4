package multiplayer

import (
	"testing"
)

func drain(s *ChannelSession) []SessionEvent {
	var out []SessionEvent
	for {
		select {
		case evt := <-s.Events():
			out = append(out, evt)
		default:
			return out
		}
	}
}

func TestSessionDropsSnapshotsWhenFull(t *testing.T) {
	s := NewChannelSession("a", 2)
	for i := range 5 {
		s.Send(SnapshotEvent{Frame: uint64(i + 1)})
	}
	if got := s.Dropped(); got != 3 {
		t.Errorf("Dropped() = %d, expected 3", got)
	}
	events := drain(s)
	if len(events) != 2 {
		t.Fatalf("queued events = %d, expected 2", len(events))
	}
	if f := events[0].(SnapshotEvent).Frame; f != 1 {
		t.Errorf("first queued frame = %d, expected 1", f)
	}
}

func TestSessionKeepsLifecycleEvents(t *testing.T) {
	s := NewChannelSession("a", 2)
	s.Send(SnapshotEvent{Frame: 1})
	s.Send(SnapshotEvent{Frame: 2})
	s.Send(RoomClosedEvent{Reason: EndReasonEmpty, Frames: 2})

	events := drain(s)
	if len(events) != 2 {
		t.Fatalf("queued events = %d, expected 2", len(events))
	}
	if _, ok := events[1].(RoomClosedEvent); !ok {
		t.Errorf("last event = %T, expected RoomClosedEvent", events[1])
	}
	if got := s.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, expected 1", got)
	}
}

func TestSessionIgnoresSendAfterClose(t *testing.T) {
	s := NewChannelSession("a", 0)
	s.Close()
	s.Close()
	s.Send(RoomErrorEvent{Message: "late"})
	if n := len(drain(s)); n != 0 {
		t.Errorf("events after close = %d, expected 0", n)
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done() not closed after Close()")
	}
}

func TestSessionRegistry(t *testing.T) {
	r := NewSessionRegistry()
	s := NewChannelSession("a", 1)
	r.Register(s)
	if got, ok := r.Get("a"); !ok || got.ID() != "a" {
		t.Errorf("Get(a) = %v, %v, expected the registered session", got, ok)
	}
	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("Get(a) found a session after Unregister")
	}
}
