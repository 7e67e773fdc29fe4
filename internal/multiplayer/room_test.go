package multiplayer

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/tui-grove/internal/config"
	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/games/grove"
	"github.com/vovakirdan/tui-grove/internal/sim"
)

func testScheduler(t *testing.T, seed int64) *sim.Scheduler {
	t.Helper()
	cfg := config.DefaultGroveConfig()
	cfg.Growth.InitialTrees = 0
	cfg.Projectiles.Enabled = false
	s := sim.New(grove.New(cfg), cfg, seed)
	if err := s.Setup(nil); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	return s
}

// waitEvent reads events until one of type T arrives.
func waitEvent[T SessionEvent](t *testing.T, s *ChannelSession) T {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case evt := <-s.Events():
			if e, ok := evt.(T); ok {
				return e
			}
		case <-timeout:
			var zero T
			t.Fatalf("session %s: timed out waiting for %T", s.ID(), zero)
			return zero
		}
	}
}

func TestRoomWaitsForFirstMember(t *testing.T) {
	room := NewRoom("r1", "CODE", 1, testScheduler(t, 1), 60, nil)
	for range 3 {
		if _, done := room.runTick(); done {
			t.Fatal("empty room closed before anyone joined")
		}
	}
	if got := room.sched.Frame(); got != 0 {
		t.Errorf("Frame() = %d, expected 0 while waiting", got)
	}
}

func TestRoomJoinTickLeave(t *testing.T) {
	room := NewRoom("r1", "CODE", 1, testScheduler(t, 1), 60, nil)
	a := NewChannelSession("a", 64)

	room.Join(a)
	if _, done := room.runTick(); done {
		t.Fatal("room closed after join")
	}
	joined := waitEvent[RoomJoinedEvent](t, a)
	if joined.Actor != "a" || joined.Code != "CODE" || joined.Mode != "grove" {
		t.Errorf("RoomJoinedEvent = %+v", joined)
	}
	snap := waitEvent[SnapshotEvent](t, a)
	if snap.Frame != 1 {
		t.Errorf("snapshot frame = %d, expected 1", snap.Frame)
	}
	if _, ok := snap.Snapshot.Actor("a"); !ok {
		t.Error("snapshot has no actor a")
	}

	room.SubmitControls("a", core.Controls{X: 3})
	room.SubmitControls("ghost", core.Controls{X: 1})
	if _, done := room.runTick(); done {
		t.Fatal("room closed after controls")
	}
	snap = waitEvent[SnapshotEvent](t, a)
	state, _ := snap.Snapshot.Actor("a")
	if state.Controls != (core.Controls{X: 1}) {
		t.Errorf("controls = %+v, expected clamped {1 0}", state.Controls)
	}
	if state.Velocity.X <= 0 {
		t.Errorf("velocity = %v, expected moving right", state.Velocity)
	}

	room.Leave("a")
	res, done := room.runTick()
	if !done {
		t.Fatal("room stayed open after last member left")
	}
	if res.Reason != EndReasonEmpty || res.PeakActors != 1 || res.Frames != 2 {
		t.Errorf("result = %+v, expected empty after 2 frames with 1 actor", res)
	}
}

func TestRoomRejectsDuplicateJoin(t *testing.T) {
	room := NewRoom("r1", "CODE", 1, testScheduler(t, 1), 60, nil)
	a := NewChannelSession("a", 64)
	room.Join(a)
	room.Join(a)
	room.runTick()

	waitEvent[RoomErrorEvent](t, a)
	if len(room.members) != 1 {
		t.Errorf("members = %d, expected 1", len(room.members))
	}
}

func TestRoomDropsClosedSessions(t *testing.T) {
	room := NewRoom("r1", "CODE", 1, testScheduler(t, 1), 60, nil)
	a := NewChannelSession("a", 64)
	b := NewChannelSession("b", 64)
	room.Join(a)
	room.Join(b)
	room.runTick()

	a.Close()
	if _, done := room.runTick(); done {
		t.Fatal("room closed with a member left")
	}
	if _, ok := room.members["a"]; ok {
		t.Error("closed session is still a member")
	}
	if got := room.sched.Actors(); len(got) != 1 || got[0] != "b" {
		t.Errorf("Actors() = %v, expected [b]", got)
	}
}

func TestRoomRunStopsOnContext(t *testing.T) {
	room := NewRoom("r1", "CODE", 1, testScheduler(t, 1), 200, nil)
	a := NewChannelSession("a", 64)
	room.Join(a)

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan RoomResult, 1)
	go room.Run(ctx, func(r RoomResult) { results <- r })

	waitEvent[SnapshotEvent](t, a)
	cancel()

	select {
	case res := <-results:
		if res.Reason != EndReasonStopped {
			t.Errorf("Reason = %v, expected stopped", res.Reason)
		}
		if res.Frames == 0 {
			t.Error("Frames = 0, expected the room to have ticked")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("room did not stop")
	}
	closed := waitEvent[RoomClosedEvent](t, a)
	if closed.Reason != EndReasonStopped {
		t.Errorf("RoomClosedEvent.Reason = %v, expected stopped", closed.Reason)
	}
	if !room.Stopped() {
		t.Error("Stopped() = false after Run returned")
	}
}

func TestEndReasonString(t *testing.T) {
	tests := []struct {
		reason EndReason
		want   string
	}{
		{EndReasonEmpty, "empty"},
		{EndReasonError, "error"},
		{EndReasonStopped, "stopped"},
		{EndReason(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("String() = %q, expected %q", got, tt.want)
		}
	}
}
