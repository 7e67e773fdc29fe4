package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-grove/internal/core"
	_ "github.com/vovakirdan/tui-grove/internal/games/grove"
	"github.com/vovakirdan/tui-grove/internal/multiplayer"
)

// recorder is a ControlSender that keeps every message.
type recorder struct {
	msgs []multiplayer.CoordinatorMessage
}

func (r *recorder) Send(msg multiplayer.CoordinatorMessage) {
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) last() multiplayer.CoordinatorMessage {
	if len(r.msgs) == 0 {
		return nil
	}
	return r.msgs[len(r.msgs)-1]
}

func newTestSession(initial *LobbySelection) (SessionModel, *recorder) {
	rec := &recorder{}
	session := multiplayer.NewChannelSession("s1", 8)
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60}
	return NewSessionModel(rec, session, nil, cfg, initial), rec
}

func update(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T, expected SessionModel", next)
	}
	return sm
}

func TestSessionJoinsInitialRoom(t *testing.T) {
	m, rec := newTestSession(&LobbySelection{Code: "ABC123", Mode: "grove"})
	m = update(t, m, *m.initial)

	if m.state != stateRoom {
		t.Fatalf("state = %v, expected room", m.state)
	}
	join, ok := rec.last().(multiplayer.JoinRoomMsg)
	if !ok {
		t.Fatalf("last message = %T, expected JoinRoomMsg", rec.last())
	}
	if join.SessionID != "s1" || join.Code != "ABC123" || join.Mode != "grove" {
		t.Errorf("JoinRoomMsg = %+v", join)
	}
}

func TestSessionLobbySelect(t *testing.T) {
	m, rec := newTestSession(nil)
	if m.state != stateLobby {
		t.Fatalf("state = %v, expected lobby", m.state)
	}
	m = update(t, m, keyMsg("enter"))
	if m.state != stateRoom {
		t.Fatalf("state after enter = %v, expected room", m.state)
	}
	join, ok := rec.last().(multiplayer.JoinRoomMsg)
	if !ok || join.Mode == "" || join.Code != "" {
		t.Errorf("last message = %+v, expected a JoinRoomMsg for a new room", rec.last())
	}
}

func TestSessionJoinByCode(t *testing.T) {
	m, rec := newTestSession(nil)
	for _, k := range []string{"tab", "a", "b", "9", "!", "enter"} {
		m = update(t, m, keyMsg(k))
	}
	join, ok := rec.last().(multiplayer.JoinRoomMsg)
	if !ok || join.Code != "AB9" {
		t.Errorf("last message = %+v, expected JoinRoomMsg for AB9", rec.last())
	}
}

func TestSessionControlsAndRelease(t *testing.T) {
	m, rec := newTestSession(&LobbySelection{Mode: "grove"})
	m = update(t, m, *m.initial)

	m = update(t, m, keyMsg("right"))
	ctl, ok := rec.last().(multiplayer.ControlsMsg)
	if !ok || ctl.Controls != (core.Controls{X: 1}) {
		t.Fatalf("last message = %+v, expected ControlsMsg{X: 1}", rec.last())
	}

	sent := len(rec.msgs)
	for range HoldTicks {
		m = update(t, m, TickMsg{})
	}
	if len(rec.msgs) != sent+1 {
		t.Fatalf("messages after hold = %d, expected one release", len(rec.msgs)-sent)
	}
	ctl, ok = rec.last().(multiplayer.ControlsMsg)
	if !ok || !ctl.Controls.IsZero() {
		t.Errorf("release message = %+v, expected zero controls", rec.last())
	}
}

func TestSessionShowsSnapshots(t *testing.T) {
	m, _ := newTestSession(&LobbySelection{Mode: "grove"})
	m = update(t, m, *m.initial)

	m = update(t, m, SessionEventMsg{Event: multiplayer.RoomJoinedEvent{Code: "XYZ789", Mode: "grove", Actor: "s1"}})
	snap := testSnapshot()
	m = update(t, m, SessionEventMsg{Event: multiplayer.SnapshotEvent{Frame: snap.Frame, Snapshot: snap}})
	if m.viewer.snap != snap {
		t.Fatal("viewer did not keep the broadcast snapshot")
	}
	if m.viewer.code != "XYZ789" {
		t.Errorf("viewer code = %q, expected XYZ789", m.viewer.code)
	}

	m = update(t, m, SessionEventMsg{Event: multiplayer.RoomClosedEvent{Reason: multiplayer.EndReasonStopped, Frames: 9}})
	if !m.viewer.Closed() {
		t.Error("viewer did not mark the room closed")
	}
	if v := m.View(); v == "" {
		t.Error("View() is empty after the room closed")
	}
}

func TestSessionLeaveReturnsToLobby(t *testing.T) {
	m, rec := newTestSession(&LobbySelection{Mode: "grove"})
	m = update(t, m, *m.initial)
	m = update(t, m, keyMsg("esc"))

	if m.state != stateLobby {
		t.Errorf("state after esc = %v, expected lobby", m.state)
	}
	if _, ok := rec.last().(multiplayer.LeaveRoomMsg); !ok {
		t.Errorf("last message = %T, expected LeaveRoomMsg", rec.last())
	}
}

func TestSessionRunsBoardWithoutStore(t *testing.T) {
	m, _ := newTestSession(nil)
	m = update(t, m, keyMsg("r"))
	if m.state != stateRuns {
		t.Fatalf("state = %v, expected runs", m.state)
	}
	if m.View() == "" {
		t.Error("runs board rendered nothing")
	}
	m = update(t, m, keyMsg("esc"))
	if m.state != stateLobby {
		t.Errorf("state after esc = %v, expected lobby", m.state)
	}
}

func TestSelectionFromArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want *LobbySelection
	}{
		{"none", nil, nil},
		{"code", []string{"abc123"}, &LobbySelection{Code: "ABC123"}},
		{"code and mode", []string{" xyz ", "hillclimb"}, &LobbySelection{Code: "XYZ", Mode: "hillclimb"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selectionFromArgs(tt.args)
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("selectionFromArgs(%v) = %+v, expected %+v", tt.args, got, tt.want)
			}
		})
	}
}
