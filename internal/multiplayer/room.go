package multiplayer

import (
	"context"
	"errors"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/sim"
)

// RoomResult contains the outcome of a closed room.
type RoomResult struct {
	Room       RoomID
	Code       string
	Mode       string
	Seed       int64
	Reason     EndReason
	Err        error // set when Reason is EndReasonError
	Frames     uint64
	PeakActors int
	Counts     sim.Counts
	Hash       uint64
	Started    time.Time
	Duration   time.Duration
}

// Room is the authoritative loop for one shared simulation.
//
// Joins, leaves and controls arrive on buffered channels from any goroutine
// and are applied only at the next tick boundary, in that order. The
// scheduler itself is touched only by the Run goroutine.
type Room struct {
	id    RoomID
	code  string
	seed  int64
	sched *sim.Scheduler

	members map[SessionID]SessionHandle
	order   []SessionID
	peak    int
	started time.Time

	joins    chan SessionHandle
	leaves   chan SessionID
	controls chan controlInput

	tickRate int
	logger   *log.Logger
	done     chan struct{}
	doneOnce sync.Once
}

type controlInput struct {
	session  SessionID
	controls core.Controls
}

// NewRoom creates a room around a scheduler that has already been set up.
func NewRoom(id RoomID, code string, seed int64, sched *sim.Scheduler, tickRate int, logger *log.Logger) *Room {
	if tickRate < 1 {
		tickRate = 60
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Room{
		id:       id,
		code:     code,
		seed:     seed,
		sched:    sched,
		members:  make(map[SessionID]SessionHandle),
		joins:    make(chan SessionHandle, 16),
		leaves:   make(chan SessionID, 16),
		controls: make(chan controlInput, 256),
		tickRate: tickRate,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// ID returns the room identifier.
func (r *Room) ID() RoomID {
	return r.id
}

// Code returns the join code of this room.
func (r *Room) Code() string {
	return r.code
}

// Mode returns the mode id of the simulation.
func (r *Room) Mode() string {
	return r.sched.Mode().ID()
}

// Join queues a session to join at the next tick.
func (r *Room) Join(session SessionHandle) {
	select {
	case r.joins <- session:
	case <-r.done:
	}
}

// Leave queues a session to leave at the next tick.
func (r *Room) Leave(id SessionID) {
	select {
	case r.leaves <- id:
	case <-r.done:
	}
}

// SubmitControls sends a session's control vector to the room.
// Non-blocking; a full buffer drops the update.
func (r *Room) SubmitControls(id SessionID, c core.Controls) {
	select {
	case r.controls <- controlInput{session: id, controls: c}:
	default:
	}
}

// Run starts the authoritative room loop. onComplete is called once the
// room closes.
func (r *Room) Run(ctx context.Context, onComplete func(RoomResult)) {
	defer r.Stop()

	r.started = time.Now()
	ticker := time.NewTicker(time.Second / time.Duration(r.tickRate))
	defer ticker.Stop()

	finish := func(res RoomResult) {
		r.Stop()
		r.logger.Info("room closed", "room", r.id, "reason", res.Reason, "frames", res.Frames)
		r.broadcast(RoomClosedEvent{Room: r.id, Reason: res.Reason, Frames: res.Frames})
		if onComplete != nil {
			onComplete(res)
		}
	}

	for {
		select {
		case <-ticker.C:
			if res, done := r.runTick(); done {
				finish(res)
				return
			}
		case <-ctx.Done():
			finish(r.result(EndReasonStopped, nil))
			return
		case <-r.done:
			finish(r.result(EndReasonStopped, nil))
			return
		}
	}
}

// runTick applies queued membership and controls, ticks the scheduler and
// broadcasts the snapshot. It reports true when the room should close.
func (r *Room) runTick() (RoomResult, bool) {
	if err := r.drain(); err != nil {
		r.logger.Error("room membership failed", "room", r.id, "err", err)
		return r.result(EndReasonError, err), true
	}
	if len(r.members) == 0 {
		if r.peak > 0 {
			return r.result(EndReasonEmpty, nil), true
		}
		return RoomResult{}, false
	}

	if err := r.sched.Tick(); err != nil {
		r.logger.Error("tick failed", "room", r.id, "err", err)
		return r.result(EndReasonError, err), true
	}

	snap := r.sched.Snapshot()
	r.broadcast(SnapshotEvent{Room: r.id, Frame: snap.Frame, Snapshot: &snap})
	return RoomResult{}, false
}

func (r *Room) drain() error {
	r.drainJoins()
	for _, id := range r.order {
		select {
		case <-r.members[id].Done():
			r.queueLeave(id)
		default:
		}
	}
	if err := r.drainLeaves(); err != nil {
		return err
	}
	return r.drainControls()
}

func (r *Room) drainJoins() {
	for {
		select {
		case s := <-r.joins:
			r.join(s)
		default:
			return
		}
	}
}

func (r *Room) drainLeaves() error {
	for {
		select {
		case id := <-r.leaves:
			if err := r.leave(id); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// drainControls forwards queued controls; the scheduler keeps the last
// value per actor.
func (r *Room) drainControls() error {
	for {
		select {
		case in := <-r.controls:
			if _, ok := r.members[in.session]; !ok {
				continue
			}
			if err := r.sched.SubmitControls(ActorOf(in.session), in.controls.Clamped()); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (r *Room) queueLeave(id SessionID) {
	select {
	case r.leaves <- id:
	default:
	}
}

func (r *Room) join(s SessionHandle) {
	id := s.ID()
	if _, ok := r.members[id]; ok {
		s.Send(RoomErrorEvent{Message: "Already in this room"})
		return
	}
	if err := r.sched.ActorJoined(ActorOf(id)); err != nil {
		r.logger.Warn("join rejected", "room", r.id, "session", id, "err", err)
		s.Send(RoomErrorEvent{Message: "Cannot join room"})
		return
	}
	r.members[id] = s
	r.order = append(r.order, id)
	r.peak = max(r.peak, len(r.members))
	r.logger.Info("session joined", "room", r.id, "session", id, "members", len(r.members))
	s.Send(RoomJoinedEvent{Room: r.id, Code: r.code, Mode: r.Mode(), Actor: ActorOf(id)})
}

func (r *Room) leave(id SessionID) error {
	if _, ok := r.members[id]; !ok {
		return nil
	}
	if err := r.sched.ActorLeft(ActorOf(id)); err != nil && !errors.Is(err, sim.ErrUnknownActor) {
		return err
	}
	delete(r.members, id)
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	r.logger.Info("session left", "room", r.id, "session", id, "members", len(r.members))
	return nil
}

func (r *Room) broadcast(evt SessionEvent) {
	for _, id := range r.order {
		r.members[id].Send(evt)
	}
}

func (r *Room) result(reason EndReason, err error) RoomResult {
	snap := r.sched.Snapshot()
	return RoomResult{
		Room:       r.id,
		Code:       r.code,
		Mode:       r.Mode(),
		Seed:       r.seed,
		Reason:     reason,
		Err:        err,
		Frames:     snap.Frame,
		PeakActors: r.peak,
		Counts:     snap.Counts,
		Hash:       snap.Hash(),
		Started:    r.started,
		Duration:   time.Since(r.started),
	}
}

// Done returns a channel that closes when the room stops.
func (r *Room) Done() <-chan struct{} {
	return r.done
}

// Stopped reports whether the room has stopped.
func (r *Room) Stopped() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Stop gracefully stops the room.
func (r *Room) Stop() {
	r.doneOnce.Do(func() {
		close(r.done)
	})
}
