package multiplayer

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-grove/internal/sim"
)

// CoordinatorConfig holds configuration for the coordinator.
type CoordinatorConfig struct {
	TickRate    int    // Room tick rate (Hz)
	DefaultMode string // Mode for rooms created without one
}

// DefaultCoordinatorConfig returns sensible defaults.
func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		TickRate:    60,
		DefaultMode: "grove",
	}
}

// SchedulerFactory builds a set-up scheduler for a new room.
type SchedulerFactory func(mode string, seed int64) (*sim.Scheduler, error)

// RunSaver persists the results of closed rooms.
// This allows the coordinator to save results without depending on the
// storage package.
type RunSaver interface {
	SaveRoomResult(result RoomResult) error
}

// Coordinator routes session messages to rooms keyed by join code.
type Coordinator struct {
	config   CoordinatorConfig
	factory  SchedulerFactory
	sessions *SessionRegistry
	saver    RunSaver // Optional, can be nil
	logger   *log.Logger

	mu          sync.RWMutex
	rooms       map[string]*Room     // code -> room
	sessionRoom map[SessionID]string // sessionID -> room code

	msgChan chan CoordinatorMessage
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewCoordinator creates a new coordinator.
func NewCoordinator(cfg CoordinatorConfig, factory SchedulerFactory, sessions *SessionRegistry) *Coordinator {
	if cfg.DefaultMode == "" {
		cfg.DefaultMode = DefaultCoordinatorConfig().DefaultMode
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		config:      cfg,
		factory:     factory,
		sessions:    sessions,
		logger:      log.New(io.Discard),
		rooms:       make(map[string]*Room),
		sessionRoom: make(map[SessionID]string),
		msgChan:     make(chan CoordinatorMessage, 256),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetRunSaver sets the optional result saver.
func (c *Coordinator) SetRunSaver(saver RunSaver) {
	c.saver = saver
}

// SetLogger sets the logger for room lifecycle events.
func (c *Coordinator) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Start begins the coordinator's background processing.
func (c *Coordinator) Start() {
	go c.processMessages()
}

// Stop shuts down the coordinator and every room, waiting for the rooms to
// report their results.
func (c *Coordinator) Stop() {
	c.cancel()
	c.wg.Wait()
}

// Send sends a message to the coordinator for async processing.
func (c *Coordinator) Send(msg CoordinatorMessage) {
	select {
	case c.msgChan <- msg:
	case <-c.ctx.Done():
	}
}

func (c *Coordinator) processMessages() {
	for {
		select {
		case msg := <-c.msgChan:
			c.handleMessage(msg)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Coordinator) handleMessage(msg CoordinatorMessage) {
	switch m := msg.(type) {
	case JoinRoomMsg:
		c.handleJoinRoom(m)
	case LeaveRoomMsg:
		c.handleLeave(m.SessionID)
	case ControlsMsg:
		c.handleControls(m)
	case SessionDisconnectedMsg:
		c.handleLeave(m.SessionID)
	}
}

func (c *Coordinator) handleJoinRoom(msg JoinRoomMsg) {
	session, ok := c.sessions.Get(msg.SessionID)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if code, inRoom := c.sessionRoom[msg.SessionID]; inRoom {
		session.Send(RoomErrorEvent{Message: fmt.Sprintf("Already in room %s", code)})
		return
	}

	code := strings.ToUpper(strings.TrimSpace(msg.Code))
	room, exists := c.rooms[code]
	if exists && room.Stopped() {
		exists = false
	}
	if !exists {
		if code == "" {
			code = c.generateUniqueCode()
		}
		mode := msg.Mode
		if mode == "" {
			mode = c.config.DefaultMode
		}
		var err error
		room, err = c.openRoom(code, mode)
		if err != nil {
			c.logger.Error("cannot open room", "code", code, "mode", mode, "err", err)
			session.Send(RoomErrorEvent{Message: "Failed to create room"})
			return
		}
	}

	c.sessionRoom[msg.SessionID] = code
	room.Join(session)
}

// openRoom must be called with the lock held.
func (c *Coordinator) openRoom(code, mode string) (*Room, error) {
	seed := time.Now().UnixNano()
	sched, err := c.factory(mode, seed)
	if err != nil {
		return nil, err
	}

	id := RoomID(fmt.Sprintf("room-%s-%d", code, seed))
	room := NewRoom(id, code, seed, sched, c.config.TickRate, c.logger)
	c.rooms[code] = room
	c.logger.Info("room opened", "room", id, "code", code, "mode", mode)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		room.Run(c.ctx, func(result RoomResult) {
			c.handleRoomEnded(room, result)
		})
	}()
	return room, nil
}

func (c *Coordinator) handleRoomEnded(room *Room, result RoomResult) {
	c.mu.Lock()
	if c.rooms[room.Code()] == room {
		delete(c.rooms, room.Code())
		for sid, code := range c.sessionRoom {
			if code == room.Code() {
				delete(c.sessionRoom, sid)
			}
		}
	}
	c.mu.Unlock()

	if c.saver == nil || result.Frames == 0 {
		return
	}
	if err := c.saver.SaveRoomResult(result); err != nil {
		c.logger.Warn("cannot save room result", "room", result.Room, "err", err)
	}
}

func (c *Coordinator) handleLeave(id SessionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code, ok := c.sessionRoom[id]
	if !ok {
		return
	}
	delete(c.sessionRoom, id)
	if room, exists := c.rooms[code]; exists {
		room.Leave(id)
	}
}

func (c *Coordinator) handleControls(msg ControlsMsg) {
	c.mu.RLock()
	room, ok := c.rooms[c.sessionRoom[msg.SessionID]]
	c.mu.RUnlock()

	if !ok {
		return
	}
	room.SubmitControls(msg.SessionID, msg.Controls)
}

func (c *Coordinator) generateUniqueCode() string {
	for {
		code := generateJoinCode()
		if _, exists := c.rooms[code]; !exists {
			return code
		}
	}
}

// generateJoinCode creates a 6-character uppercase alphanumeric code.
func generateJoinCode() string {
	b := make([]byte, 4) // 4 bytes = 32 bits, base32 encodes to 8 chars, we take 6
	_, err := rand.Read(b)
	if err != nil {
		return fmt.Sprintf("%06X", time.Now().UnixNano()&0xFFFFFF)
	}
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// Room returns a room by code (for testing/debug).
func (c *Coordinator) Room(code string) (*Room, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.rooms[strings.ToUpper(code)]
	return r, ok
}

// RoomOf returns the code of the session's room.
func (c *Coordinator) RoomOf(id SessionID) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	code, ok := c.sessionRoom[id]
	return code, ok
}

// RoomCount returns the number of open rooms.
func (c *Coordinator) RoomCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.rooms)
}
