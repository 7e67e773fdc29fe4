// Package scenario drives a scheduler from Lua scripts. A script builds
// extra scenery, joins and steers actors and steps ticks, so headless runs
// can be scripted without recompiling.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/physics"
	"github.com/vovakirdan/tui-grove/internal/sim"
)

// APIVersion is exposed to scripts as API_VERSION.
const APIVersion = 1

// MaxStepsPerCall bounds step(n) so a typo cannot hang the host.
const MaxStepsPerCall = 100000

// ErrScript wraps every failure raised while running a script.
var ErrScript = errors.New("scenario: script failed")

// Engine wraps a single gopher-lua VM bound to one scheduler.
// Single-goroutine access only.
type Engine struct {
	vm     *lua.LState
	sched  *sim.Scheduler
	log    *log.Logger
	onStep func(*sim.Scheduler)
}

// NewEngine creates a Lua engine for a scheduler that has been set up.
func NewEngine(sched *sim.Scheduler, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))

	e := &Engine{vm: vm, sched: sched, log: logger}
	for name, fn := range map[string]lua.LGFunction{
		"ground":   e.luaGround,
		"crate":    e.luaCrate,
		"ball":     e.luaBall,
		"tree":     e.luaTree,
		"seed":     e.luaSeed,
		"join":     e.luaJoin,
		"leave":    e.luaLeave,
		"controls": e.luaControls,
		"step":     e.luaStep,
		"frame":    e.luaFrame,
		"count":    e.luaCount,
		"at":       e.luaAt,
		"body":     e.luaBody,
		"actor":    e.luaActor,
		"log":      e.luaLog,
	} {
		vm.SetGlobal(name, vm.NewFunction(fn))
	}
	return e
}

// OnStep registers a hook called after every tick a script runs.
func (e *Engine) OnStep(fn func(*sim.Scheduler)) {
	e.onStep = fn
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// RunFile executes a script file.
func (e *Engine) RunFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrScript, path, err)
	}
	e.log.Debug("scenario finished", "file", path, "frame", e.sched.Frame())
	return nil
}

// RunString executes script source.
func (e *Engine) RunString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("%w: %w", ErrScript, err)
	}
	return nil
}

func (e *Engine) fail(L *lua.LState, op string, err error) int {
	L.RaiseError("%s: %v", op, err)
	return 0
}

func (e *Engine) addBody(L *lua.LState, op string, b *physics.Body) int {
	b.Friction = e.sched.Config().Physics.Friction
	id, err := e.sched.World().AddBody(b)
	if err != nil {
		return e.fail(L, op, err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

// ground(x, y, w, h [, angle]) adds a static rectangle.
func (e *Engine) luaGround(L *lua.LState) int {
	center := core.V(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
	w, h := float64(L.CheckNumber(3)), float64(L.CheckNumber(4))
	b := physics.NewStatic(center, physics.NewRectangle(core.Vec2{}, w, h, 0))
	b.Angle = float64(L.OptNumber(5, 0))
	return e.addBody(L, "ground", b)
}

// crate(x, y, w, h [, mass]) adds a dynamic rectangle.
func (e *Engine) luaCrate(L *lua.LState) int {
	center := core.V(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
	w, h := float64(L.CheckNumber(3)), float64(L.CheckNumber(4))
	mass := float64(L.OptNumber(5, 1))
	return e.addBody(L, "crate", physics.NewDynamic(center, mass, physics.NewRectangle(core.Vec2{}, w, h, 0)))
}

// ball(x, y, r [, mass]) adds a dynamic circle.
func (e *Engine) luaBall(L *lua.LState) int {
	center := core.V(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
	r := float64(L.CheckNumber(3))
	mass := float64(L.OptNumber(4, 1))
	return e.addBody(L, "ball", physics.NewDynamic(center, mass, physics.NewCircle(core.Vec2{}, r)))
}

// tree(x, y) plants a tree.
func (e *Engine) luaTree(L *lua.LState) int {
	id, err := e.sched.PlantTree(core.V(float64(L.CheckNumber(1)), float64(L.CheckNumber(2))))
	if err != nil {
		return e.fail(L, "tree", err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

// seed(x, y) drops a seed.
func (e *Engine) luaSeed(L *lua.LState) int {
	id, err := e.sched.SpawnSeed(core.V(float64(L.CheckNumber(1)), float64(L.CheckNumber(2))))
	if err != nil {
		return e.fail(L, "seed", err)
	}
	L.Push(lua.LNumber(id))
	return 1
}

func (e *Engine) luaJoin(L *lua.LState) int {
	if err := e.sched.ActorJoined(core.ActorID(L.CheckString(1))); err != nil {
		return e.fail(L, "join", err)
	}
	return 0
}

func (e *Engine) luaLeave(L *lua.LState) int {
	if err := e.sched.ActorLeft(core.ActorID(L.CheckString(1))); err != nil {
		return e.fail(L, "leave", err)
	}
	return 0
}

// controls(name, x, y) sets an actor's control vector.
func (e *Engine) luaControls(L *lua.LState) int {
	c := core.Controls{X: float64(L.CheckNumber(2)), Y: float64(L.OptNumber(3, 0))}
	if err := e.sched.SubmitControls(core.ActorID(L.CheckString(1)), c.Clamped()); err != nil {
		return e.fail(L, "controls", err)
	}
	return 0
}

// step([n]) runs n ticks, one by default, and returns the frame.
func (e *Engine) luaStep(L *lua.LState) int {
	n := L.OptInt(1, 1)
	if n < 0 || n > MaxStepsPerCall {
		L.ArgError(1, fmt.Sprintf("step count must be in [0, %d]", MaxStepsPerCall))
		return 0
	}
	for range n {
		if err := e.sched.Tick(); err != nil {
			return e.fail(L, "step", err)
		}
		if e.onStep != nil {
			e.onStep(e.sched)
		}
	}
	L.Push(lua.LNumber(e.sched.Frame()))
	return 1
}

func (e *Engine) luaFrame(L *lua.LState) int {
	L.Push(lua.LNumber(e.sched.Frame()))
	return 1
}

// count(kind) counts bodies, trees, seeds, projectiles or actors.
func (e *Engine) luaCount(L *lua.LState) int {
	kind := L.OptString(1, "bodies")
	snap := e.sched.Snapshot()
	var n int
	switch kind {
	case "bodies":
		n = snap.Counts.Bodies
	case "trees":
		n = snap.Counts.Trees
	case "seeds":
		n = snap.Counts.Seeds
	case "projectiles":
		n = snap.Counts.Projectiles
	case "actors":
		n = len(snap.Actors)
	default:
		L.ArgError(1, fmt.Sprintf("unknown kind %q", kind))
		return 0
	}
	L.Push(lua.LNumber(n))
	return 1
}

// at(x, y) returns how many shapes cover the point.
func (e *Engine) luaAt(L *lua.LState) int {
	p := core.V(float64(L.CheckNumber(1)), float64(L.CheckNumber(2)))
	L.Push(lua.LNumber(len(e.sched.World().ShapesAt(p))))
	return 1
}

func (e *Engine) bodyTable(L *lua.LState, b *physics.Body) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LNumber(b.ID))
	t.RawSetString("x", lua.LNumber(b.Center.X))
	t.RawSetString("y", lua.LNumber(b.Center.Y))
	t.RawSetString("vx", lua.LNumber(b.Velocity.X))
	t.RawSetString("vy", lua.LNumber(b.Velocity.Y))
	t.RawSetString("angle", lua.LNumber(b.Angle))
	t.RawSetString("resting", lua.LBool(e.sched.World().IsResting(b)))
	if p := sim.PayloadOf(b); p != nil {
		t.RawSetString("kind", lua.LString(p.Kind()))
	}
	return t
}

// body(id) returns a table describing a body.
func (e *Engine) luaBody(L *lua.LState) int {
	b, err := e.sched.World().Body(physics.BodyID(L.CheckNumber(1)))
	if err != nil {
		return e.fail(L, "body", err)
	}
	L.Push(e.bodyTable(L, b))
	return 1
}

// actor(name) describes an actor's primary body.
func (e *Engine) luaActor(L *lua.LState) int {
	binding, err := e.sched.Binding(core.ActorID(L.CheckString(1)))
	if err != nil {
		return e.fail(L, "actor", err)
	}
	b, err := e.sched.World().Body(binding.Primary)
	if err != nil {
		return e.fail(L, "actor", err)
	}
	L.Push(e.bodyTable(L, b))
	return 1
}

// log(...) writes its arguments at info level.
func (e *Engine) luaLog(L *lua.LState) int {
	parts := make([]string, 0, L.GetTop())
	for i := 1; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	e.log.Info(strings.Join(parts, " "), "frame", e.sched.Frame())
	return 0
}
