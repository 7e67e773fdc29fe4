package sim

import (
	"fmt"
	"math"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/physics"
)

// grow runs the seed and tree rules for every body present at the start of
// the phase. Bodies spawned here are first processed next tick.
func (s *Scheduler) grow() error {
	frame := s.world.Frame
	bodies := s.world.Bodies()

	trees := 0
	for _, b := range bodies {
		if _, ok := b.Tag.(*Tree); ok {
			trees++
		}
	}
	crowded := s.cfg.Growth.MaxTrees > 0 && trees >= s.cfg.Growth.MaxTrees

	for _, b := range bodies {
		switch p := b.Tag.(type) {
		case *Tree:
			if p.SeedFrame == frame {
				if err := s.dropSeed(b, p, crowded); err != nil {
					return err
				}
			}
			if p.GrowFrame == frame {
				if err := s.growTree(b, p); err != nil {
					return err
				}
			}
		case *SeedPending:
			if err := s.germinate(b); err != nil {
				return err
			}
		}
	}
	return nil
}

// dropSeed spawns a seed near the tree and schedules the next one. A
// crowded world only reschedules.
func (s *Scheduler) dropSeed(tree *physics.Body, t *Tree, crowded bool) error {
	if crowded {
		t.SeedFrame = s.world.Frame + s.seedInterval()
		return nil
	}
	angle := s.rng.Float64() * 2 * math.Pi
	dist := s.cfg.Growth.SpawnRadius * math.Sqrt(s.rng.Float64())
	pos := tree.Center.Add(core.FromAngle(angle).Scale(dist))

	if _, err := s.SpawnSeed(pos); err != nil {
		return fmt.Errorf("drop seed: %w", err)
	}
	t.SeedFrame = s.world.Frame + s.seedInterval()
	return nil
}

func (s *Scheduler) seedInterval() uint64 {
	g := s.cfg.Growth
	if g.Fast {
		return uint64(g.FastInterval) //#nosec G115 -- normalized to >= 1
	}
	return uint64(s.rng.Between(g.SeedIntervalMin, g.SeedIntervalMax)) //#nosec G115 -- normalized to >= 1
}

// growTree probes the space around the canopy and widens it when no other
// sensor shares that space.
func (s *Scheduler) growTree(tree *physics.Body, t *Tree) error {
	canopy := Canopy(tree)
	if canopy == nil {
		return fmt.Errorf("grow: %v has no canopy: %w", tree.ID, physics.ErrShapeNotFound)
	}

	probe := physics.NewStatic(tree.Center,
		physics.NewCircle(core.Vec2{}, canopy.Radius+s.cfg.Growth.ProbeMargin).AsSensor())
	probe.Tag = &SpaceProbe{}
	probeID, err := s.world.AddBody(probe)
	if err != nil {
		return fmt.Errorf("grow: %w", err)
	}

	hits, err := s.world.Overlaps(probeID)
	if err != nil {
		return fmt.Errorf("grow: %w", err)
	}
	sensors := 0
	for _, id := range hits {
		sh, err := s.world.Shape(id)
		if err != nil {
			return fmt.Errorf("grow: %w", err)
		}
		if sh.Sensor {
			sensors++
		}
	}

	if sensors <= 1 {
		r := GrownRadius(canopy.Radius, s.cfg.Growth.GrowthRate, s.cfg.Growth.MaxRadius)
		if err := s.world.SetCircleRadius(canopy.ID, r); err != nil {
			return fmt.Errorf("grow: %w", err)
		}
	}
	t.GrowFrame = s.world.Frame + uint64(s.cfg.Growth.GrowInterval) //#nosec G115 -- normalized to >= 1

	if err := s.world.RemoveBody(probeID); err != nil {
		return fmt.Errorf("grow: %w", err)
	}
	return nil
}

// GrownRadius returns the canopy radius after one growth step. The
// increment shrinks as the radius grows.
func GrownRadius(radius, rate, maxRadius float64) float64 {
	if radius < core.Epsilon {
		return math.Min(rate, maxRadius)
	}
	return math.Min(radius+rate/radius, maxRadius)
}

// germinate turns a seed into a tree unless it landed under a canopy.
func (s *Scheduler) germinate(seed *physics.Body) error {
	seed.RestingTime = 0

	shaded := false
	for _, sh := range seed.Shapes {
		if sh.Sensor {
			shaded = shaded || sh.Colliding()
			s.consumed = append(s.consumed, sh)
		}
	}

	pos := seed.Center
	if err := s.world.RemoveBody(seed.ID); err != nil {
		return fmt.Errorf("germinate: %w", err)
	}
	if shaded || !s.inArena(pos) {
		return nil
	}
	if _, err := s.PlantTree(pos); err != nil {
		return fmt.Errorf("germinate: %w", err)
	}
	return nil
}

// inArena reports whether pos lies inside the configured playfield. Modes
// without an arena accept every position.
func (s *Scheduler) inArena(pos core.Vec2) bool {
	a := s.cfg.Arena
	if a.Width <= 0 || a.Height <= 0 {
		return true
	}
	return pos.X >= a.Wall && pos.X <= a.Width-a.Wall && pos.Y >= a.Wall && pos.Y <= a.Height-a.Wall
}

// SpawnSeed drops a seed at pos.
func (s *Scheduler) SpawnSeed(pos core.Vec2) (physics.BodyID, error) {
	seed := physics.NewDynamic(pos, 0.1,
		physics.NewCircle(core.Vec2{}, s.cfg.Growth.SeedRadius).AsSensor())
	seed.Tag = &SeedPending{SeedFrame: s.world.Frame}
	return s.world.AddBody(seed)
}

// PlantTree plants a tree at pos with freshly drawn schedules.
func (s *Scheduler) PlantTree(pos core.Vec2) (physics.BodyID, error) {
	return s.PlantTreeWith(pos, Tree{
		SeedFrame: s.world.Frame + s.seedInterval(),
		GrowFrame: s.world.Frame + uint64(s.cfg.Growth.GrowInterval), //#nosec G115 -- normalized to >= 1
	})
}

// PlantTreeWith plants a tree at pos with the given schedule. A tree is a
// solid trunk under a sensor canopy.
func (s *Scheduler) PlantTreeWith(pos core.Vec2, schedule Tree) (physics.BodyID, error) {
	g := s.cfg.Growth
	tree := physics.NewStatic(pos,
		physics.NewCircle(core.Vec2{}, g.TrunkRadius),
		physics.NewCircle(core.Vec2{}, g.InitialRadius).AsSensor(),
	)
	tree.Friction = s.cfg.Physics.Friction
	t := schedule
	tree.Tag = &t
	return s.world.AddBody(tree)
}

// Canopy returns the tree's canopy shape: its first sensor circle.
func Canopy(tree *physics.Body) *physics.Shape {
	for _, sh := range tree.Shapes {
		if sh.Sensor && sh.Kind == physics.ShapeCircle {
			return sh
		}
	}
	return nil
}
