package sim

import (
	"fmt"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/physics"
)

// expire removes every Expiring body whose frame has come, re-including its
// origin first.
func (s *Scheduler) expire() error {
	frame := s.world.Frame
	for _, b := range s.world.Bodies() {
		e, ok := b.Tag.(*Expiring)
		if !ok || e.ExpiryFrame != frame {
			continue
		}
		if e.Origin != 0 && s.world.HasBody(e.Origin) {
			if err := s.world.Include(e.Origin, b.ID); err != nil {
				return fmt.Errorf("expire: %w", err)
			}
		}
		if err := s.world.RemoveBody(b.ID); err != nil {
			return fmt.Errorf("expire: %w", err)
		}
	}
	return nil
}

// fire spawns one projectile per actor along its facing.
func (s *Scheduler) fire() error {
	for _, id := range s.actors {
		b := s.bindings[id]
		facing, err := s.mode.Facing(s.world, b)
		if err != nil {
			return fmt.Errorf("fire %q: %w", id, err)
		}
		if facing == (core.Vec2{}) {
			continue
		}
		if _, err := s.SpawnProjectile(b.Primary, facing); err != nil {
			return fmt.Errorf("fire %q: %w", id, err)
		}
	}
	return nil
}

// SpawnProjectile launches a projectile from origin along dir. The origin
// cannot hit its own projectile until the projectile expires.
func (s *Scheduler) SpawnProjectile(origin physics.BodyID, dir core.Vec2) (physics.BodyID, error) {
	from, err := s.world.Body(origin)
	if err != nil {
		return 0, fmt.Errorf("projectile: %w", err)
	}
	dir = dir.Normalize()
	cfg := s.cfg.Projectiles

	p := physics.NewDynamic(
		from.Center.Add(dir.Scale(cfg.Offset)),
		cfg.Mass,
		physics.NewCircle(core.Vec2{}, cfg.Radius),
	)
	p.Friction = 0
	p.Velocity = dir.Scale(cfg.Speed)
	p.Tag = &Expiring{
		ExpiryFrame: s.world.Frame + uint64(cfg.TTL), //#nosec G115 -- TTL is normalized to >= 1
		Origin:      origin,
	}

	id, err := s.world.AddBody(p)
	if err != nil {
		return 0, fmt.Errorf("projectile: %w", err)
	}
	if err := s.world.Exclude(origin, id); err != nil {
		return 0, fmt.Errorf("projectile: %w", err)
	}
	return id, nil
}
