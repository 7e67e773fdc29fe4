package sim

import (
	"testing"

	"github.com/vovakirdan/tui-grove/internal/core"
	"github.com/vovakirdan/tui-grove/internal/physics"
)

const never = uint64(1) << 40

func countPayloads[T any](w *physics.World) []*physics.Body {
	var out []*physics.Body
	for _, b := range w.Bodies() {
		if _, ok := b.Tag.(*T); ok {
			out = append(out, b)
		}
	}
	return out
}

func TestGrownRadius(t *testing.T) {
	r := 8.0
	prevInc := -1.0
	for i := range 50 {
		next := GrownRadius(r, 20, 40)
		inc := next - r
		if next < r {
			t.Fatalf("step %d: radius shrank from %v to %v", i, r, next)
		}
		if inc > 0 && prevInc > 0 && inc >= prevInc {
			t.Fatalf("step %d: increment %v did not shrink below %v", i, inc, prevInc)
		}
		if next > 40 {
			t.Fatalf("step %d: radius %v exceeds max", i, next)
		}
		if inc > 0 {
			prevInc = inc
		}
		r = next
	}
	if r != 40 {
		t.Errorf("radius after 50 steps = %v, expected clamp at 40", r)
	}
	if got := GrownRadius(0, 5, 40); got != 5 {
		t.Errorf("GrownRadius(0) = %v, expected 5", got)
	}
}

func TestSeedScenario(t *testing.T) {
	cfg := quietConfig()
	s := New(newPuckMode(), cfg, 99)
	mustSetup(t, s)

	center := core.V(400, 300)
	tree, err := s.PlantTreeWith(center, Tree{SeedFrame: s.Frame() + 1, GrowFrame: never})
	if err != nil {
		t.Fatal(err)
	}
	mustTick(t, s)

	seeds := countPayloads[SeedPending](s.World())
	if len(seeds) != 1 {
		t.Fatalf("seeds after one tick = %d, expected 1", len(seeds))
	}
	if d := seeds[0].Center.Dist(center); d > cfg.Growth.SpawnRadius {
		t.Errorf("seed distance = %v, expected within %v", d, cfg.Growth.SpawnRadius)
	}

	tb, _ := s.World().Body(tree)
	next := tb.Tag.(*Tree).SeedFrame
	if next < s.Frame()+uint64(cfg.Growth.SeedIntervalMin) || next > s.Frame()+uint64(cfg.Growth.SeedIntervalMax) {
		t.Errorf("next SeedFrame = %d, expected within [%d, %d] from frame %d",
			next, cfg.Growth.SeedIntervalMin, cfg.Growth.SeedIntervalMax, s.Frame())
	}
}

func TestSeedIntervalFastMode(t *testing.T) {
	cfg := quietConfig()
	cfg.Growth.Fast = true
	s := New(newPuckMode(), cfg, 1)
	mustSetup(t, s)

	tree, _ := s.PlantTreeWith(core.V(400, 300), Tree{SeedFrame: 1, GrowFrame: never})
	mustTick(t, s)
	tb, _ := s.World().Body(tree)
	if got := tb.Tag.(*Tree).SeedFrame; got != 1+uint64(cfg.Growth.FastInterval) {
		t.Errorf("SeedFrame = %d, expected %d", got, 1+cfg.Growth.FastInterval)
	}
}

func TestSeedGermination(t *testing.T) {
	tests := []struct {
		name      string
		seedAt    core.Vec2
		wantTrees int
	}{
		{"open ground", core.V(100, 100), 2},
		{"under canopy", core.V(405, 300), 1},
		{"outside arena", core.V(-50, 300), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(newPuckMode(), quietConfig(), 1)
			mustSetup(t, s)
			if _, err := s.PlantTreeWith(core.V(400, 300), Tree{SeedFrame: never, GrowFrame: never}); err != nil {
				t.Fatal(err)
			}
			if _, err := s.SpawnSeed(tt.seedAt); err != nil {
				t.Fatal(err)
			}
			mustTick(t, s)

			if n := len(countPayloads[SeedPending](s.World())); n != 0 {
				t.Errorf("seeds after tick = %d, expected 0", n)
			}
			trees := countPayloads[Tree](s.World())
			if len(trees) != tt.wantTrees {
				t.Fatalf("trees = %d, expected %d", len(trees), tt.wantTrees)
			}
			if tt.wantTrees == 2 && trees[1].Center != tt.seedAt {
				t.Errorf("new tree at %v, expected %v", trees[1].Center, tt.seedAt)
			}
		})
	}
}

func TestTreeGrowthMonotonic(t *testing.T) {
	cfg := quietConfig()
	cfg.Growth.GrowInterval = 1
	s := New(newPuckMode(), cfg, 1)
	mustSetup(t, s)

	id, _ := s.PlantTreeWith(core.V(400, 300), Tree{SeedFrame: never, GrowFrame: 1})
	body, _ := s.World().Body(id)
	canopy := Canopy(body)

	prev := canopy.Radius
	prevInc := 0.0
	for range 60 {
		mustTick(t, s)
		r := canopy.Radius
		if r < prev {
			t.Fatalf("frame %d: radius shrank %v -> %v", s.Frame(), prev, r)
		}
		inc := r - prev
		if inc > 0 && prevInc > 0 && inc >= prevInc {
			t.Fatalf("frame %d: increment %v not below %v", s.Frame(), inc, prevInc)
		}
		if inc > 0 {
			prevInc = inc
		}
		prev = r
	}
	if prev != cfg.Growth.MaxRadius {
		t.Errorf("final radius = %v, expected %v", prev, cfg.Growth.MaxRadius)
	}
	if n := len(countPayloads[SpaceProbe](s.World())); n != 0 {
		t.Errorf("probes left in world = %d, expected 0", n)
	}
}

func TestNegativeGrowthRateNeverShrinks(t *testing.T) {
	cfg := quietConfig()
	cfg.Growth.GrowthRate = -50
	cfg.Growth.GrowInterval = 1
	s := New(newPuckMode(), cfg, 1)
	mustSetup(t, s)

	id, _ := s.PlantTreeWith(core.V(400, 300), Tree{SeedFrame: never, GrowFrame: 1})
	body, _ := s.World().Body(id)
	canopy := Canopy(body)
	before := canopy.Radius

	for range 5 {
		mustTick(t, s)
	}
	if canopy.Radius < before {
		t.Errorf("canopy radius = %v, expected no shrink below %v", canopy.Radius, before)
	}
}

func TestCrowdedTreesDoNotGrow(t *testing.T) {
	cfg := quietConfig()
	s := New(newPuckMode(), cfg, 1)
	mustSetup(t, s)

	a, _ := s.PlantTreeWith(core.V(400, 300), Tree{SeedFrame: never, GrowFrame: 1})
	_, _ = s.PlantTreeWith(core.V(412, 300), Tree{SeedFrame: never, GrowFrame: never})
	body, _ := s.World().Body(a)
	before := Canopy(body).Radius

	mustTick(t, s)
	if got := Canopy(body).Radius; got != before {
		t.Errorf("shaded canopy radius = %v, expected unchanged %v", got, before)
	}
	if got := body.Tag.(*Tree).GrowFrame; got != 1+uint64(cfg.Growth.GrowInterval) {
		t.Errorf("GrowFrame = %d, expected rescheduled to %d", got, 1+cfg.Growth.GrowInterval)
	}
}

func TestMaxTreesStopsSeeding(t *testing.T) {
	cfg := quietConfig()
	cfg.Growth.MaxTrees = 1
	s := New(newPuckMode(), cfg, 1)
	mustSetup(t, s)

	tree, _ := s.PlantTreeWith(core.V(400, 300), Tree{SeedFrame: 1, GrowFrame: never})
	mustTick(t, s)
	if n := len(countPayloads[SeedPending](s.World())); n != 0 {
		t.Errorf("seeds = %d, expected none at the tree cap", n)
	}
	tb, _ := s.World().Body(tree)
	if tb.Tag.(*Tree).SeedFrame <= 1 {
		t.Error("capped tree did not reschedule its seed")
	}
}

func TestMissedFrameIsNotDeferred(t *testing.T) {
	s := New(newPuckMode(), quietConfig(), 1)
	mustSetup(t, s)
	mustTick(t, s)
	mustTick(t, s)

	// Schedule in the past: exact-equality triggers never fire.
	_, _ = s.PlantTreeWith(core.V(400, 300), Tree{SeedFrame: 1, GrowFrame: 1})
	for range 5 {
		mustTick(t, s)
	}
	if n := len(countPayloads[SeedPending](s.World())); n != 0 {
		t.Errorf("seeds = %d, expected a missed trigger to stay missed", n)
	}
}
