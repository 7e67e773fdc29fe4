package config

import "math"

// ApplyPreset modifies the config based on a growth preset.
func ApplyPreset(cfg *WorldConfig, preset Preset) {
	switch preset {
	case PresetFast:
		cfg.Growth.Fast = true
		// Growth checks keep pace with the shortened seeding cadence.
		if cfg.Growth.FastInterval > 0 && cfg.Growth.GrowInterval > cfg.Growth.FastInterval {
			cfg.Growth.GrowInterval = cfg.Growth.FastInterval
		}
	default:
		cfg.Growth.Fast = false
	}
}

// Normalize replaces values a world cannot run with by the nearest usable
// ones. It returns the corrected config.
func Normalize(cfg WorldConfig) WorldConfig {
	p := &cfg.Physics
	if p.Substeps < 1 {
		p.Substeps = 1
	}
	p.Damping = clampF(p.Damping, 0, 1)
	p.AngularDamping = clampF(p.AngularDamping, 0, 1)
	p.Slop = math.Max(p.Slop, 0)

	a := &cfg.Actor
	a.TurnRate = clampF(a.TurnRate, 0, 1)
	a.Deadzone = clampF(a.Deadzone, 0, 1)
	if a.Mass <= 0 {
		a.Mass = 1
	}

	pr := &cfg.Projectiles
	if pr.Every < 1 {
		pr.Every = 1
	}
	if pr.TTL < 1 {
		pr.TTL = 1
	}
	if pr.Mass <= 0 {
		pr.Mass = 0.1
	}
	if pr.Radius <= 0 {
		pr.Radius = 1
	}

	g := &cfg.Growth
	if g.SeedIntervalMin < 1 {
		g.SeedIntervalMin = 1
	}
	if g.SeedIntervalMax < g.SeedIntervalMin {
		g.SeedIntervalMax = g.SeedIntervalMin
	}
	if g.FastInterval < 1 {
		g.FastInterval = 1
	}
	if g.GrowInterval < 1 {
		g.GrowInterval = 1
	}
	g.GrowthRate = math.Max(g.GrowthRate, 0) // Canopies never shrink
	g.ProbeMargin = math.Max(g.ProbeMargin, 0)
	g.SpawnRadius = math.Max(g.SpawnRadius, 0)
	if g.InitialRadius <= 0 {
		g.InitialRadius = 1 // Growth divides by the radius
	}
	if g.MaxRadius < g.InitialRadius {
		g.MaxRadius = g.InitialRadius
	}
	if g.SeedRadius <= 0 {
		g.SeedRadius = 1
	}
	if g.TrunkRadius <= 0 {
		g.TrunkRadius = 1
	}
	return cfg
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
