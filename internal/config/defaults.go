package config

import (
	_ "embed"
)

//go:embed defaults/hillclimb.yaml
var defaultHillclimbYAML []byte

//go:embed defaults/grove.yaml
var defaultGroveYAML []byte

// embeddedDefaults maps a mode id to its embedded YAML.
var embeddedDefaults = map[string][]byte{
	"hillclimb": defaultHillclimbYAML,
	"grove":     defaultGroveYAML,
}

// hardcodedDefaults maps a mode id to its compiled-in fallback.
var hardcodedDefaults = map[string]func() WorldConfig{
	"hillclimb": DefaultHillclimbConfig,
	"grove":     DefaultGroveConfig,
}

// DefaultHillclimbConfig returns the default hill climb configuration.
func DefaultHillclimbConfig() WorldConfig {
	return WorldConfig{
		Physics: PhysicsConfig{
			GravityY:       100,
			Damping:        0.99,
			AngularDamping: 0.95,
			RestThreshold:  1.0,
			RestVelocity:   2.0,
			Substeps:       4,
			Slop:           0.05,
			Friction:       1.0,
		},
		Arena: ArenaConfig{
			Width:  20000,
			Height: 600,
		},
		Actor: ActorConfig{
			Accel:    1000,
			MaxSpeed: 10000,
			Tilt:     2,
			Radius:   15,
			Mass:     3,
		},
		Projectiles: ProjectileConfig{
			Every:  2,
			TTL:    45,
			Speed:  240,
			Offset: 40,
			Radius: 2,
			Mass:   0.1,
		},
	}
}

// DefaultGroveConfig returns the default grove configuration.
func DefaultGroveConfig() WorldConfig {
	return WorldConfig{
		Physics: PhysicsConfig{
			Damping:        0.95,
			AngularDamping: 0.9,
			RestThreshold:  1.0,
			RestVelocity:   2.0,
			Substeps:       4,
			Slop:           0.05,
			Friction:       0.5,
		},
		Arena: ArenaConfig{
			Width:  800,
			Height: 600,
			Wall:   20,
		},
		Actor: ActorConfig{
			Accel:    600,
			MaxSpeed: 180,
			TurnRate: 0.2,
			Deadzone: 0.1,
			Radius:   8,
			Mass:     1,
		},
		Projectiles: ProjectileConfig{
			Enabled: true,
			Every:   2,
			TTL:     45,
			Speed:   240,
			Offset:  14,
			Radius:  2,
			Mass:    0.1,
		},
		Growth: GrowthConfig{
			Enabled:         true,
			InitialTrees:    6,
			MaxTrees:        40,
			SpawnRadius:     60,
			SeedIntervalMin: 120,
			SeedIntervalMax: 360,
			FastInterval:    10,
			GrowInterval:    30,
			GrowthRate:      20,
			InitialRadius:   8,
			MaxRadius:       40,
			TrunkRadius:     3,
			SeedRadius:      2,
			ProbeMargin:     4,
		},
	}
}
