// Package config provides YAML/TOML world configuration loading and the
// growth presets for the simulation modes.
package config

// WorldConfig contains everything a mode needs to build and run a world.
type WorldConfig struct {
	Physics     PhysicsConfig    `yaml:"physics" toml:"physics"`
	Arena       ArenaConfig      `yaml:"arena" toml:"arena"`
	Actor       ActorConfig      `yaml:"actor" toml:"actor"`
	Projectiles ProjectileConfig `yaml:"projectiles" toml:"projectiles"`
	Growth      GrowthConfig     `yaml:"growth" toml:"growth"`
}

// PhysicsConfig defines the global world parameters.
type PhysicsConfig struct {
	GravityX       float64 `yaml:"gravity_x" toml:"gravity_x"`
	GravityY       float64 `yaml:"gravity_y" toml:"gravity_y"`
	Damping        float64 `yaml:"damping" toml:"damping"`                 // linear velocity factor per step
	AngularDamping float64 `yaml:"angular_damping" toml:"angular_damping"` // angular velocity factor per step
	RestThreshold  float64 `yaml:"rest_threshold" toml:"rest_threshold"`   // seconds before a still body rests
	RestVelocity   float64 `yaml:"rest_velocity" toml:"rest_velocity"`     // px/s counted as still
	Substeps       int     `yaml:"substeps" toml:"substeps"`
	Slop           float64 `yaml:"slop" toml:"slop"`
	Friction       float64 `yaml:"friction" toml:"friction"` // friction of mode-built bodies
}

// ArenaConfig defines the playfield of bounded modes.
type ArenaConfig struct {
	Width  float64 `yaml:"width" toml:"width"`
	Height float64 `yaml:"height" toml:"height"`
	Wall   float64 `yaml:"wall" toml:"wall"` // boundary wall thickness
}

// ActorConfig defines how a control vector moves an actor.
type ActorConfig struct {
	Accel    float64 `yaml:"accel" toml:"accel"`         // px/s gained per second of full input
	MaxSpeed float64 `yaml:"max_speed" toml:"max_speed"` // speed clamp
	Tilt     float64 `yaml:"tilt" toml:"tilt"`           // radians/s of airborne rotation
	TurnRate float64 `yaml:"turn_rate" toml:"turn_rate"` // heading lerp factor per tick, 0..1
	Deadzone float64 `yaml:"deadzone" toml:"deadzone"`   // input length ignored
	Radius   float64 `yaml:"radius" toml:"radius"`
	Mass     float64 `yaml:"mass" toml:"mass"`
}

// ProjectileConfig defines the projectile cadence.
type ProjectileConfig struct {
	Enabled bool    `yaml:"enabled" toml:"enabled"`
	Every   int     `yaml:"every" toml:"every"` // ticks between shots
	TTL     int     `yaml:"ttl" toml:"ttl"`     // ticks a projectile lives
	Speed   float64 `yaml:"speed" toml:"speed"`
	Offset  float64 `yaml:"offset" toml:"offset"` // spawn distance ahead of the actor
	Radius  float64 `yaml:"radius" toml:"radius"`
	Mass    float64 `yaml:"mass" toml:"mass"`
}

// GrowthConfig defines the seed and tree schedules.
type GrowthConfig struct {
	Enabled         bool    `yaml:"enabled" toml:"enabled"`
	Fast            bool    `yaml:"fast" toml:"fast"` // reseed every FastInterval ticks
	InitialTrees    int     `yaml:"initial_trees" toml:"initial_trees"`
	MaxTrees        int     `yaml:"max_trees" toml:"max_trees"` // 0 means unlimited
	SpawnRadius     float64 `yaml:"spawn_radius" toml:"spawn_radius"`
	SeedIntervalMin int     `yaml:"seed_interval_min" toml:"seed_interval_min"`
	SeedIntervalMax int     `yaml:"seed_interval_max" toml:"seed_interval_max"`
	FastInterval    int     `yaml:"fast_interval" toml:"fast_interval"`
	GrowInterval    int     `yaml:"grow_interval" toml:"grow_interval"`
	GrowthRate      float64 `yaml:"growth_rate" toml:"growth_rate"` // increment is rate / radius
	InitialRadius   float64 `yaml:"initial_radius" toml:"initial_radius"`
	MaxRadius       float64 `yaml:"max_radius" toml:"max_radius"`
	TrunkRadius     float64 `yaml:"trunk_radius" toml:"trunk_radius"`
	SeedRadius      float64 `yaml:"seed_radius" toml:"seed_radius"`
	ProbeMargin     float64 `yaml:"probe_margin" toml:"probe_margin"`
}

// Preset represents a named growth schedule.
type Preset string

const (
	PresetNormal Preset = "normal"
	PresetFast   Preset = "fast"
)

// Presets lists the accepted preset names.
func Presets() []Preset {
	return []Preset{PresetNormal, PresetFast}
}

// ParsePreset validates a preset name. An empty name means normal.
func ParsePreset(name string) (Preset, bool) {
	switch Preset(name) {
	case "", PresetNormal:
		return PresetNormal, true
	case PresetFast:
		return PresetFast, true
	default:
		return "", false
	}
}
