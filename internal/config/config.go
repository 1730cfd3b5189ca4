// Package config provides YAML-based configuration loading and difficulty
// management for the speedrun arcade.
package config

import (
	"fmt"

	"github.com/vovakirdan/speedrun-arcade/internal/scoring"
	"github.com/vovakirdan/speedrun-arcade/internal/sprite"
)

// SpeedrunConfig contains all configuration for a speedrun session.
type SpeedrunConfig struct {
	Scoring    ScoringConfig                         `yaml:"scoring"`
	Animations map[string]map[string]AnimationConfig `yaml:"animations"`
	Stage      StageConfig                           `yaml:"stage"`
	Difficulty DifficultyConfig                      `yaml:"difficulty"`
	Publish    PublishConfig                         `yaml:"publish"`
}

// ScoringConfig mirrors scoring.Tables in YAML form.
type ScoringConfig struct {
	BaseValues        map[string]int  `yaml:"base_values"`
	Multipliers       map[int]float64 `yaml:"multipliers"`
	ComboTimeoutTicks int             `yaml:"combo_timeout_ticks"`
}

// AnimationConfig is one cyclic sprite animation.
type AnimationConfig struct {
	Frames        int `yaml:"frames"`
	TicksPerFrame int `yaml:"ticks_per_frame"`
}

// StageConfig defines the bug sweep stage.
type StageConfig struct {
	DurationTicks    int `yaml:"duration_ticks"`     // Time limit
	BugQuota         int `yaml:"bug_quota"`          // Bugs to defeat to clear the stage
	Lives            int `yaml:"lives"`              // Hits the ship can take
	SpawnEvery       int `yaml:"spawn_every"`        // Ticks between bug spawns (before difficulty)
	MinSpawnEvery    int `yaml:"min_spawn_every"`    // Floor for the spawn interval
	BugFallEvery     int `yaml:"bug_fall_every"`     // Ticks per row a bug falls
	CollectEvery     int `yaml:"collect_every"`      // Ticks between collectible spawns
	CollectFallEvery int `yaml:"collect_fall_every"` // Ticks per row a collectible falls
	ProjectileEvery  int `yaml:"projectile_every"`   // Ticks per row a projectile rises
	ShootTicks       int `yaml:"shoot_ticks"`        // How long the ship stays in the shoot pose
	BossEvery        int `yaml:"boss_every"`         // Bugs defeated between boss spawns (0 = none)
	BossHP           int `yaml:"boss_hp"`
}

// PublishConfig configures the optional MQTT score event feed.
type PublishConfig struct {
	Broker    string `yaml:"broker"` // e.g. tcp://localhost:1883, empty disables publishing
	Topic     string `yaml:"topic"`
	ClientID  string `yaml:"client_id"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	QoS       byte   `yaml:"qos"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Enabled reports whether a broker is configured.
func (p PublishConfig) Enabled() bool {
	return p.Broker != ""
}

// Tables converts the scoring section into validated scoring tables.
func (c ScoringConfig) Tables() (scoring.Tables, error) {
	tables := scoring.Tables{
		BaseValues:        make(map[scoring.EventType]int, len(c.BaseValues)),
		Multipliers:       make(map[int]float64, len(c.Multipliers)),
		ComboTimeoutTicks: c.ComboTimeoutTicks,
	}
	for k, v := range c.BaseValues {
		tables.BaseValues[scoring.EventType(k)] = v
	}
	for k, v := range c.Multipliers {
		tables.Multipliers[k] = v
	}

	if err := tables.Validate(); err != nil {
		return scoring.Tables{}, fmt.Errorf("config: scoring: %w", err)
	}
	return tables, nil
}

// Catalog converts the animations section into a validated sprite catalog.
func (c SpeedrunConfig) Catalog() (sprite.Catalog, error) {
	catalog := make(sprite.Catalog, len(c.Animations))
	for character, states := range c.Animations {
		set := make(sprite.Set, len(states))
		for state, a := range states {
			set[state] = sprite.Descriptor{Frames: a.Frames, TicksPerFrame: a.TicksPerFrame}
		}
		catalog[character] = set
	}

	if err := catalog.Validate(); err != nil {
		return nil, fmt.Errorf("config: animations: %w", err)
	}
	return catalog, nil
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpawnReduction float64 `yaml:"spawn_reduction"` // Fraction of the spawn interval removed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset maps a CLI string to a preset. Unknown strings return "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}
