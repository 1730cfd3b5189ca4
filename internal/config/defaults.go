package config

import (
	_ "embed"

	"github.com/vovakirdan/speedrun-arcade/internal/sprite"
)

//go:embed defaults/speedrun.yaml
var defaultSpeedrunYAML []byte

// DefaultSpeedrunConfig returns the hard-coded configuration, used when the
// embedded YAML cannot be parsed.
func DefaultSpeedrunConfig() SpeedrunConfig {
	return SpeedrunConfig{
		Scoring: ScoringConfig{
			BaseValues: map[string]int{
				"question":      100,
				"code":          150,
				"powerup":       200,
				"smell":         250,
				"bug":           150,
				"boss":          1000,
				"bossBug":       5000,
				"levelComplete": 500,
				"noHit":         1000,
				"timeBonus":     50,
				"combo2x":       100,
				"combo3x":       300,
				"combo4x":       600,
			},
			Multipliers: map[int]float64{
				1: 1.0,
				2: 1.5,
				3: 2.0,
				4: 3.0,
				5: 5.0,
			},
			ComboTimeoutTicks: 90,
		},
		Animations: animationsFromCatalog(sprite.DefaultCatalog()),
		Stage: StageConfig{
			DurationTicks:    5400, // 90 seconds at 60fps
			BugQuota:         30,
			Lives:            3,
			SpawnEvery:       45,
			MinSpawnEvery:    15,
			BugFallEvery:     12,
			CollectEvery:     150,
			CollectFallEvery: 10,
			ProjectileEvery:  2,
			ShootTicks:       8,
			BossEvery:        10,
			BossHP:           5,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 5400,
			},
			Scaling: ScalingConfig{
				SpawnReduction: 0.6,
			},
		},
		Publish: PublishConfig{
			Topic:     "speedrun/score",
			ClientID:  "speedrun-arcade",
			QoS:       1,
			TimeoutMs: 2000,
		},
	}
}

// animationsFromCatalog converts a sprite catalog into its YAML form.
func animationsFromCatalog(c sprite.Catalog) map[string]map[string]AnimationConfig {
	out := make(map[string]map[string]AnimationConfig, len(c))
	for character, set := range c {
		states := make(map[string]AnimationConfig, len(set))
		for state, d := range set {
			states[state] = AnimationConfig{Frames: d.Frames, TicksPerFrame: d.TicksPerFrame}
		}
		out[character] = states
	}
	return out
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultSpeedrunYAML
}
