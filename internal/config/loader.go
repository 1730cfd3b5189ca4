package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadSpeedrun loads the speedrun configuration.
// Search order: customPath -> ~/.arcade/configs/speedrun.yaml -> ./configs/speedrun.yaml -> embedded default
//
// Every file is decoded on top of the defaults, so a partial file only
// overrides the keys it names.
func LoadSpeedrun(customPath string) (SpeedrunConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return SpeedrunConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseSpeedrun(data)
		if err != nil {
			return SpeedrunConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("speedrun.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseSpeedrun(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "speedrun.yaml")); err == nil {
		if cfg, err := parseSpeedrun(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseSpeedrun(defaultSpeedrunYAML)
	if err != nil {
		return DefaultSpeedrunConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// parseSpeedrun decodes YAML over the hard-coded defaults.
// Maps are replaced wholesale when present so a custom table does not
// inherit stray default keys.
func parseSpeedrun(data []byte) (SpeedrunConfig, error) {
	cfg := DefaultSpeedrunConfig()
	cfg.Scoring.BaseValues = nil
	cfg.Scoring.Multipliers = nil
	cfg.Animations = nil

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SpeedrunConfig{}, err
	}

	defaults := DefaultSpeedrunConfig()
	if cfg.Scoring.BaseValues == nil {
		cfg.Scoring.BaseValues = defaults.Scoring.BaseValues
	}
	if cfg.Scoring.Multipliers == nil {
		cfg.Scoring.Multipliers = defaults.Scoring.Multipliers
	}
	if cfg.Animations == nil {
		cfg.Animations = defaults.Animations
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// ApplySpeedrunPreset modifies the config based on a difficulty preset.
// Besides the progression settings, easier presets widen the combo window
// and harder ones narrow it.
func ApplySpeedrunPreset(cfg *SpeedrunConfig, preset DifficultyPreset) {
	if preset == "" {
		return
	}

	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
	} else {
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}

	switch preset {
	case DifficultyEasy:
		cfg.Scoring.ComboTimeoutTicks = cfg.Scoring.ComboTimeoutTicks * 3 / 2
		cfg.Stage.Lives = max(cfg.Stage.Lives, 5)
	case DifficultyHard:
		cfg.Scoring.ComboTimeoutTicks = max(1, cfg.Scoring.ComboTimeoutTicks*2/3)
		cfg.Stage.Lives = min(cfg.Stage.Lives, 2)
	}
}
