package config

import "testing"

func TestDifficultyLevel(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 1000},
	})

	tests := []struct {
		ticks    int
		expected float64
	}{
		{0, 0.2},
		{500, 0.6},
		{1000, 1.0},
		{5000, 1.0},
	}

	for _, tc := range tests {
		got := dm.Level(0, tc.ticks)
		if diff := got - tc.expected; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Level(ticks=%d) = %v, expected %v", tc.ticks, got, tc.expected)
		}
	}
}

func TestDifficultyDisabled(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.4,
		Progression:  ProgressionConfig{Type: "score", MaxAt: 10},
	})

	if dm.IsEnabled() {
		t.Error("manager should be disabled")
	}
	if got := dm.Level(100, 100); got != 0.4 {
		t.Errorf("Level() = %v, expected initial 0.4", got)
	}
}

func TestDifficultyInterval(t *testing.T) {
	dm := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 100},
		Scaling:     ScalingConfig{SpawnReduction: 0.5},
	})

	if got := dm.Interval(40, 10, 0, 0); got != 40 {
		t.Errorf("Interval at level 0 = %d, expected 40", got)
	}
	if got := dm.Interval(40, 10, 100, 0); got != 20 {
		t.Errorf("Interval at level 1 = %d, expected 20", got)
	}
	if got := dm.Interval(40, 30, 100, 0); got != 30 {
		t.Errorf("Interval should respect minimum, got %d", got)
	}
	if got := dm.Interval(1, 0, 100, 0); got != 1 {
		t.Errorf("Interval should never drop below 1, got %d", got)
	}
}
