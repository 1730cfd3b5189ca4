// Package scoring implements the combo score engine: consecutive scoring
// events inside a tick window escalate a multiplier, a longer gap resets it.
package scoring

import (
	"errors"
	"fmt"
)

// MaxTier is the highest combo tier. Hits beyond it keep the top multiplier.
const MaxTier = 5

// EventType keys the base-value table.
type EventType string

// Built-in event types.
const (
	EventQuestion EventType = "question"
	EventCode     EventType = "code"
	EventPowerup  EventType = "powerup"

	EventSmell   EventType = "smell"
	EventBug     EventType = "bug"
	EventBoss    EventType = "boss"
	EventBossBug EventType = "bossBug"

	EventLevelComplete EventType = "levelComplete"
	EventNoHit         EventType = "noHit"
	EventTimeBonus     EventType = "timeBonus" // per remaining second
	EventCombo2x       EventType = "combo2x"
	EventCombo3x       EventType = "combo3x"
	EventCombo4x       EventType = "combo4x"
)

// ErrInvalidTables is returned when the static tables are malformed.
var ErrInvalidTables = errors.New("scoring: invalid tables")

// Tables holds the static scoring configuration.
// It is loaded once per session and never mutated by the tracker.
type Tables struct {
	BaseValues        map[EventType]int
	Multipliers       map[int]float64
	ComboTimeoutTicks int
}

// DefaultTables returns the built-in scoring tables (timeout is 3s at 30fps).
func DefaultTables() Tables {
	return Tables{
		BaseValues: map[EventType]int{
			EventQuestion: 100,
			EventCode:     150,
			EventPowerup:  200,

			EventSmell:   250,
			EventBug:     150,
			EventBoss:    1000,
			EventBossBug: 5000,

			EventLevelComplete: 500,
			EventNoHit:         1000,
			EventTimeBonus:     50,
			EventCombo2x:       100,
			EventCombo3x:       300,
			EventCombo4x:       600,
		},
		Multipliers: map[int]float64{
			1: 1.0,
			2: 1.5,
			3: 2.0,
			4: 3.0,
			5: 5.0,
		},
		ComboTimeoutTicks: 90,
	}
}

// Validate checks that base values are positive, every tier 1..MaxTier has a
// positive multiplier, multipliers never decrease and the timeout is positive.
func (t Tables) Validate() error {
	if t.ComboTimeoutTicks <= 0 {
		return fmt.Errorf("%w: combo timeout must be positive, got %d", ErrInvalidTables, t.ComboTimeoutTicks)
	}
	if len(t.BaseValues) == 0 {
		return fmt.Errorf("%w: no base values", ErrInvalidTables)
	}
	for typ, v := range t.BaseValues {
		if v <= 0 {
			return fmt.Errorf("%w: base value for %q must be positive, got %d", ErrInvalidTables, typ, v)
		}
	}

	prev := 0.0
	for tier := 1; tier <= MaxTier; tier++ {
		m, ok := t.Multipliers[tier]
		if !ok {
			return fmt.Errorf("%w: missing multiplier for tier %d", ErrInvalidTables, tier)
		}
		if m <= 0 {
			return fmt.Errorf("%w: multiplier for tier %d must be positive, got %g", ErrInvalidTables, tier, m)
		}
		if m < prev {
			return fmt.Errorf("%w: multiplier for tier %d (%g) is below tier %d (%g)", ErrInvalidTables, tier, m, tier-1, prev)
		}
		prev = m
	}
	return nil
}

// clone copies the maps so a tracker never shares them with its caller.
func (t Tables) clone() Tables {
	out := Tables{
		BaseValues:        make(map[EventType]int, len(t.BaseValues)),
		Multipliers:       make(map[int]float64, len(t.Multipliers)),
		ComboTimeoutTicks: t.ComboTimeoutTicks,
	}
	for k, v := range t.BaseValues {
		out.BaseValues[k] = v
	}
	for k, v := range t.Multipliers {
		out.Multipliers[k] = v
	}
	return out
}
