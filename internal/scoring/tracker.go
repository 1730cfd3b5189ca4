package scoring

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownEventType is returned by AddPoints for a type missing from
	// the base-value table.
	ErrUnknownEventType = errors.New("scoring: unknown event type")

	// ErrTickRegression is returned by AddPoints when the tick is earlier
	// than the previous event's tick.
	ErrTickRegression = errors.New("scoring: tick earlier than last event")
)

// Event is one entry of the tracker's append-only audit log.
type Event struct {
	Tick       int
	Type       EventType
	BaseValue  int
	Multiplier float64
	Points     int
}

// Tracker accumulates score with combo mechanics.
// A Tracker belongs to a single play session and is not safe for concurrent use.
type Tracker struct {
	tables   Tables
	score    int
	combo    int
	maxCombo int
	lastTick int
	hasLast  bool
	events   []Event
}

// NewTracker validates the tables and returns a fresh tracker.
func NewTracker(tables Tables) (*Tracker, error) {
	if err := tables.Validate(); err != nil {
		return nil, err
	}
	return &Tracker{tables: tables.clone()}, nil
}

// AddPoints registers a scoring event at tick and returns the points awarded.
// On error the tracker is left unchanged.
func (t *Tracker) AddPoints(tick int, typ EventType) (int, error) {
	base, ok := t.tables.BaseValues[typ]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEventType, typ)
	}
	if t.hasLast && tick < t.lastTick {
		return 0, fmt.Errorf("%w: tick %d < %d", ErrTickRegression, tick, t.lastTick)
	}

	if t.hasLast && tick-t.lastTick > t.tables.ComboTimeoutTicks {
		t.combo = 0
	}
	t.combo = min(t.combo+1, MaxTier)
	t.maxCombo = max(t.maxCombo, t.combo)

	multiplier := t.tables.Multipliers[t.combo]
	points := int(math.Floor(float64(base) * multiplier))

	t.score += points
	t.lastTick = tick
	t.hasLast = true
	t.events = append(t.events, Event{
		Tick:       tick,
		Type:       typ,
		BaseValue:  base,
		Multiplier: multiplier,
		Points:     points,
	})

	return points, nil
}

// Score returns the running total.
func (t *Tracker) Score() int {
	return t.score
}

// Combo returns the current combo tier (0 when no combo is running).
func (t *Tracker) Combo() int {
	return t.combo
}

// MaxCombo returns the highest tier reached this session.
func (t *Tracker) MaxCombo() int {
	return t.maxCombo
}

// Multiplier returns the multiplier of the current tier, or 0 with no combo.
func (t *Tracker) Multiplier() float64 {
	if t.combo == 0 {
		return 0
	}
	return t.tables.Multipliers[t.combo]
}

// LastEventTick returns the tick of the most recent event.
// ok is false before the first event.
func (t *Tracker) LastEventTick() (tick int, ok bool) {
	return t.lastTick, t.hasLast
}

// ComboRemaining returns how many ticks are left at tick before the running
// combo lapses. Returns 0 when there is no combo.
func (t *Tracker) ComboRemaining(tick int) int {
	if t.combo == 0 || !t.hasLast {
		return 0
	}
	left := t.tables.ComboTimeoutTicks - (tick - t.lastTick)
	if left < 0 {
		return 0
	}
	return left
}

// ComboTimeout returns the configured combo window in ticks.
func (t *Tracker) ComboTimeout() int {
	return t.tables.ComboTimeoutTicks
}

// BaseValue returns the base score for an event type.
func (t *Tracker) BaseValue(typ EventType) (int, bool) {
	v, ok := t.tables.BaseValues[typ]
	return v, ok
}

// Events returns a copy of the audit log in insertion order.
func (t *Tracker) Events() []Event {
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// EventCount returns the length of the audit log without copying it.
func (t *Tracker) EventCount() int {
	return len(t.events)
}

// LastEvent returns the most recent log entry without copying the log.
func (t *Tracker) LastEvent() (Event, bool) {
	if len(t.events) == 0 {
		return Event{}, false
	}
	return t.events[len(t.events)-1], true
}

// ResetCombo breaks the running combo immediately.
// Score, last event tick and the log are kept.
func (t *Tracker) ResetCombo() {
	t.combo = 0
}
