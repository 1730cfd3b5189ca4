package scoring

import (
	"errors"
	"testing"
)

// bugTables is the single-event table used by the combo examples.
func bugTables() Tables {
	return Tables{
		BaseValues:        map[EventType]int{EventBug: 150},
		Multipliers:       map[int]float64{1: 1.0, 2: 1.5, 3: 2.0, 4: 3.0, 5: 5.0},
		ComboTimeoutTicks: 90,
	}
}

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := NewTracker(bugTables())
	if err != nil {
		t.Fatalf("NewTracker() failed: %v", err)
	}
	return tr
}

func mustAdd(t *testing.T, tr *Tracker, tick int, typ EventType) int {
	t.Helper()
	pts, err := tr.AddPoints(tick, typ)
	if err != nil {
		t.Fatalf("AddPoints(%d, %q) failed: %v", tick, typ, err)
	}
	return pts
}

func TestFreshTracker(t *testing.T) {
	tr := newTestTracker(t)

	if tr.Score() != 0 || tr.Combo() != 0 || len(tr.Events()) != 0 {
		t.Errorf("fresh tracker not zeroed: score=%d combo=%d events=%d", tr.Score(), tr.Combo(), len(tr.Events()))
	}
	if _, ok := tr.LastEventTick(); ok {
		t.Error("fresh tracker should have no last event tick")
	}
	if tr.Multiplier() != 0 {
		t.Errorf("Multiplier() with no combo = %v, expected 0", tr.Multiplier())
	}
}

func TestComboEscalation(t *testing.T) {
	tr := newTestTracker(t)

	steps := []struct {
		tick   int
		points int
		combo  int
	}{
		{0, 150, 1},
		{10, 225, 2},
		{20, 300, 3},
	}

	for _, s := range steps {
		got := mustAdd(t, tr, s.tick, EventBug)
		if got != s.points {
			t.Errorf("AddPoints(%d) = %d, expected %d", s.tick, got, s.points)
		}
		if tr.Combo() != s.combo {
			t.Errorf("Combo() after tick %d = %d, expected %d", s.tick, tr.Combo(), s.combo)
		}
	}

	if tr.Score() != 675 {
		t.Errorf("Score() = %d, expected 675", tr.Score())
	}
}

func TestComboExpiry(t *testing.T) {
	tr := newTestTracker(t)
	mustAdd(t, tr, 0, EventBug)
	mustAdd(t, tr, 10, EventBug)
	mustAdd(t, tr, 20, EventBug)

	// Gap of 180 > 90 resets before scoring
	if got := mustAdd(t, tr, 200, EventBug); got != 150 {
		t.Errorf("AddPoints after expiry = %d, expected 150", got)
	}
	if tr.Combo() != 1 {
		t.Errorf("Combo() after expiry = %d, expected 1", tr.Combo())
	}
}

func TestComboWindowIsInclusive(t *testing.T) {
	tr := newTestTracker(t)
	mustAdd(t, tr, 0, EventBug)

	// A gap of exactly the timeout keeps the combo alive
	if got := mustAdd(t, tr, 90, EventBug); got != 225 {
		t.Errorf("AddPoints at gap == timeout = %d, expected 225", got)
	}
	// One tick more lapses it
	if got := mustAdd(t, tr, 181, EventBug); got != 150 {
		t.Errorf("AddPoints at gap == timeout+1 = %d, expected 150", got)
	}
}

func TestComboCap(t *testing.T) {
	tr := newTestTracker(t)

	for i := 0; i < 10; i++ {
		got := mustAdd(t, tr, i*10, EventBug)
		if tr.Combo() > MaxTier {
			t.Fatalf("Combo() = %d exceeds cap", tr.Combo())
		}
		if i >= 4 && got != 750 {
			t.Errorf("hit %d awarded %d, expected tier-5 750", i+1, got)
		}
	}

	events := tr.Events()
	for i := 5; i < 10; i++ {
		if events[i].Multiplier != 5.0 {
			t.Errorf("event %d multiplier = %v, expected 5.0", i+1, events[i].Multiplier)
		}
	}
	if tr.MaxCombo() != MaxTier {
		t.Errorf("MaxCombo() = %d, expected %d", tr.MaxCombo(), MaxTier)
	}
}

func TestScoreMonotonic(t *testing.T) {
	tr, err := NewTracker(DefaultTables())
	if err != nil {
		t.Fatalf("NewTracker() failed: %v", err)
	}

	types := []EventType{EventBug, EventQuestion, EventSmell, EventPowerup, EventBoss, EventCode}
	prev := 0
	tick := 0
	for i := 0; i < 60; i++ {
		tick += (i * 37) % 130
		if i%7 == 0 {
			tr.ResetCombo()
		}
		mustAdd(t, tr, tick, types[i%len(types)])
		if tr.Score() < prev {
			t.Fatalf("score decreased from %d to %d at step %d", prev, tr.Score(), i)
		}
		prev = tr.Score()
	}
}

func TestUnknownEventType(t *testing.T) {
	tr := newTestTracker(t)
	mustAdd(t, tr, 0, EventBug)

	_, err := tr.AddPoints(5, "nonexistent_type")
	if !errors.Is(err, ErrUnknownEventType) {
		t.Fatalf("AddPoints(unknown) error = %v, expected ErrUnknownEventType", err)
	}

	if tr.Score() != 150 {
		t.Errorf("Score() changed to %d", tr.Score())
	}
	if tr.Combo() != 1 {
		t.Errorf("Combo() changed to %d", tr.Combo())
	}
	if len(tr.Events()) != 1 {
		t.Errorf("event log grew to %d", len(tr.Events()))
	}
	if last, _ := tr.LastEventTick(); last != 0 {
		t.Errorf("LastEventTick() changed to %d", last)
	}
}

func TestUnknownEventTypeOnFreshTracker(t *testing.T) {
	tr := newTestTracker(t)

	if _, err := tr.AddPoints(0, "nonexistent_type"); !errors.Is(err, ErrUnknownEventType) {
		t.Fatalf("error = %v, expected ErrUnknownEventType", err)
	}
	if tr.Score() != 0 || tr.Combo() != 0 || len(tr.Events()) != 0 {
		t.Error("failed AddPoints mutated a fresh tracker")
	}
}

func TestTickRegressionRejected(t *testing.T) {
	tr := newTestTracker(t)
	mustAdd(t, tr, 50, EventBug)

	if _, err := tr.AddPoints(40, EventBug); !errors.Is(err, ErrTickRegression) {
		t.Fatalf("error = %v, expected ErrTickRegression", err)
	}
	if tr.Score() != 150 || tr.Combo() != 1 || tr.EventCount() != 1 {
		t.Error("rejected tick mutated tracker state")
	}

	// Same tick is allowed (two events in one frame)
	if got := mustAdd(t, tr, 50, EventBug); got != 225 {
		t.Errorf("same-tick AddPoints = %d, expected 225", got)
	}
}

func TestResetComboIsolation(t *testing.T) {
	tr := newTestTracker(t)
	mustAdd(t, tr, 0, EventBug)
	mustAdd(t, tr, 10, EventBug)

	score := tr.Score()
	count := len(tr.Events())

	tr.ResetCombo()

	if tr.Combo() != 0 {
		t.Errorf("Combo() after reset = %d, expected 0", tr.Combo())
	}
	if tr.Score() != score {
		t.Errorf("Score() changed by reset: %d -> %d", score, tr.Score())
	}
	if len(tr.Events()) != count {
		t.Errorf("event count changed by reset: %d -> %d", count, len(tr.Events()))
	}
	if last, ok := tr.LastEventTick(); !ok || last != 10 {
		t.Errorf("LastEventTick() after reset = %d,%v, expected 10,true", last, ok)
	}

	// Next hit inside the window starts again at tier 1
	if got := mustAdd(t, tr, 20, EventBug); got != 150 {
		t.Errorf("AddPoints after reset = %d, expected 150", got)
	}
	// Max combo survives the reset
	if tr.MaxCombo() != 2 {
		t.Errorf("MaxCombo() = %d, expected 2", tr.MaxCombo())
	}
}

func TestEventsReturnsCopy(t *testing.T) {
	tr := newTestTracker(t)
	mustAdd(t, tr, 0, EventBug)

	events := tr.Events()
	events[0].Points = 999999

	if got := tr.Events(); len(got) != 1 || got[0].Points != 150 {
		t.Errorf("tracker log was mutated through Events(): %+v", got)
	}
}

func TestLastEvent(t *testing.T) {
	tr := newTestTracker(t)
	if _, ok := tr.LastEvent(); ok {
		t.Fatal("fresh tracker should have no last event")
	}

	mustAdd(t, tr, 3, EventBug)
	mustAdd(t, tr, 7, EventPowerup)

	got, ok := tr.LastEvent()
	want := Event{Tick: 7, Type: EventPowerup, BaseValue: 200, Multiplier: 1.5, Points: 300}
	if !ok || got != want {
		t.Errorf("LastEvent() = %+v, %v; expected %+v", got, ok, want)
	}
}

func TestEventLogContents(t *testing.T) {
	tr := newTestTracker(t)
	mustAdd(t, tr, 3, EventBug)
	mustAdd(t, tr, 7, EventBug)

	want := []Event{
		{Tick: 3, Type: EventBug, BaseValue: 150, Multiplier: 1.0, Points: 150},
		{Tick: 7, Type: EventBug, BaseValue: 150, Multiplier: 1.5, Points: 225},
	}
	got := tr.Events()
	if len(got) != len(want) {
		t.Fatalf("got %d events, expected %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, expected %+v", i, got[i], want[i])
		}
	}
}

func TestFlooredPoints(t *testing.T) {
	tables := bugTables()
	tables.BaseValues["odd"] = 101
	tr, err := NewTracker(tables)
	if err != nil {
		t.Fatalf("NewTracker() failed: %v", err)
	}

	mustAdd(t, tr, 0, "odd")
	// 101 * 1.5 = 151.5 -> 151
	if got := mustAdd(t, tr, 1, "odd"); got != 151 {
		t.Errorf("AddPoints = %d, expected 151", got)
	}
}

func TestComboRemaining(t *testing.T) {
	tr := newTestTracker(t)

	if tr.ComboRemaining(0) != 0 {
		t.Error("ComboRemaining without combo should be 0")
	}

	mustAdd(t, tr, 100, EventBug)
	if got := tr.ComboRemaining(130); got != 60 {
		t.Errorf("ComboRemaining(130) = %d, expected 60", got)
	}
	if got := tr.ComboRemaining(500); got != 0 {
		t.Errorf("ComboRemaining(500) = %d, expected 0", got)
	}

	tr.ResetCombo()
	if got := tr.ComboRemaining(101); got != 0 {
		t.Errorf("ComboRemaining after reset = %d, expected 0", got)
	}
}

func TestTrackerCopiesTables(t *testing.T) {
	tables := bugTables()
	tr, err := NewTracker(tables)
	if err != nil {
		t.Fatalf("NewTracker() failed: %v", err)
	}

	tables.BaseValues[EventBug] = 1
	tables.Multipliers[1] = 100

	if got := mustAdd(t, tr, 0, EventBug); got != 150 {
		t.Errorf("tracker observed caller's table mutation, got %d", got)
	}
}
