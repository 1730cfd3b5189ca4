package bugsweep

import (
	"testing"

	"github.com/vovakirdan/speedrun-arcade/internal/core"
)

func TestScoreCounterEases(t *testing.T) {
	var c scoreCounter

	c.Update(150, 0)
	if c.Value() != 0 {
		t.Errorf("value at start = %d, want 0", c.Value())
	}

	prev := c.Value()
	for tick := 1; tick <= rollTicks; tick++ {
		c.Update(150, tick)
		if c.Value() < prev {
			t.Fatalf("counter went backwards at tick %d: %d -> %d", tick, prev, c.Value())
		}
		prev = c.Value()
	}
	if c.Value() != 150 {
		t.Errorf("value after roll = %d, want 150", c.Value())
	}
}

func TestScoreCounterMidway(t *testing.T) {
	var c scoreCounter
	c.Update(150, 0)
	c.Update(150, rollTicks/2)

	// OutQuad(0.5) = 0.75
	if c.Value() != 112 {
		t.Errorf("value at half time = %d, want 112", c.Value())
	}
}

func TestScoreCounterRetargets(t *testing.T) {
	var c scoreCounter
	c.Update(100, 0)
	c.Update(100, rollTicks)
	c.Update(400, rollTicks+1)

	if c.Value() != 100 {
		t.Errorf("retarget should start from the shown value, got %d", c.Value())
	}
	c.Update(400, 2*rollTicks+1)
	if c.Value() != 400 {
		t.Errorf("value = %d, want 400", c.Value())
	}
}

func TestComboColor(t *testing.T) {
	const timeout = 90

	if got := comboColor(0, 0, timeout); got != core.ColorGray {
		t.Errorf("no combo colour = %q, want gray", got)
	}

	for tier, hex := range comboPalette {
		if got := comboColor(tier, timeout, timeout); string(got) != hex {
			t.Errorf("tier %d fresh colour = %q, want %q", tier, got, hex)
		}
	}

	fresh := comboColor(3, timeout/3, timeout)
	fading := comboColor(3, 10, timeout)
	gone := comboColor(3, 0, timeout)
	if fresh == fading || fading == gone {
		t.Errorf("combo colour should fade: %q, %q, %q", fresh, fading, gone)
	}
}
