package bugsweep

import (
	"github.com/fogleman/ease"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/vovakirdan/speedrun-arcade/internal/core"
)

// rollTicks is how long the HUD score takes to catch up with the tracker.
const rollTicks = 20

// rollCurve is ease.OutQuad sampled once per tick of the roll-up.
var rollCurve = func() []float64 {
	lut := make([]float64, rollTicks+1)
	for i := range lut {
		lut[i] = ease.OutQuad(float64(i) / rollTicks)
	}
	return lut
}()

// scoreCounter is the displayed score. It eases from its current value
// toward each new target instead of jumping.
type scoreCounter struct {
	from, to int
	start    int
	value    int
}

// Update retargets the counter when the score changes and advances it.
func (c *scoreCounter) Update(target, tick int) {
	if target != c.to {
		c.from = c.value
		c.to = target
		c.start = tick
	}

	elapsed := tick - c.start
	if elapsed >= rollTicks || elapsed < 0 {
		c.value = c.to
		return
	}
	c.value = c.from + int(float64(c.to-c.from)*rollCurve[elapsed])
}

// Value returns the score to display.
func (c *scoreCounter) Value() int {
	return c.value
}

// comboPalette holds the meter colour per combo tier.
var comboPalette = map[int]string{
	1: "#5fafff",
	2: "#5fff87",
	3: "#ffd75f",
	4: "#ff875f",
	5: "#ff5fd7",
}

const comboFaded = "#585858"

// comboColor picks the meter colour for a tier and blends it toward gray
// over the last third of the combo window.
func comboColor(tier, remaining, timeout int) core.Color {
	hex, ok := comboPalette[tier]
	if !ok {
		return core.ColorGray
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return core.ColorGray
	}

	fadeSpan := timeout / 3
	if fadeSpan <= 0 || remaining >= fadeSpan {
		return core.Color(c.Hex())
	}
	gray, _ := colorful.Hex(comboFaded)
	t := 1 - float64(max(remaining, 0))/float64(fadeSpan)
	return core.Color(c.BlendHcl(gray, t).Clamped().Hex())
}
