// Package sprite maps a monotonic tick counter onto looping sprite animations.
// Every function here is pure: the caller owns the clock and passes the tick in.
package sprite

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidDescriptor is returned when a descriptor has a non-positive
// frame count or hold duration.
var ErrInvalidDescriptor = errors.New("sprite: invalid animation descriptor")

// Descriptor defines one cyclic animation: how many frames it has and how
// many ticks each frame is held before advancing.
type Descriptor struct {
	Frames        int `yaml:"frames"`
	TicksPerFrame int `yaml:"ticks_per_frame"`
}

// Validate reports ErrInvalidDescriptor if either field is not positive.
func (d Descriptor) Validate() error {
	if d.Frames <= 0 || d.TicksPerFrame <= 0 {
		return fmt.Errorf("%w: frames=%d ticks_per_frame=%d", ErrInvalidDescriptor, d.Frames, d.TicksPerFrame)
	}
	return nil
}

// CycleTicks returns the length of one full loop in ticks, saturating at
// math.MaxInt when the product does not fit.
func (d Descriptor) CycleTicks() int {
	if d.Frames > 0 && d.TicksPerFrame > math.MaxInt/d.Frames {
		return math.MaxInt
	}
	return d.Frames * d.TicksPerFrame
}

// Sample returns the frame index in [0, d.Frames) that is active at tick.
// Negative ticks are normalised with a floored modulo, so the sequence
// extends backwards with the same period. The cycle length is never
// materialised, so any valid descriptor is safe.
func Sample(tick int, d Descriptor) (int, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	return floorMod(floorDiv(tick, d.TicksPerFrame), d.Frames), nil
}

// floorDiv divides rounding towards negative infinity; b must be positive.
func floorDiv(a, b int) int {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

// floorMod returns a mod b in [0, b); b must be positive.
func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
