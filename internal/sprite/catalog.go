package sprite

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownAnimation is returned by Catalog.Lookup for a missing
// character or state.
var ErrUnknownAnimation = errors.New("sprite: unknown animation")

// Set maps a state name (walk, idle, explode...) to its descriptor.
type Set map[string]Descriptor

// Catalog maps a character name to its animation set.
// It is built once at startup and treated as read-only afterwards.
type Catalog map[string]Set

// Lookup returns the descriptor for a character's state.
func (c Catalog) Lookup(character, state string) (Descriptor, error) {
	set, ok := c[character]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: character %q", ErrUnknownAnimation, character)
	}
	d, ok := set[state]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s.%s", ErrUnknownAnimation, character, state)
	}
	return d, nil
}

// Validate checks every descriptor in the catalog.
// Entries are visited in sorted order so the reported error is stable.
func (c Catalog) Validate() error {
	characters := make([]string, 0, len(c))
	for name := range c {
		characters = append(characters, name)
	}
	sort.Strings(characters)

	for _, name := range characters {
		set := c[name]
		states := make([]string, 0, len(set))
		for state := range set {
			states = append(states, state)
		}
		sort.Strings(states)

		for _, state := range states {
			if err := set[state].Validate(); err != nil {
				return fmt.Errorf("%s.%s: %w", name, state, err)
			}
		}
	}
	return nil
}

// DefaultCatalog returns the built-in animation tables.
func DefaultCatalog() Catalog {
	return Catalog{
		"buzzminson": {
			"walk":   {Frames: 4, TicksPerFrame: 6},
			"jump":   {Frames: 3, TicksPerFrame: 7},
			"idle":   {Frames: 2, TicksPerFrame: 15},
			"attack": {Frames: 3, TicksPerFrame: 5},
		},
		"maximus": {
			"idle":  {Frames: 2, TicksPerFrame: 10},
			"shoot": {Frames: 2, TicksPerFrame: 4},
			"power": {Frames: 3, TicksPerFrame: 6},
		},
		"codeSmell": {
			"walk":     {Frames: 2, TicksPerFrame: 12},
			"defeated": {Frames: 4, TicksPerFrame: 5},
		},
		"bug": {
			"fly":     {Frames: 2, TicksPerFrame: 8},
			"explode": {Frames: 5, TicksPerFrame: 4},
		},
		"boss": {
			"idle":     {Frames: 2, TicksPerFrame: 20},
			"attack":   {Frames: 4, TicksPerFrame: 6},
			"hurt":     {Frames: 2, TicksPerFrame: 4},
			"defeated": {Frames: 6, TicksPerFrame: 5},
		},
		"collectible": {
			"bob":     {Frames: 2, TicksPerFrame: 15},
			"collect": {Frames: 5, TicksPerFrame: 3},
		},
		"ui": {
			"blink": {Frames: 2, TicksPerFrame: 30},
			"pulse": {Frames: 4, TicksPerFrame: 8},
		},
	}
}
