package sprite

// Animator tracks which state an entity is in and the tick it entered it,
// so each state's cycle starts from frame 0 when it is switched to.
type Animator struct {
	catalog   Catalog
	character string
	state     string
	start     int
}

// NewAnimator creates an animator for a character starting in state at tick.
// The state is validated immediately so a bad table fails at spawn time.
func NewAnimator(catalog Catalog, character, state string, tick int) (*Animator, error) {
	if _, err := catalog.Lookup(character, state); err != nil {
		return nil, err
	}
	return &Animator{
		catalog:   catalog,
		character: character,
		state:     state,
		start:     tick,
	}, nil
}

// State returns the current state name.
func (a *Animator) State() string {
	return a.state
}

// SetState switches to a new state. Re-entering the current state is a no-op
// and keeps the running cycle.
func (a *Animator) SetState(state string, tick int) error {
	if state == a.state {
		return nil
	}
	if _, err := a.catalog.Lookup(a.character, state); err != nil {
		return err
	}
	a.state = state
	a.start = tick
	return nil
}

// Frame returns the active frame index at tick.
func (a *Animator) Frame(tick int) (int, error) {
	d, err := a.catalog.Lookup(a.character, a.state)
	if err != nil {
		return 0, err
	}
	return Sample(tick-a.start, d)
}

// Done reports whether the current state has played at least one full cycle.
// Used for one-shot effects such as explosions.
func (a *Animator) Done(tick int) bool {
	d, err := a.catalog.Lookup(a.character, a.state)
	if err != nil {
		return true
	}
	return tick-a.start >= d.CycleTicks()
}
