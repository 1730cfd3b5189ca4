package scoring

import "fmt"

// TallyInput describes how a stage ended.
type TallyInput struct {
	Cleared          bool // stage objective reached
	Hits             int  // times the player was hit
	RemainingSeconds int  // time left on the clock when the stage ended
}

// TallyLine is one labelled row of the end-of-stage breakdown.
type TallyLine struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// Tally is the end-of-stage breakdown.
type Tally struct {
	Lines []TallyLine
	Total int
}

// ComputeTally builds the victory breakdown from the tracker's stage score and
// the bonus entries of the base-value table. Bonuses are flat: combo
// multipliers never apply to them. Bonus types missing from the table are
// skipped rather than counted as zero-value lines.
func ComputeTally(t *Tracker, in TallyInput) (Tally, error) {
	if in.Hits < 0 || in.RemainingSeconds < 0 {
		return Tally{}, fmt.Errorf("scoring: invalid tally input: hits=%d remaining=%d", in.Hits, in.RemainingSeconds)
	}

	tally := Tally{}
	tally.add("STAGE SCORE", t.Score())

	if in.Cleared {
		if v, ok := t.BaseValue(EventLevelComplete); ok {
			tally.add("LEVEL COMPLETE", v)
		}
		if in.Hits == 0 {
			if v, ok := t.BaseValue(EventNoHit); ok {
				tally.add("NO HIT BONUS", v)
			}
		}
		if v, ok := t.BaseValue(EventTimeBonus); ok && in.RemainingSeconds > 0 {
			tally.add("TIME BONUS", v*in.RemainingSeconds)
		}
	}

	if typ, ok := comboBonusType(t.MaxCombo()); ok {
		if v, ok := t.BaseValue(typ); ok {
			tally.add("COMBO BONUS", v)
		}
	}

	return tally, nil
}

func (t *Tally) add(label string, points int) {
	t.Lines = append(t.Lines, TallyLine{Label: label, Points: points})
	t.Total += points
}

// comboBonusType picks the combo bonus for the best tier reached.
func comboBonusType(best int) (EventType, bool) {
	switch {
	case best >= 4:
		return EventCombo4x, true
	case best == 3:
		return EventCombo3x, true
	case best == 2:
		return EventCombo2x, true
	default:
		return "", false
	}
}
