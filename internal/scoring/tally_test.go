package scoring

import "testing"

func TestComputeTally(t *testing.T) {
	tests := []struct {
		name     string
		hits     []int // ticks of bug events
		input    TallyInput
		labels   []string
		expected int
	}{
		{
			name:     "failed stage gets no clear bonuses",
			hits:     []int{0},
			input:    TallyInput{Cleared: false, Hits: 0, RemainingSeconds: 30},
			labels:   []string{"STAGE SCORE"},
			expected: 150,
		},
		{
			name:     "flawless clear",
			hits:     []int{0, 10},
			input:    TallyInput{Cleared: true, Hits: 0, RemainingSeconds: 14},
			labels:   []string{"STAGE SCORE", "LEVEL COMPLETE", "NO HIT BONUS", "TIME BONUS", "COMBO BONUS"},
			expected: 375 + 500 + 1000 + 700 + 100,
		},
		{
			name:     "clear with hits and no time left",
			hits:     []int{0, 10, 20, 30},
			input:    TallyInput{Cleared: true, Hits: 2, RemainingSeconds: 0},
			labels:   []string{"STAGE SCORE", "LEVEL COMPLETE", "COMBO BONUS"},
			expected: 150 + 225 + 300 + 450 + 500 + 600,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tr, err := NewTracker(DefaultTables())
			if err != nil {
				t.Fatalf("NewTracker() failed: %v", err)
			}
			for _, tick := range tc.hits {
				if _, err := tr.AddPoints(tick, EventBug); err != nil {
					t.Fatalf("AddPoints() failed: %v", err)
				}
			}

			tally, err := ComputeTally(tr, tc.input)
			if err != nil {
				t.Fatalf("ComputeTally() failed: %v", err)
			}

			if len(tally.Lines) != len(tc.labels) {
				t.Fatalf("got %d lines %+v, expected %v", len(tally.Lines), tally.Lines, tc.labels)
			}
			for i, label := range tc.labels {
				if tally.Lines[i].Label != label {
					t.Errorf("line %d = %q, expected %q", i, tally.Lines[i].Label, label)
				}
			}
			if tally.Total != tc.expected {
				t.Errorf("Total = %d, expected %d", tally.Total, tc.expected)
			}
		})
	}
}

func TestComputeTallyDoesNotTouchTracker(t *testing.T) {
	tr, _ := NewTracker(DefaultTables())
	tr.AddPoints(0, EventBug)

	ComputeTally(tr, TallyInput{Cleared: true, RemainingSeconds: 10})

	if tr.Score() != 150 || tr.EventCount() != 1 {
		t.Errorf("tally mutated tracker: score=%d events=%d", tr.Score(), tr.EventCount())
	}
}

func TestComputeTallyRejectsNegativeInput(t *testing.T) {
	tr, _ := NewTracker(DefaultTables())
	if _, err := ComputeTally(tr, TallyInput{Hits: -1}); err == nil {
		t.Error("expected error for negative hits")
	}
}
