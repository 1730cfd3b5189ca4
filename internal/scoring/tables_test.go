package scoring

import (
	"errors"
	"testing"
)

func TestDefaultTablesValid(t *testing.T) {
	if err := DefaultTables().Validate(); err != nil {
		t.Fatalf("DefaultTables() invalid: %v", err)
	}
}

func TestTablesValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Tables)
	}{
		{"zero timeout", func(tb *Tables) { tb.ComboTimeoutTicks = 0 }},
		{"negative timeout", func(tb *Tables) { tb.ComboTimeoutTicks = -5 }},
		{"empty base values", func(tb *Tables) { tb.BaseValues = map[EventType]int{} }},
		{"zero base value", func(tb *Tables) { tb.BaseValues[EventBug] = 0 }},
		{"missing tier", func(tb *Tables) { delete(tb.Multipliers, 3) }},
		{"negative multiplier", func(tb *Tables) { tb.Multipliers[1] = -1 }},
		{"decreasing multiplier", func(tb *Tables) { tb.Multipliers[4] = 1.0 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tables := DefaultTables()
			tc.modify(&tables)

			if err := tables.Validate(); !errors.Is(err, ErrInvalidTables) {
				t.Errorf("Validate() error = %v, expected ErrInvalidTables", err)
			}
			if _, err := NewTracker(tables); !errors.Is(err, ErrInvalidTables) {
				t.Errorf("NewTracker() error = %v, expected ErrInvalidTables", err)
			}
		})
	}
}

func TestTablesEqualMultipliersAllowed(t *testing.T) {
	tables := DefaultTables()
	tables.Multipliers = map[int]float64{1: 1, 2: 1, 3: 1, 4: 1, 5: 1}
	if err := tables.Validate(); err != nil {
		t.Errorf("flat multipliers should be valid: %v", err)
	}
}
