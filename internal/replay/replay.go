// Package replay feeds a recorded or hand-written event script through a
// combo tracker without a terminal. It is used to audit scoring tables and
// to re-publish runs.
package replay

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/speedrun-arcade/internal/scoring"
)

// Step actions besides scoring an event type.
const (
	ActionScore = "score"
	ActionHit   = "hit" // Player took damage: combo resets
)

// Script is a YAML replay script.
//
//	game_id: bugsweep
//	steps:
//	  - {tick: 0, type: bug}
//	  - {tick: 30, action: hit}
//	finish: {cleared: true, remaining_seconds: 40}
type Script struct {
	GameID string  `yaml:"game_id"`
	Steps  []Step  `yaml:"steps"`
	Finish *Finish `yaml:"finish"`
}

// Step is one scripted moment of a run.
type Step struct {
	Tick   int    `yaml:"tick"`
	Type   string `yaml:"type"`   // Event type for score steps
	Action string `yaml:"action"` // "score" (default) or "hit"
}

// Finish describes how the scripted stage ended. Hits are counted from the
// script's hit steps.
type Finish struct {
	Cleared          bool `yaml:"cleared"`
	RemainingSeconds int  `yaml:"remaining_seconds"`
}

// Sink receives each recorded event, e.g. an MQTT publisher.
type Sink interface {
	PublishEvent(gameID string, e scoring.Event) error
}

// Result is the outcome of a replay.
type Result struct {
	GameID   string
	Events   []scoring.Event
	Score    int // Tally total when the script has a finish, tracker score otherwise
	MaxCombo int
	Ticks    int
	Hits     int
	Tally    *scoring.Tally
}

// Load reads and parses a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("replay: cannot read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a script from YAML.
func Parse(data []byte) (Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Script{}, fmt.Errorf("replay: cannot parse script: %w", err)
	}
	if s.GameID == "" {
		s.GameID = "replay"
	}
	return s, nil
}

// Runner replays scripts against a set of scoring tables.
type Runner struct {
	tables scoring.Tables
	logger *log.Logger
	sink   Sink
}

// NewRunner creates a runner. sink may be nil.
func NewRunner(tables scoring.Tables, logger *log.Logger, sink Sink) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{tables: tables, logger: logger, sink: sink}
}

// Run plays the script on a fresh tracker. The first tracker error aborts
// the replay and is returned with the offending step.
func (r *Runner) Run(s Script) (Result, error) {
	tracker, err := scoring.NewTracker(r.tables)
	if err != nil {
		return Result{}, err
	}

	res := Result{GameID: s.GameID}
	for i, step := range s.Steps {
		switch step.Action {
		case "", ActionScore:
			points, err := tracker.AddPoints(step.Tick, scoring.EventType(step.Type))
			if err != nil {
				return Result{}, fmt.Errorf("replay: step %d (tick %d): %w", i, step.Tick, err)
			}
			r.logger.Debug("event", "tick", step.Tick, "type", step.Type, "combo", tracker.Combo(), "points", points)
			r.forward(s.GameID, tracker)
		case ActionHit:
			tracker.ResetCombo()
			res.Hits++
			r.logger.Debug("hit", "tick", step.Tick)
		default:
			return Result{}, fmt.Errorf("replay: step %d: unknown action %q", i, step.Action)
		}
		res.Ticks = max(res.Ticks, step.Tick)
	}

	res.Events = tracker.Events()
	res.Score = tracker.Score()
	res.MaxCombo = tracker.MaxCombo()

	if s.Finish != nil {
		tally, err := scoring.ComputeTally(tracker, scoring.TallyInput{
			Cleared:          s.Finish.Cleared,
			Hits:             res.Hits,
			RemainingSeconds: s.Finish.RemainingSeconds,
		})
		if err != nil {
			return Result{}, fmt.Errorf("replay: finish: %w", err)
		}
		res.Tally = &tally
		res.Score = tally.Total
	}

	r.logger.Info("replay finished", "game", s.GameID, "events", len(res.Events), "score", res.Score, "max_combo", res.MaxCombo)
	return res, nil
}

// forward sends the latest event to the sink. Publishing is best effort.
func (r *Runner) forward(gameID string, tracker *scoring.Tracker) {
	if r.sink == nil {
		return
	}
	e, ok := tracker.LastEvent()
	if !ok {
		return
	}
	if err := r.sink.PublishEvent(gameID, e); err != nil {
		r.logger.Warn("could not publish event", "error", err)
	}
}
