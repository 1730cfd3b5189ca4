package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/speedrun-arcade/internal/config"
	"github.com/vovakirdan/speedrun-arcade/internal/publish"
	"github.com/vovakirdan/speedrun-arcade/internal/replay"
	"github.com/vovakirdan/speedrun-arcade/internal/scoring"
	"github.com/vovakirdan/speedrun-arcade/internal/storage"
)

var flagSave bool

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Score a scripted run without a terminal",
	Long: `Feed a YAML event script through the combo scorer and print the
score event log and the end-of-stage tally.

Script format:
  game_id: bugsweep
  steps:
    - {tick: 0, type: bug}
    - {tick: 40, type: powerup}
    - {tick: 60, action: hit}
  finish: {cleared: true, remaining_seconds: 40}

Scoring tables come from the speedrun config (--config). Events are
published to MQTT when publish.broker is set.

Examples:
  speedrun replay ./run.yaml
  speedrun replay ./run.yaml --save`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagSave, "save", false, "Record the run in the scores database")
}

func runReplay(_ *cobra.Command, args []string) {
	logger := newLogger()

	speedCfg, err := config.LoadSpeedrun(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	tables, err := speedCfg.Scoring.Tables()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	script, err := replay.Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var sink replay.Sink
	pub := openPublisher(speedCfg, logger)
	if pub != nil {
		sink = pub
	}

	res, err := replay.NewRunner(tables, logger, sink).Run(script)
	if err != nil {
		closePublisher(pub)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if pub != nil {
		msg := publish.RunMessage{GameID: res.GameID, Score: res.Score, MaxCombo: res.MaxCombo, Ticks: res.Ticks}
		if res.Tally != nil {
			msg.Cleared = script.Finish.Cleared
			msg.Tally = res.Tally.Lines
		}
		if err := pub.PublishRun(msg); err != nil {
			logger.Warn("could not publish run", "error", err)
		}
		pub.Close()
	}

	fmt.Printf("Replay - %s\n\n", res.GameID)
	printEvents(res.Events)
	fmt.Println()
	if res.Tally != nil {
		printTally(*res.Tally)
	} else {
		fmt.Printf("Score: %d  Max combo: x%d\n", res.Score, res.MaxCombo)
	}

	if !flagSave {
		return
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	runID, err := store.SaveRun(storage.Run{
		GameID:   res.GameID,
		Score:    res.Score,
		MaxCombo: res.MaxCombo,
		Ticks:    res.Ticks,
		Events:   res.Events,
	})
	store.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error saving run: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nSaved as run %d.\n", runID)
}

func closePublisher(pub *publish.Publisher) {
	if pub != nil {
		pub.Close()
	}
}

func printEvents(events []scoring.Event) {
	fmt.Printf("  %-4s  %-6s  %-14s  %-6s  %-5s  %s\n", "#", "Tick", "Event", "Base", "Mult", "Points")
	fmt.Printf("  %-4s  %-6s  %-14s  %-6s  %-5s  %s\n", "-", "----", "-----", "----", "----", "------")
	for i, e := range events {
		fmt.Printf("  %-4d  %-6d  %-14s  %-6d  x%-4.1f  %d\n",
			i+1, e.Tick, e.Type, e.BaseValue, e.Multiplier, e.Points)
	}
}

func printTally(t scoring.Tally) {
	for _, line := range t.Lines {
		fmt.Printf("  %-16s %8d\n", line.Label, line.Points)
	}
	fmt.Printf("  %-16s %8d\n", "TOTAL", t.Total)
}
