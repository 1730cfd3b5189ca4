package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/speedrun-arcade/internal/config"
	"github.com/vovakirdan/speedrun-arcade/internal/core"
	"github.com/vovakirdan/speedrun-arcade/internal/games/bugsweep"
	"github.com/vovakirdan/speedrun-arcade/internal/platform/tui"
	"github.com/vovakirdan/speedrun-arcade/internal/registry"
	"github.com/vovakirdan/speedrun-arcade/internal/storage"
)

var flagDifficulty string

var playCmd = &cobra.Command{
	Use:   "play <game>",
	Short: "Play a game",
	Long: `Start playing the specified game.

Controls:
  A/D, Left/Right  - Move
  Space/W/Up       - Fire
  P                - Pause
  R                - Restart (after game over)
  Ctrl+S           - Save a screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Wider combo window, slow spawn progression
  normal - Default combo window
  hard   - Narrow combo window, starts at high spawn rate
  fixed  - No progression, stays at config's initial level

When publish.broker is set in the config, every score event is also
published to MQTT.

Examples:
  speedrun play bugsweep
  speedrun play bugsweep --difficulty hard
  speedrun play bugsweep --seed 42
  speedrun play bugsweep --config ./my-speedrun.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := args[0]
	logger := newLogger()

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'speedrun list' to see available games.")
		os.Exit(1)
	}

	cfg := core.DefaultConfig()
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed

	if gameID == bugsweep.GameID {
		bugsweep.SetConfigPath(flagConfig)
		bugsweep.SetDifficultyPreset(flagDifficulty)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	// A bad config surfaces inside the game; publishing just stays off.
	var sink tui.EventSink
	if speedCfg, cfgErr := config.LoadSpeedrun(flagConfig); cfgErr == nil {
		if pub := openPublisher(speedCfg, logger); pub != nil {
			defer pub.Close()
			sink = pub
		}
	}

	runErr := tui.Run(game, store, cfg, sink, logger)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
