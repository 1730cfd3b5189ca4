package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/speedrun-arcade/internal/platform/tui"
	"github.com/vovakirdan/speedrun-arcade/internal/registry"
	"github.com/vovakirdan/speedrun-arcade/internal/storage"
)

var (
	flagPlain  bool
	flagClear  bool
	flagEvents int64
)

var scoresCmd = &cobra.Command{
	Use:   "scores <game>",
	Short: "Show high scores for a game",
	Long: `Open the scoreboard for the specified game. Select a run and press
Enter to inspect its score event log.

Examples:
  speedrun scores bugsweep
  speedrun scores bugsweep --plain
  speedrun scores bugsweep --events 12
  speedrun scores bugsweep --clear`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the top 10 instead of opening the scoreboard")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all runs recorded for the game")
	scoresCmd.Flags().Int64Var(&flagEvents, "events", 0, "Print the score event log of a run ID")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'speedrun list' to see available games.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case flagClear:
		err = store.ClearScores(gameID)
		if err == nil {
			fmt.Printf("Cleared all runs for %s.\n", game.Title())
		}
	case flagEvents > 0:
		err = printRunEvents(store, flagEvents)
	case flagPlain:
		err = printTopScores(store, gameID, game.Title())
	default:
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		err = tui.RunScoreboard(store, gameID, width, height)
	}

	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printTopScores(store *storage.Store, gameID, title string) error {
	scores, err := store.TopScores(gameID, 10)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'speedrun play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-6s  %-10s  %-5s  %-6s  %s\n", "Rank", "Run", "Score", "Combo", "Time", "Date")
	fmt.Printf("  %-4s  %-6s  %-10s  %-5s  %-6s  %s\n", "----", "---", "-----", "-----", "----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-6d  %-10d  x%-4d  %-6s  %s\n",
			i+1, entry.ID, entry.Score, entry.MaxCombo,
			formatTicks(entry.Ticks), entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d  Best combo: x%d  Runs: %d\n", stats.HighScore, stats.BestCombo, stats.GamesCount)
	return nil
}

func printRunEvents(store *storage.Store, runID int64) error {
	events, err := store.RunEvents(runID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Printf("Run %d has no recorded events.\n", runID)
		return nil
	}

	fmt.Printf("Run %d\n\n", runID)
	printEvents(events)
	return nil
}

// formatTicks renders a tick count as m:ss at the configured rate.
func formatTicks(ticks int) string {
	rate := flagFPS
	if rate <= 0 {
		rate = 60
	}
	secs := ticks / rate
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
