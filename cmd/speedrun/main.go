// speedrun is a terminal arcade shooter with combo scoring.
//
// Usage:
//
//	speedrun list                 - List available games
//	speedrun play <game>          - Play a game
//	speedrun scores <game>        - Show high scores for a game
//	speedrun serve                - Start SSH server for remote play
//	speedrun replay <script.yaml> - Score a scripted run without a terminal
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set database path (default: ~/.arcade/speedrun.db)
//	--config <path>      - Custom speedrun config YAML
//	--log-level <level>  - debug, info, warn or error (default: warn)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/speedrun-arcade/internal/config"
	"github.com/vovakirdan/speedrun-arcade/internal/publish"

	// Import games to register them
	_ "github.com/vovakirdan/speedrun-arcade/internal/games/bugsweep"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "speedrun",
	Short: "Speedrun Arcade - Shoot bugs and chain combos in your terminal",
	Long: `Speedrun Arcade is a terminal shooter built around combo scoring.

Every hit inside the combo window raises the multiplier, up to x5.
Getting hit drops the combo.

Available commands:
  list     - Show all available games
  play     - Play a specific game
  scores   - View high scores and run logs
  serve    - Start SSH server for remote play
  replay   - Score a scripted run headlessly

Examples:
  speedrun list
  speedrun play bugsweep
  speedrun scores bugsweep
  speedrun serve --ssh :2222
  speedrun replay ./run.yaml --save`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/speedrun.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom speedrun config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replayCmd)
}

// newLogger builds the root logger from --log-level.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "speedrun",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using warn", "level", flagLogLevel)
		level = log.WarnLevel
	}
	logger.SetLevel(level)
	return logger
}

// openPublisher connects to the configured MQTT broker. It returns nil when
// publishing is disabled or the broker cannot be reached.
func openPublisher(cfg config.SpeedrunConfig, logger *log.Logger) *publish.Publisher {
	if !cfg.Publish.Enabled() {
		return nil
	}
	pub, err := publish.Dial(cfg.Publish, logger)
	if err != nil {
		logger.Warn("score events will not be published", "broker", cfg.Publish.Broker, "error", err)
		return nil
	}
	logger.Info("publishing score events", "broker", cfg.Publish.Broker, "topic", cfg.Publish.Topic)
	return pub
}
