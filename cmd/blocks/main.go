// blocks is a block placement puzzle for the terminal.
//
// Usage:
//
//	blocks list               - List board variants
//	blocks play [variant]     - Play a variant (default: blocks)
//	blocks menu               - Pick a variant interactively
//	blocks serve              - Start SSH server for remote play
//	blocks scores [variant]   - Show high scores
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible games
//	--db <path>           - Set database path (default: ~/.blocks/scores.db)
//	--config <path>       - Use a specific YAML config
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocks/internal/config"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

// logger is the root logger, configured before any subcommand runs.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "blocks",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Blocks - a placement puzzle in your terminal",
	Long: `Blocks is a terminal puzzle: place the offered pieces on the grid,
fill whole rows or columns to clear them, and keep going until nothing fits.

Available commands:
  list     - Show all board variants
  play     - Play a variant directly
  menu     - Interactive variant picker
  serve    - Start SSH server for remote play
  scores   - View high scores

Examples:
  blocks play
  blocks play blocks_mini --seed 42
  blocks menu
  blocks serve --ssh :2222
  blocks scores`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.blocks/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a blocks YAML config")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setup applies the log level and loads the config so that errors in an
// explicit --config surface before any screen takes over the terminal.
// Variants listed in the config are registered here.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger.SetLevel(level)

	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "source", source)

	blocks.SetConfigPath(flagConfig)
	if added := blocks.RegisterVariants(cfg.Variants); len(added) > 0 {
		logger.Debug("registered variants", "ids", added)
	}
	return nil
}
