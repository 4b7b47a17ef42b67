package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-blocks/internal/core"
	"github.com/vovakirdan/tui-blocks/internal/games/blocks"
	"github.com/vovakirdan/tui-blocks/internal/platform/tui"
	"github.com/vovakirdan/tui-blocks/internal/registry"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play a board variant",
	Long: `Start a game on the given variant (default: blocks).

Controls:
  1/2/3        - Pick an offered piece
  Tab          - Next piece
  Arrows/WASD  - Move the cursor
  Enter/Space  - Place the piece at the cursor
  Mouse        - Click a piece, then click a cell
  Esc          - Drop the selection
  P            - Pause
  R/Enter      - Play again (after game over)
  Ctrl+S       - Save a text screenshot
  Q/Ctrl+C     - Quit

Examples:
  blocks play
  blocks play blocks_mini
  blocks play --seed 42
  blocks play --config ./my-blocks.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

// runtimeConfig builds the runtime config from global flags and the
// current terminal size.
func runtimeConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	return cfg
}

// openStore opens the score database. The game still works without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, scores will not be saved", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := blocks.IDClassic
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'blocks list' to see available variants.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store := openStore()
	runErr := tui.Run(game, store, runtimeConfig())

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
