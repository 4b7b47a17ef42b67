package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-blocks/internal/platform/tui"
	"github.com/vovakirdan/tui-blocks/internal/registry"
	"github.com/vovakirdan/tui-blocks/internal/storage"
)

var flagBrowse bool

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores",
	Long: `Display the top 10 scores for a variant, or a summary of every variant
when none is given. --browse opens the interactive scoreboard instead.

Examples:
  blocks scores
  blocks scores blocks_mini
  blocks scores --browse`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Open the interactive scoreboard")
}

func runScores(_ *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagBrowse {
		cfg := runtimeConfig()
		if _, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	if len(args) == 0 {
		printSummary(store)
		return
	}

	gameID := args[0]
	info, ok := registry.Lookup(gameID)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'blocks list' to see available variants.")
		return
	}

	scores, err := store.TopScores(gameID, storage.DefaultTopLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	fmt.Printf("High Scores - %s\n", info.Title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'blocks play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-6s  %s\n", "Rank", "Score", "Lines", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %s\n", "----", "-----", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-8d  %-6d  %s\n", i+1, entry.Score, entry.Lines, dateStr)
	}

	if stats, err := store.GetGameStats(gameID); err == nil {
		fmt.Println()
		fmt.Printf("Games: %d  Best: %d  Avg: %.0f  Lines total: %d\n",
			stats.GamesCount, stats.HighScore, stats.AvgScore, stats.TotalLines)
	}
}

// printSummary prints one line per registered variant.
func printSummary(store *storage.Store) {
	all, err := store.GetAllGamesStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}

	fmt.Printf("  %-14s  %-6s  %-8s  %-10s  %s\n", "Variant", "Games", "Best", "Best lines", "Last played")
	fmt.Printf("  %-14s  %-6s  %-8s  %-10s  %s\n", "-------", "-----", "----", "----------", "-----------")

	for _, g := range registry.List() {
		stats, ok := all[g.ID]
		if !ok {
			fmt.Printf("  %-14s  %-6d  %-8s  %-10s  %s\n", g.ID, 0, "-", "-", "never")
			continue
		}
		fmt.Printf("  %-14s  %-6d  %-8d  %-10d  %s\n", g.ID, stats.GamesCount, stats.HighScore,
			stats.BestLines, stats.LastPlayed.Format("2006-01-02 15:04"))
	}
}
