package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/storage"
)

var (
	flagResultsLimit int
	flagResultsClear bool
)

var resultsCmd = &cobra.Command{
	Use:   "results [level]",
	Short: "Show finished games",
	Long: `Without arguments, shows per-level totals and the most recent games.
With a level name, shows the best escapes on that level.

Examples:
  wappo results
  wappo results "Level 1"
  wappo results "Level 1" --limit 5
  wappo results --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().IntVar(&flagResultsLimit, "limit", 10, "Number of entries to show")
	resultsCmd.Flags().BoolVar(&flagResultsClear, "clear", false, "Delete the results instead of showing them")
}

func runResults(_ *cobra.Command, args []string) error {
	store, err := storage.Open(appConfig.Storage.DSN)
	if err != nil {
		return fmt.Errorf("opening results database: %w", err)
	}
	defer store.Close()

	level := ""
	if len(args) == 1 {
		level = args[0]
	}

	if flagResultsClear {
		if err := store.ClearResults(level); err != nil {
			return err
		}
		fmt.Println("Results cleared.")
		return nil
	}

	if level != "" {
		return showBest(store, level)
	}
	return showSummary(store)
}

func showBest(store *storage.Store, level string) error {
	entries, err := store.BestResults(level, flagResultsLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Best escapes - %s\n", level)
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No escapes recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'wappo play %q' to set the first one!\n", level)
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-6s  %s\n", "Rank", "Moves", "Date")
	fmt.Printf("  %-4s  %-6s  %s\n", "----", "-----", "----")

	for i, e := range entries {
		fmt.Printf("  %-4d  %-6d  %s\n", i+1, e.Moves, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Printf("Best: %d moves\n", entries[0].Moves)
	return nil
}

func showSummary(store *storage.Store) error {
	stats, err := store.AllLevelStats()
	if err != nil {
		return err
	}
	if len(stats) == 0 {
		fmt.Println("No games finished yet.")
		return nil
	}

	names := make([]string, 0, len(stats))
	maxNameLen := 5 // "Level" header
	for name := range stats {
		names = append(names, name)
		maxNameLen = max(maxNameLen, len(name))
	}
	slices.Sort(names)

	fmt.Println("Levels")
	fmt.Println()
	fmt.Printf("  %-*s  %5s  %4s  %4s  %s\n", maxNameLen, "Level", "Games", "Wins", "Best", "Last played")
	fmt.Printf("  %-*s  %5s  %4s  %4s  %s\n", maxNameLen, "-----", "-----", "----", "----", "-----------")
	for _, name := range names {
		ls := stats[name]
		best := "-"
		if ls.Wins > 0 {
			best = fmt.Sprintf("%d", ls.BestMoves)
		}
		fmt.Printf("  %-*s  %5d  %4d  %4s  %s\n",
			maxNameLen, name, ls.Games, ls.Wins, best, ls.LastPlayed.Format("2006-01-02 15:04"))
	}

	recent, err := store.RecentResults(flagResultsLimit)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println("Recent games")
	fmt.Println()
	for _, e := range recent {
		outcome := "escaped"
		if e.Result != wappo.ResultPlayerWon {
			outcome = "caught"
		}
		fmt.Printf("  %s  %-*s  %-7s  %d moves\n",
			e.CreatedAt.Format("2006-01-02 15:04"), maxNameLen, e.Level, outcome, e.Moves)
	}
	return nil
}
