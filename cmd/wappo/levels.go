package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/registry"
	"github.com/vovakirdan/wappo/internal/storage"
)

var levelsCmd = &cobra.Command{
	Use:   "levels [level]",
	Short: "List the campaign or show one level",
	Long: `Without arguments, lists every built-in level with its size and
pieces, marking the ones your progress has not unlocked yet.

With a level or saved map name, prints that board.

Examples:
  wappo levels
  wappo levels "Level 2"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLevels,
}

func runLevels(_ *cobra.Command, args []string) error {
	if len(args) == 1 {
		return showLevel(args[0])
	}

	infos := registry.List()
	if len(infos) == 0 {
		fmt.Println("No levels available.")
		return nil
	}

	unlocked := 1
	if store, err := storage.Open(appConfig.Storage.DSN); err == nil {
		if n, err := store.UnlockedLevels(); err == nil {
			unlocked = n
		}
		store.Close()
	}

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, l := range infos {
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	fmt.Println("Levels:")
	fmt.Println()
	fmt.Printf("  %3s  %-*s  %5s  %7s  %5s  %5s\n", "#", maxNameLen, "Name", "Size", "Enemies", "Traps", "Walls")
	fmt.Printf("  %3s  %-*s  %5s  %7s  %5s  %5s\n", "-", maxNameLen, "----", "----", "-------", "-----", "-----")

	for _, l := range infos {
		lock := ""
		if l.Index >= unlocked {
			lock = "  [locked]"
		}
		fmt.Printf("  %3d  %-*s  %5s  %7d  %5d  %5d%s\n",
			l.Index+1, maxNameLen, l.Name, fmt.Sprintf("%dx%d", l.Rows, l.Cols),
			l.Enemies, l.Traps, l.Walls, lock)
	}

	fmt.Println()
	fmt.Println("Run 'wappo play <name>' to play a level.")
	return nil
}

func showLevel(name string) error {
	l, err := findLevel(name)
	if err != nil {
		return err
	}
	s, err := l.NewState()
	if err != nil {
		return err
	}

	w, h := wappo.BoardSize(l.Rows, l.Cols)
	screen := core.NewScreen(w, h)
	wappo.RenderBoard(s, screen, 0, 0)

	fmt.Println(l.Name)
	fmt.Println()
	fmt.Println(screen.String())
	return nil
}
