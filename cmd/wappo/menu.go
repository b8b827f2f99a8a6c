package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wappo/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a level picker menu",
	Long: `Start wappo in interactive menu mode.

The menu lists the campaign followed by your saved maps. Levels beyond
your progress are locked until you escape the one before.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play the selected level
  X/Delete     - Delete the selected saved map
  Tab          - Results board
  B/Esc        - Back to the menu while playing
  Q            - Quit

Examples:
  wappo menu
  wappo menu --db ./wappo.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	ctrl := startController(ctx, store)
	defer ctrl.Stop()
	ctrl.Bootstrap()

	return tui.RunApp(ctrl, resultsStore(store), screenConfig())
}
