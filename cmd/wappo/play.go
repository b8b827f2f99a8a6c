package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wappo/internal/games/wappo/levels"
	"github.com/vovakirdan/wappo/internal/platform/tui"
)

var flagPlayFile string

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play a level",
	Long: `Play a campaign level, a saved map or a level file.

Without arguments the last active level is restored, falling back to the
first campaign level.

Controls:
  Arrows/WASD/HJKL  - Move
  R                 - Restart the level
  N                 - Next level (after escaping)
  Ctrl+S            - Save the level as a map
  Q/Ctrl+C          - Quit

Examples:
  wappo play
  wappo play "Level 4"
  wappo play --file ./custom.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayFile, "file", "", "Play a level YAML file")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && flagPlayFile != "" {
		return fmt.Errorf("pass either a level name or --file, not both")
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	ctrl := startController(ctx, store)
	defer ctrl.Stop()

	loadCtx, loadCancel := context.WithTimeout(ctx, 5*time.Second)
	defer loadCancel()

	switch {
	case flagPlayFile != "":
		f, err := levels.NewLoader("", logger).LoadFile(expandPath(flagPlayFile))
		if err != nil {
			return err
		}
		if err := ctrl.LoadLevel(f.Level); err != nil {
			return err
		}
	case len(args) == 1:
		if err := ctrl.LoadByName(loadCtx, args[0]); err != nil {
			return err
		}
	default:
		ctrl.Bootstrap()
	}

	// The model reads the loaded level on start
	if err := ctrl.Sync(loadCtx); err != nil {
		return err
	}
	return tui.Run(ctrl, screenConfig())
}
