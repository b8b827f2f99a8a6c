package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/platform/tui"
	"github.com/vovakirdan/wappo/internal/session"
	"github.com/vovakirdan/wappo/internal/storage"
)

// openStore opens the configured database. A failure is logged and nil
// returned so interactive commands can run without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(appConfig.Storage.DSN)
	if err != nil {
		logger.Warn("could not open database, progress will not be saved", "err", err)
		return nil
	}
	return store
}

// startController creates a controller over store and runs its worker
// until ctx ends.
func startController(ctx context.Context, store *storage.Store) *session.Controller {
	opts := session.Options{
		Delays: appConfig.Timing.Durations(),
		Logger: logger,
	}
	if store != nil {
		opts.Store = store
	}
	ctrl := session.New(opts)
	ctrl.Start(ctx)
	return ctrl
}

// resultsStore keeps a missing store a nil interface.
func resultsStore(store *storage.Store) tui.ResultsStore {
	if store == nil {
		return nil
	}
	return store
}

// screenConfig sizes the game screen to the terminal.
func screenConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	return cfg
}

func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
