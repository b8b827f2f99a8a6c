// wappo is a turn-based grid chase puzzle for the terminal.
//
// Usage:
//
//	wappo play [level]       - Play a level (default: resume where you left off)
//	wappo menu               - Pick levels and saved maps interactively
//	wappo levels [level]     - List the campaign or print one board
//	wappo maps <command>     - Manage saved maps (list, import, export, delete, clear)
//	wappo results [level]    - Show finished games
//	wappo serve              - Start SSH (and optional WebSocket) server
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.wappo/configs/wappo.yaml)
//	--db <dsn>          - SQLite path or postgres:// DSN
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Write logs to a file instead of stderr
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/wappo/internal/config"
	// Import the catalog to register the campaign
	"github.com/vovakirdan/wappo/internal/games/wappo/levels"
)

var (
	// Global flags
	flagConfigPath string
	flagDSN        string
	flagLogLevel   string
	flagLogFile    string
)

var (
	appConfig config.Config
	logger    *log.Logger
	logOut    io.Closer
)

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: cannot load .env: %v\n", err)
	}

	err := rootCmd.Execute()
	if logOut != nil {
		logOut.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wappo",
	Short: "Wappo - escape the monsters in your terminal",
	Long: `Wappo is a turn-based chase puzzle. Each move you make, every monster
takes up to two steps toward you. Walls block everyone, traps freeze
monsters for three turns, and reaching an exit wins the level.

Available commands:
  play     - Play a level directly
  menu     - Interactive level picker
  levels   - List the campaign
  maps     - Manage saved maps
  results  - View finished games
  serve    - Start SSH server for remote play

Configuration comes from --config, ~/.wappo/configs/wappo.yaml or
./configs/wappo.yaml. WAPPO_DB and WAPPO_LOG_LEVEL override it, and a
.env file in the working directory is loaded first.

Examples:
  wappo play
  wappo play "Level 3"
  wappo menu
  wappo maps import ./my-level.yaml
  wappo serve --ssh :2222 --ws :8080`,
	PersistentPreRunE: setup,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDSN, "db", "", "SQLite path or postgres:// DSN (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the configuration, applies overrides and builds the logger.
// Flags win over the environment, which wins over the file.
func setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return err
	}

	if v := os.Getenv("WAPPO_DB"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("WAPPO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if flagDSN != "" {
		cfg.Storage.DSN = flagDSN
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	appConfig = cfg

	var out io.Writer = os.Stderr
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		out, logOut = f, f
	} else if interactive(cmd) {
		// Log lines would tear the alt screen
		out = io.Discard
	}

	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "wappo",
		Level:           cfg.LogLevel(),
	})

	if dir := cfg.Levels.Dir; dir != "" {
		n, err := levels.NewLoader(expandPath(dir), logger).RegisterDir()
		if err != nil {
			logger.Warn("cannot load level directory", "dir", dir, "err", err)
		} else {
			logger.Debug("registered extra levels", "dir", dir, "count", n)
		}
	}
	return nil
}

// interactive reports whether cmd takes over the terminal.
func interactive(cmd *cobra.Command) bool {
	return cmd == playCmd || cmd == menuCmd
}
