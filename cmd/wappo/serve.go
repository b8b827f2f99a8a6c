package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/wappo/internal/platform/tui"
	"github.com/vovakirdan/wappo/internal/transport/ws"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagWSAddr      string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the wappo SSH server",
	Long: `Start an SSH server that lets users connect and play.

Each SSH connection gets its own session with the level picker menu.
Saved maps, progress and results live in one database shared by all
users.

With --ws, a WebSocket endpoint at /ws is served as well. Every
WebSocket connection plays its own session and receives one JSON
message per update.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.wappo/host_key

Examples:
  wappo serve                           # Listen on :23234 with auto-generated key
  wappo serve --ssh :2222               # Listen on port 2222
  wappo serve --ws :8080                # Also serve ws://host:8080/ws
  wappo serve --db postgres://wappo@db/wappo

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config, :23234)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "WebSocket server address (disabled if empty)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config, 30m)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	srvCfg := appConfig.Server
	if flagSSHAddr != "" {
		srvCfg.SSHAddr = flagSSHAddr
	}
	if flagHostKey != "" {
		srvCfg.HostKey = flagHostKey
	}
	if flagWSAddr != "" {
		srvCfg.WSAddr = flagWSAddr
	}
	if flagIdleTimeout > 0 {
		srvCfg.IdleTimeout = flagIdleTimeout
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	sshServer, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     srvCfg.SSHAddr,
		HostKeyPath: expandPath(srvCfg.HostKey),
		IdleTimeout: srvCfg.IdleTimeout,
		Delays:      appConfig.Timing.Durations(),
	}, store, logger.WithPrefix("ssh"))
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting wappo SSH server on %s\n", sshServer.Addr())
	if srvCfg.WSAddr != "" {
		fmt.Printf("WebSocket endpoint on ws://%s/ws\n", srvCfg.WSAddr)
	}
	fmt.Println("Press Ctrl+C to stop")

	// The first server to fail stops the other
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	servers := 1
	go func() { errCh <- sshServer.ListenAndServe(ctx) }()

	if srvCfg.WSAddr != "" {
		opts := ws.Options{
			Delays: appConfig.Timing.Durations(),
			Logger: logger.WithPrefix("ws"),
		}
		if store != nil {
			opts.Store = store
		}
		hub := ws.NewHub(opts)
		servers++
		go func() { errCh <- hub.ListenAndServe(ctx, srvCfg.WSAddr) }()
	}

	var errs []error
	for range servers {
		if err := <-errCh; err != nil {
			errs = append(errs, err)
			cancel()
		}
	}
	return errors.Join(errs...)
}
