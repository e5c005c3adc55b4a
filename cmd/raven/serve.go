package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/raven-flight/internal/platform/tui"
	"github.com/vovakirdan/raven-flight/internal/platform/web"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagHTTPAddr    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that lets players connect and fly.

Each SSH connection gets its own menu and flights.
All players share the Hall of Ravens and the run history.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.raven/host_key

Examples:
  raven serve                           # Listen on :23234 with auto-generated key
  raven serve --ssh :2222               # Listen on port 2222
  raven serve --host-key ./my_host_key  # Use specific host key

Players connect with:
  ssh localhost -p 23234`,
	RunE: runServe,
}

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the high-score list over HTTP",
	Long: `Start an HTTP server with a JSON API for the Hall of Ravens.

Endpoints:
  GET  /api/scores                    - The high-score list
  POST /api/scores                    - Save {"name": "...", "score": N}
  GET  /api/scores/qualifies/{score}  - Whether a score makes the list
  GET  /api/runs?variant=&limit=      - Recent flights
  GET  /api/stats?variant=            - Flight statistics
  GET  /api/health                    - Health check

Examples:
  raven web
  raven web --http :9090 --scores file`,
	RunE: runWeb,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")

	webCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP server address (host:port)")
}

func runServe(_ *cobra.Command, _ []string) error {
	svc := openServices(false)
	defer svc.Close()

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS

	server, err := tui.NewSSHServer(cfg, svc.deps())
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting Raven Flight SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runWeb(_ *cobra.Command, _ []string) error {
	svc := openServices(false)
	defer svc.Close()

	var history web.History
	if svc.store != nil {
		history = svc.store
	}
	server := web.NewServer(flagHTTPAddr, svc.board, history, logger)

	fmt.Printf("Serving the Hall of Ravens on http://%s/api/scores\n", flagHTTPAddr)
	errCh := make(chan error, 1)
	go func() { errCh <- server.ListenAndServe() }()

	return waitForShutdown(errCh, server.Shutdown)
}

// waitForShutdown blocks until the server fails or an interrupt arrives,
// then stops it.
func waitForShutdown(errCh <-chan error, shutdown func(context.Context) error) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case s := <-sig:
		logger.Info("shutting down", "signal", s.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
