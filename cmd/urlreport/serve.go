package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/urlreport/internal/api"
	"github.com/nao1215/urlreport/internal/config"
	"github.com/nao1215/urlreport/internal/storage"
)

const (
	// defaultListenAddr only listens on the loopback interface.
	defaultListenAddr = "127.0.0.1:8080"

	// shutdownTimeout bounds the wait for in-flight requests on exit.
	shutdownTimeout = 10 * time.Second
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve merged reports over HTTP",
		Long: `Serve starts a read-only JSON API over the results directory.

Every request reads the latest run from disk, so new scan runs are visible
without a restart.

Endpoints:
  GET /ping
  GET /api/v1/targets
  GET /api/v1/reports?url=<url>
  GET /api/v1/reports/<identifier>
  GET /api/v1/runs?url=<url>

Examples:
  urlreport serve
  urlreport serve --addr :9000 --results /srv/scans --rate 5 --burst 10`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().String("addr", defaultListenAddr, "Address to listen on")
	cmd.Flags().StringP("results", "r", config.DefaultResultsDir,
		"Results directory written by the scanners")
	cmd.Flags().Float64("rate", api.DefaultRateLimit,
		"API requests allowed per second (0 disables the limit)")
	cmd.Flags().Int("burst", api.DefaultRateBurst,
		"API requests allowed at once")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyResultsFlag(cmd, cfg); err != nil {
		return err
	}

	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return err
	}
	opts := api.DefaultOptions()
	opts.Version = getVersion()
	if opts.RateLimit, err = cmd.Flags().GetFloat64("rate"); err != nil {
		return err
	}
	if opts.RateBurst, err = cmd.Flags().GetInt("burst"); err != nil {
		return err
	}

	logger := setupLogger(cmd, cfg.Verbose)
	opts.Logger = logger

	store := storage.NewStore(cfg.ResultsDir, storage.WithScreenshotFile(cfg.ScreenshotFile))
	// Fail before listening when the results directory cannot be read.
	if _, _, err := store.Targets(); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	server := &http.Server{
		Handler:           api.NewRouter(store, opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving reports from %s on http://%s\n", cfg.ResultsDir, listener.Addr())
	return serve(ctx, server, listener)
}

// serve runs server on listener until ctx is done, then shuts it down.
func serve(ctx context.Context, server *http.Server, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
