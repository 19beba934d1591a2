package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/HendryAvila/vitacore/internal/graph"
	"github.com/HendryAvila/vitacore/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func uiCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Serve the graph projection over HTTP",
		Long: `Serve the read-only graph of the Macro, sessions, steps, paradoxes,
refactor plans and debates as JSON at GET /api/graph.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port == 0 {
				port = a.cfg.UIPort
			}

			store, err := storage.New(storage.Config{Path: a.cfg.DBPath})
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			addr := net.JoinHostPort(host, strconv.Itoa(port))
			srv := &http.Server{
				Addr:              addr,
				Handler:           graph.NewHandler(store, a.logger),
				ReadHeaderTimeout: 5 * time.Second,
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Graph API on http://%s/api/graph\n", addr)
			return listenUntilDone(ctx, srv, a.logger)
		},
	}
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "interface to listen on")
	cmd.Flags().IntVar(&port, "port", 0, "port to listen on (default ui_port)")

	return cmd
}

// listenUntilDone serves until ctx is cancelled, then shuts down gracefully.
func listenUntilDone(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down graph server", zap.String("addr", srv.Addr))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
