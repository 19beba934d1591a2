package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	vserver "github.com/HendryAvila/vitacore/internal/server"
	"github.com/HendryAvila/vitacore/internal/updater"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd(a *app) *cobra.Command {
	var (
		skipUpdateCheck bool
		ping            bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				printProblems(cmd.ErrOrStderr(), err)
				return errReported
			}

			// Graceful shutdown on interrupt.
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if ping {
				name, err := pingProvider(ctx, cmd.ErrOrStderr(), a.cfg)
				if err != nil {
					return err
				}
				a.logger.Info("provider answered", zap.String("provider", name))
			}

			s, cleanup, err := vserver.Open(ctx, a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			defer cleanup()

			if !skipUpdateCheck {
				go checkForUpdates(ctx, cmd.ErrOrStderr(), a.logger)
			}

			stdio := server.NewStdioServer(s)
			stdio.SetErrorLogger(zap.NewStdLog(a.logger))
			return stdio.Listen(ctx, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().BoolVar(&skipUpdateCheck, "no-update-check", false, "skip the background release check")
	cmd.Flags().BoolVar(&ping, "ping", false, "send an empty summary request to the provider before serving")

	return cmd
}

// checkForUpdates runs a non-blocking release check and prints a notice
// to stderr when a newer version exists. Failures are only logged.
func checkForUpdates(ctx context.Context, w io.Writer, logger *zap.Logger) {
	result, err := updater.NewChecker().Check(ctx, vserver.Version)
	if err != nil {
		logger.Debug("update check failed", zap.Error(err))
		return
	}
	if result.UpdateAvailable {
		fmt.Fprintf(w,
			"\n  Update available: v%s → v%s\n"+
				"     Release: %s\n\n",
			result.CurrentVersion, result.LatestVersion, result.ReleaseURL,
		)
	}
}
