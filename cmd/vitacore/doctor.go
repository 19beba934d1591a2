package main

import (
	"context"
	"fmt"
	"io"

	"github.com/HendryAvila/vitacore/internal/config"
	vserver "github.com/HendryAvila/vitacore/internal/server"
	"github.com/HendryAvila/vitacore/internal/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// errDoctor is returned when at least one check failed.
var errDoctor = fmt.Errorf("doctor found problems: %w", errReported)

func doctorCmd(a *app) *cobra.Command {
	var skipPing bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, database and model provider",
		Long: `Run every startup check and explain how to fix what fails:

  config    - provider, API key, timeout and port are valid
  database  - the SQLite file opens and the schema is current
  provider  - the model answers an empty summary request`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ok := runDoctor(cmd.Context(), cmd.OutOrStdout(), a.cfg, !skipPing)
			if !ok {
				return errDoctor
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipPing, "no-ping", false, "skip the provider round trip")

	return cmd
}

// runDoctor prints one line per check and reports whether all passed.
func runDoctor(ctx context.Context, w io.Writer, cfg *config.Config, ping bool) bool {
	ok := true
	pass := func(format string, args ...any) {
		fmt.Fprintf(w, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
	}

	if cfg.File != "" {
		pass("config file %s", cfg.File)
	} else {
		fmt.Fprintf(w, "%s no config file, using environment and defaults\n", color.YellowString("•"))
	}

	configOK := true
	if err := cfg.Validate(); err != nil {
		printProblems(w, err)
		ok, configOK = false, false
	} else {
		pass("config valid (provider %s, timeout %s)", cfg.Provider, cfg.Timeout())
	}

	store, err := storage.New(storage.Config{Path: cfg.DBPath})
	if err != nil {
		printProblem(w, "database unavailable", err.Error(), []string{
			"Check that the directory of " + cfg.DBPath + " is writable",
			"Or point VITACORE_DB_PATH somewhere else",
		})
		ok = false
	} else {
		pass("database %s", store.Path())
		_ = store.Close()
	}

	if !ping || !configOK {
		return ok
	}

	name, err := pingProvider(ctx, w, cfg)
	if err != nil {
		return false
	}
	pass("provider %s answered", name)
	return ok
}

// pingProvider sends an empty summary request to the configured provider.
// Failures are printed to w and returned as errReported.
func pingProvider(ctx context.Context, w io.Writer, cfg *config.Config) (string, error) {
	port, err := vserver.NewPort(ctx, cfg)
	if err != nil {
		printProblem(w, "provider unavailable", err.Error(), nil)
		return "", errReported
	}
	if _, err := port.SummarizeSession(ctx, nil); err != nil {
		printProblem(w, "provider did not answer", err.Error(), []string{
			"Check the API key and model name",
			"Raise timeout_ms if the provider is slow",
		})
		return "", errReported
	}
	return port.Provider().Name(), nil
}
