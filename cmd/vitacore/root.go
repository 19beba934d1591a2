package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/HendryAvila/vitacore/internal/config"
	"github.com/HendryAvila/vitacore/internal/logging"
	vserver "github.com/HendryAvila/vitacore/internal/server"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// errReported is returned once a command has printed its own problem
// report; main exits non-zero without printing it again.
var errReported = errors.New("problems reported")

// app carries what PersistentPreRunE resolves for every subcommand.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	verbose bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "vitacore",
		Short: "Project memory MCP server",
		Long: `Vitacore keeps a project's memory for AI coding agents: step logs,
closed session summaries, the Macro architecture document, paradoxes and
refactor plans.

Add it to your AI tool's MCP config:

  {
    "mcpServers": {
      "vitacore": {
        "command": "vitacore",
        "args": ["serve"]
      }
    }
  }`,
		Version:       vserver.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(serveCmd(a))
	root.AddCommand(doctorCmd(a))
	root.AddCommand(uiCmd(a))
	root.AddCommand(graphCmd(a))
	root.AddCommand(configCmd(a))
	root.AddCommand(versionCmd())

	return root
}

// load resolves configuration and builds the logger.
func (a *app) load() error {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if a.verbose {
		level = "debug"
	}
	logger, err := logging.New(level)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

// printProblems renders a *config.ValidationError as actionable text.
// Other errors are printed as a single line.
func printProblems(w io.Writer, err error) {
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		fmt.Fprintf(w, "%s %v\n", color.RedString("✗"), err)
		return
	}
	for _, p := range verr.Problems {
		printProblem(w, p.Title, p.Cause, p.Remediation)
	}
}

func printProblem(w io.Writer, title, cause string, remediation []string) {
	fmt.Fprintf(w, "%s %s\n", color.RedString("✗"), color.New(color.Bold).Sprint(title))
	if cause != "" {
		fmt.Fprintf(w, "    cause: %s\n", cause)
	}
	for _, r := range remediation {
		fmt.Fprintf(w, "    %s %s\n", color.CyanString("→"), r)
	}
}
