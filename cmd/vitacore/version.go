package main

import (
	"fmt"

	vserver "github.com/HendryAvila/vitacore/internal/server"
	"github.com/HendryAvila/vitacore/internal/updater"
	"github.com/spf13/cobra"
)

func versionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vitacore v%s\n", vserver.Version)
			if !check {
				return nil
			}

			result, err := updater.NewChecker().Check(cmd.Context(), vserver.Version)
			if err != nil {
				return fmt.Errorf("update check: %w", err)
			}
			if !result.UpdateAvailable {
				fmt.Fprintln(out, "Already at the latest version.")
				return nil
			}
			fmt.Fprintf(out, "New version available: v%s → v%s\n  %s\n",
				result.CurrentVersion, result.LatestVersion, result.ReleaseURL)
			return nil
		},
	}
	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")

	return cmd
}
