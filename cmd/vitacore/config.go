package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func configCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML (API keys masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			text, err := a.cfg.TOML()
			if err != nil {
				return err
			}
			if a.cfg.File != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", a.cfg.File)
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
