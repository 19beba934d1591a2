package main

import (
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/vitacore/internal/graph"
	"github.com/HendryAvila/vitacore/internal/storage"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func graphCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the graph projection",
		Example: `  vitacore graph
  vitacore graph --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q (json or yaml)", format)
			}

			store, err := storage.New(storage.Config{Path: a.cfg.DBPath})
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			g, err := graph.Build(cmd.Context(), store)
			if err != nil {
				return fmt.Errorf("build graph: %w", err)
			}

			out := cmd.OutOrStdout()
			if format == "yaml" {
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(g); err != nil {
					return err
				}
				return enc.Close()
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(g)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")

	return cmd
}
