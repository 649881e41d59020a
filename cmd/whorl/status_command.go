package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"whorl/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Run preflight checks against the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			if jsonOut {
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines := renderSectionHeader("Whorl preflight", colorize)
			failed := 0
			for _, result := range results {
				kind := statusOK
				if !result.Passed {
					kind = statusError
					failed++
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			if failed > 0 {
				return fmt.Errorf("%d preflight check(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit preflight results as JSON")
	return cmd
}
