package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"whorl/internal/roster"
)

func newEnrollCommand(ctx *commandContext) *cobra.Command {
	var (
		nameFlag     string
		templateFlag string
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Save a named template to the roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			template, err := readEncodedTemplate(ctx, templateFlag)
			if err != nil {
				return err
			}

			store, err := roster.Open(cfg)
			if err != nil {
				return fmt.Errorf("open roster: %w", err)
			}
			defer store.Close()

			entry, err := store.Save(cmd.Context(), nameFlag, template)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"id":    entry.ID,
					"name":  entry.Name,
					"bytes": len(entry.Template),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Enrolled %q (%d bytes) as roster entry %d\n",
				entry.Name, len(entry.Template), entry.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "Display name for the enrollment")
	cmd.Flags().StringVar(&templateFlag, "template", "", "File holding one encoded template line")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("template")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	return cmd
}
