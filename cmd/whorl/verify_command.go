package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"whorl/internal/roster"
	"whorl/internal/session"
)

type verifyResult struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Threshold int    `json:"threshold"`
	Verified  bool   `json:"verified"`
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var (
		nameFlag     string
		templateFlag string
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a probe template against one roster entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			probe, err := readEncodedTemplate(ctx, templateFlag)
			if err != nil {
				return err
			}

			store, err := roster.Open(cfg)
			if err != nil {
				return fmt.Errorf("open roster: %w", err)
			}
			defer store.Close()

			entry, err := store.Get(cmd.Context(), nameFlag)
			if err != nil {
				return err
			}

			var result verifyResult
			err = ctx.withSession(cmd.Context(), func(sess *session.Session) error {
				score, err := sess.Match(cmd.Context(), entry.Template, probe)
				if err != nil {
					return err
				}
				result = verifyResult{
					Name:      entry.Name,
					Score:     score,
					Threshold: cfg.Engine.IdentifyThreshold,
					Verified:  score >= cfg.Engine.IdentifyThreshold,
				}
				return nil
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			if result.Verified {
				fmt.Fprintf(out, "Verified %q (score %d >= threshold %d)\n",
					result.Name, result.Score, result.Threshold)
			} else {
				fmt.Fprintf(out, "Not verified for %q (score %d < threshold %d)\n",
					result.Name, result.Score, result.Threshold)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "Roster entry to verify against")
	cmd.Flags().StringVar(&templateFlag, "template", "", "File holding one encoded template line")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("template")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	return cmd
}
