package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"whorl/internal/roster"
	"whorl/internal/session"
	"whorl/internal/zkfp"
)

type identifyResult struct {
	Matched bool   `json:"matched"`
	Name    string `json:"name,omitempty"`
	ID      uint32 `json:"id,omitempty"`
	Score   int    `json:"score,omitempty"`
}

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var (
		templateFlag string
		jsonOut      bool
	)

	cmd := &cobra.Command{
		Use:   "identify",
		Short: "Identify a probe template against the roster",
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

			var result identifyResult
			err = ctx.withSession(cmd.Context(), func(sess *session.Session) error {
				names, err := store.Hydrate(cmd.Context(), sess)
				if err != nil {
					return fmt.Errorf("hydrate roster: %w", err)
				}
				if len(names) == 0 {
					return errors.New("roster is empty; enroll templates first")
				}

				id, score, err := sess.Identify(cmd.Context(), probe)
				if err != nil {
					// A below-threshold probe is a miss, not a failure.
					var callErr *zkfp.CallError
					if errors.As(err, &callErr) && callErr.Status == zkfp.StatusVerify {
						return nil
					}
					return err
				}
				result = identifyResult{Matched: true, Name: names[id], ID: id, Score: score}
				return nil
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			if !result.Matched {
				fmt.Fprintln(out, "No roster entry matched the probe")
				return nil
			}
			fmt.Fprintf(out, "Matched %q (id %d, score %d)\n", result.Name, result.ID, result.Score)
			return nil
		},
	}

	cmd.Flags().StringVar(&templateFlag, "template", "", "File holding one encoded template line")
	_ = cmd.MarkFlagRequired("template")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	return cmd
}
