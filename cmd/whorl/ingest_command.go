package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"whorl/internal/config"
	"whorl/internal/ingest"
	"whorl/internal/logging"
	"whorl/internal/session"
	"whorl/internal/templatecodec"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var (
		sourceFlag string
		passesFlag int
		batchFlag  int
		policyFlag string
		jsonOut    bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Enroll encoded templates from a source file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			source := sourceFlag
			if source == "" {
				source = cfg.Ingest.Source
			}
			if source == "" {
				return fmt.Errorf("no ingest source configured; pass --source or set ingest.source")
			}
			source, err = config.ExpandPath(source)
			if err != nil {
				return fmt.Errorf("resolve source path: %w", err)
			}

			passes := passesFlag
			if !cmd.Flags().Changed("passes") {
				passes = cfg.Ingest.Passes
			}
			batch := batchFlag
			if !cmd.Flags().Changed("batch") {
				batch = cfg.Ingest.BatchSize
			}
			policyValue := policyFlag
			if policyValue == "" {
				policyValue = cfg.Ingest.DecodePolicy
			}
			policy, err := templatecodec.ParsePolicy(policyValue)
			if err != nil {
				return err
			}

			var summary *ingest.Summary
			runErr := ctx.withSession(cmd.Context(), func(sess *session.Session) error {
				runner, err := ingest.NewRunner(ingest.Config{
					Source:  ingest.FileSource{Path: source},
					Session: sess,
					Decoder: templatecodec.NewDecoder(
						templatecodec.WithPolicy(policy),
						templatecodec.WithMaxDecodedLen(cfg.Engine.MaxTemplateSize),
					),
					Logger:         logging.NewNop(),
					BatchSize:      batch,
					Passes:         passes,
					RestartOnClear: cfg.Ingest.RestartOnClear,
					PassInterval:   time.Duration(cfg.Ingest.PassIntervalSeconds) * time.Second,
				})
				if err != nil {
					return err
				}
				summary, err = runner.Run(cmd.Context())
				return err
			})
			if runErr != nil {
				return runErr
			}

			if jsonOut {
				return writeJSON(cmd, summary)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderIngestSummary(summary))
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "Template source file (defaults to ingest.source)")
	cmd.Flags().IntVar(&passesFlag, "passes", 1, "Number of passes over the source (0 repeats until interrupted)")
	cmd.Flags().IntVar(&batchFlag, "batch", 10, "Records per batch before the enrollment database is cleared (0 disables)")
	cmd.Flags().StringVar(&policyFlag, "policy", "", "Decode policy: reject or coerce (defaults to ingest.decode_policy)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run summary as JSON")
	return cmd
}

func renderIngestSummary(sum *ingest.Summary) string {
	rows := [][]string{
		{"Passes", strconv.Itoa(sum.Passes)},
		{"Records", strconv.Itoa(sum.Records)},
		{"Enrolled", strconv.Itoa(sum.Enrolled)},
		{"Skipped empty", strconv.Itoa(sum.SkippedEmpty)},
		{"Decode failures", strconv.Itoa(sum.DecodeFailures)},
		{"Enroll failures", strconv.Itoa(sum.EnrollFailures)},
		{"Batch clears", strconv.Itoa(sum.Clears)},
		{"Final db count", strconv.Itoa(sum.FinalCount)},
		{"Next record id", strconv.FormatUint(uint64(sum.NextID), 10)},
	}
	return renderTable(
		[]string{"Metric", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	)
}
