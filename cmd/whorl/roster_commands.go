package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"whorl/internal/roster"
)

func newRosterCommand(ctx *commandContext) *cobra.Command {
	rosterCmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage named roster enrollments",
	}

	rosterCmd.AddCommand(newRosterListCommand(ctx))
	rosterCmd.AddCommand(newRosterRemoveCommand(ctx))
	rosterCmd.AddCommand(newRosterRenameCommand(ctx))
	rosterCmd.AddCommand(newRosterClearCommand(ctx))

	return rosterCmd
}

func (c *commandContext) withRoster(fn func(*roster.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := roster.Open(cfg)
	if err != nil {
		return fmt.Errorf("open roster: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func newRosterListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List roster entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRoster(func(store *roster.Store) error {
				entries, err := store.List(cmd.Context())
				if err != nil {
					return err
				}

				if jsonOut {
					type rosterRow struct {
						ID        int64     `json:"id"`
						Name      string    `json:"name"`
						Bytes     int       `json:"bytes"`
						CreatedAt time.Time `json:"created_at"`
					}
					rows := make([]rosterRow, 0, len(entries))
					for _, entry := range entries {
						rows = append(rows, rosterRow{
							ID:        entry.ID,
							Name:      entry.Name,
							Bytes:     len(entry.Template),
							CreatedAt: entry.CreatedAt,
						})
					}
					return writeJSON(cmd, rows)
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Roster is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(entry.ID, 10),
						entry.Name,
						strconv.Itoa(len(entry.Template)),
						entry.CreatedAt.Local().Format("2006-01-02 15:04"),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Name", "Bytes", "Enrolled"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit entries as JSON")
	return cmd
}

func newRosterRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a roster entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRoster(func(store *roster.Store) error {
				if err := store.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from roster\n", args[0])
				return nil
			})
		},
	}
}

func newRosterRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename OLD NEW",
		Short: "Rename a roster entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRoster(func(store *roster.Store) error {
				if err := store.Rename(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", args[0], args[1])
				return nil
			})
		},
	}
}

func newRosterClearCommand(ctx *commandContext) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all roster entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("refusing to clear the roster without --yes")
			}
			return ctx.withRoster(func(store *roster.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Roster cleared")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm clearing every enrollment")
	return cmd
}
