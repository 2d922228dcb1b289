package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// migrationRow is one line of `migrate up` or `migrate status` output.
type migrationRow struct {
	Version   int64      `json:"version" yaml:"version"`
	File      string     `json:"file" yaml:"file"`
	State     string     `json:"state" yaml:"state"`
	Duration  string     `json:"duration,omitempty" yaml:"duration,omitempty"`
	AppliedAt *time.Time `json:"applied_at,omitempty" yaml:"applied_at,omitempty"`
}

func newMigrateCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database migrations",
	}
	cmd.AddCommand(
		newMigrateSubcommand(root, "up", "Apply all pending migrations", migrator.Up),
		newMigrateSubcommand(root, "status", "List migrations and whether they are applied", migrator.Status),
	)
	return cmd
}

func newMigrateSubcommand(root *rootOptions, use, short string, run func(migrator, context.Context) ([]migrationRow, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return commandError("load config", err)
			}
			ctx := cmd.Context()
			m, err := root.env.openMig(ctx, cfg)
			if err != nil {
				return commandError("open migrator", err)
			}
			defer m.Close()

			rows, runErr := run(m, ctx)
			if err := root.printer().print(rows, func(w io.Writer) { printMigrations(w, rows) }); err != nil {
				return commandError("write output", err)
			}
			if runErr != nil {
				return commandError("migrate "+use, runErr)
			}
			return nil
		},
	}
}

func printMigrations(w io.Writer, rows []migrationRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No migrations.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tFILE\tSTATE\tAPPLIED AT")
	for _, r := range rows {
		applied := "-"
		if r.AppliedAt != nil {
			applied = r.AppliedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Version, r.File, r.State, applied)
	}
	tw.Flush()
}
