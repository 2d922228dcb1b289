package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/swapmatch-backend/internal/config"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

type runOptions struct {
	*rootOptions
	at      string
	timeout time.Duration
}

// snapshotTime parses --at, defaulting to now. Times are normalized to UTC.
func (o *runOptions) snapshotTime() (time.Time, error) {
	if o.at == "" {
		return o.env.now().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, o.at)
	if err != nil {
		return time.Time{}, commandError("invalid --at (want RFC3339)", err)
	}
	return t.UTC(), nil
}

func (o *runOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.at, "at", "", "snapshot time, RFC3339 (default now)")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 0, "abort after this long (default scheduler.run_timeout)")
}

func (o *runOptions) setup() (*config.Config, *slog.Logger, time.Time, error) {
	at, err := o.snapshotTime()
	if err != nil {
		return nil, nil, time.Time{}, err
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, time.Time{}, commandError("load config", err)
	}
	if o.timeout == 0 {
		o.timeout = cfg.Scheduler.RunTimeout
	}
	return cfg, o.env.newLogger(cfg.Log), at, nil
}

func newDiscoverCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Run one discovery cycle now",
		Long: `Run one discovery cycle: maintenance, snapshot, cycle search and commit.

The run takes the same advisory lock as the server scheduler, so it is
skipped (exit 1) while another instance is running.

Example:
  swapctl discover
  swapctl discover --at 2025-06-01T12:00:00Z --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, at, err := opts.setup()
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd, opts.timeout)
			defer cancel()

			ops, closeFn, err := opts.env.openOps(ctx, cfg, logger)
			if err != nil {
				return commandError("open services", err)
			}
			defer closeFn()

			report, err := ops.RunDiscoveryCycle(ctx, at)
			if err != nil {
				return commandError("discovery run", err)
			}
			if err := opts.printer().print(report, func(w io.Writer) { printRunReport(w, report) }); err != nil {
				return commandError("write output", err)
			}
			switch {
			case report.Skipped:
				return &exitError{code: exitIncomplete, msg: "run skipped"}
			case report.Aborted:
				return &exitError{code: exitIncomplete, msg: "run aborted"}
			}
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func printRunReport(w io.Writer, r *domain.RunReport) {
	state := "completed"
	switch {
	case r.Skipped:
		state = "skipped"
	case r.Aborted:
		state = "aborted"
	}
	fmt.Fprintf(w, "Discovery run %s (snapshot %s, %s)\n", state, r.SnapshotTime.Format(time.RFC3339), r.Duration)
	fmt.Fprintf(w, "  candidates: %d\n", r.Candidates)
	fmt.Fprintf(w, "  created:    %d\n", r.Created)
	fmt.Fprintf(w, "  dropped:    %d\n", r.Dropped)
	fmt.Fprintf(w, "  expired:    %d\n", r.Expired)
	fmt.Fprintf(w, "  converted:  %d\n", r.Converted)
}
