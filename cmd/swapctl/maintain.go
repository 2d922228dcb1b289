package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

func newMaintainCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "maintain",
		Short: "Expire, convert and sweep opportunities without discovering",
		Long: `Run only the maintenance pass: expire opportunities past their TTL,
convert those whose pair has matched, and expire degenerate ones.

Example:
  swapctl maintain --format yaml`,
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

			report, err := ops.Maintain(ctx, at)
			if report != nil {
				if perr := opts.printer().print(report, func(w io.Writer) {
					fmt.Fprintf(w, "Maintenance at %s\n", at.Format(time.RFC3339))
					fmt.Fprintf(w, "  expired:    %d\n", report.Expired)
					fmt.Fprintf(w, "  converted:  %d\n", report.Converted)
					fmt.Fprintf(w, "  degenerate: %d\n", report.Degenerate)
				}); perr != nil {
					return commandError("write output", perr)
				}
			}
			if err != nil {
				return commandError("maintenance", err)
			}
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

func withTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
