// Command swapctl is the operator CLI for the swap matching engine: it runs
// discovery or maintenance once, applies migrations and mints access tokens.
//
// Exit codes: 0 = success, 1 = run skipped or aborted, 2 = command error.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand(defaultEnv())
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "swapctl:", err)
		os.Exit(exitCode(err))
	}
}
