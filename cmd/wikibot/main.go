// Package main wires the wiki bot process lifecycle.
//
// It reads config from file/env/flags and runs the Discord gateway until shutdown.
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

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "wikibot:", err)
		stop()
		os.Exit(1)
	}
}
