// Package main provides the CLI entry point for resgate.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/resgate/internal/errors"
)

const appName = "resgate"

// Version information set via ldflags during build.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := execute(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		reportError(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

// reportError prints the error that ends the run. Expectation mismatches have
// already been shown by the reporter, so they get no "Error:" prefix.
func reportError(w io.Writer, err error) {
	if errors.IsExpectationMismatch(err) {
		fmt.Fprintln(w, err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
