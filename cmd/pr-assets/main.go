// Package main provides the pr-assets CLI used by CI workflows to post PR
// comments and publish emulator screenshots to the repository.
//
// Usage:
//
//	pr-assets comment comment.md              # post comment.md on the current PR
//	pr-assets screenshots                     # upload qemu-screen-*.png/.ppm
//	pr-assets screenshots --discovery=fixed   # upload the three named shots and docs images
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}
