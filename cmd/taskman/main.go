// Command taskman is the CLI entrypoint.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nibzard/taskman/cmd"
)

// shutdownGrace bounds how long an interrupted command may take to return.
// Blocking console reads cannot observe cancellation.
const shutdownGrace = 500 * time.Millisecond

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
		case <-done:
			return
		}
		cancel()
		select {
		case <-done:
		case <-time.After(shutdownGrace):
			fmt.Fprintf(os.Stderr, "\nInterrupted\n")
			os.Exit(130)
		}
	}()

	// Run the CLI
	err := cmd.Run(ctx, os.Args[1:])
	close(done)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintf(os.Stderr, "\nInterrupted\n")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if ctx.Err() != nil {
		os.Exit(130)
	}
}
