// Palace - local-first memory palace with hybrid recall.
//
// Memories live in SQLite with FTS5; semantic recall runs through a
// pluggable embedding provider (local Ollama or any OpenAI-compatible API).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/loci-labs/palace/internal/cli"
	"github.com/loci-labs/palace/internal/config"
	"github.com/loci-labs/palace/internal/log"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "palace: %v\n", err)
		os.Exit(1)
	}

	// Provider failures and retries log here instead of cluttering stdout.
	paths := config.GetPaths(cfg)
	if err := log.Init(paths.Logs); err != nil {
		fmt.Fprintf(os.Stderr, "palace: init logging: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Close() }()

	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
