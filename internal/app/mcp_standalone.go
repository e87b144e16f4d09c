package app

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagebuilder/internal/config"
	mcpserver "pagebuilder/internal/mcp"
)

// shutdownTimeout bounds the final autosave flush.
const shutdownTimeout = 10 * time.Second

// ServeMCP runs the page builder as an MCP server on stdin/stdout. It opens
// the configured page, serves until interrupted or stdin closes, then writes
// pending changes.
func ServeMCP() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	// stdout carries the protocol; logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open page builder: %v", err)
	}
	if err := a.Startup(ctx); err != nil {
		log.Fatalf("Failed to start background jobs: %v", err)
	}

	mcpSrv := mcpserver.New(mcpserver.Deps{
		Store:       a.store,
		Site:        a.site,
		History:     a.history,
		Bridge:      a.bridge,
		Checkpoints: a.checkpoints,
		Manifests:   a.manifests,
		Logger:      logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- mcpSrv.ServeStdio() }()

	select {
	case <-ctx.Done():
		log.Println("[MCP] Interrupted, shutting down...")
	case err := <-errCh:
		if err != nil {
			log.Printf("[MCP] Server error: %v", err)
		}
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Printf("[MCP] Shutdown: %v", err)
	}
}
