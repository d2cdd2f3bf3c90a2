// Package main runs the service. Configuration is loaded fail-fast: the
// process exits non-zero with a message naming the invalid field before
// binding any socket.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/codex-template/service-template/internal/app/runtime"
	apperr "github.com/codex-template/service-template/internal/errors"
)

func main() {
	if err := run(); err != nil {
		var cfgErr *apperr.ConfigurationError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "configuration error: field %s: %s\n", cfgErr.Field, cfgErr.Reason)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := runtime.NewApplication()
	if err != nil {
		return err
	}

	if err := app.Run(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	// The signal context is done here; use a fresh one for shutdown.
	return app.Shutdown(context.Background())
}
