package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/akeren/innr-waitlist/config"
	"github.com/akeren/innr-waitlist/domain"
	"github.com/akeren/innr-waitlist/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := log.NewLoggerWithJSONOutput()

	if err := run(logger, os.Args[1:]); err != nil {
		logger.Error("innr waitlist server stopped", "error", err)
		os.Exit(1)
	}
}

func wantsAutoMigrate(args []string) bool {
	return slices.ContainsFunc(args, func(arg string) bool {
		arg = strings.ToLower(arg)
		return arg == "--auto-migrate" || arg == "-m"
	})
}

func run(logger *log.Logger, args []string) error {
	logger.Info("innr waitlist server starting")

	app, err := config.LoadApplicationConfiguration(logger, wantsAutoMigrate(args))
	if err != nil {
		return err
	}
	defer app.Cleanup()

	domain.SetupCoreDomain(app)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.RouterService.RunHTTPServer()
	}()

	select {
	case err := <-serverErr:
		if err == nil {
			err = errors.New("HTTP server exited unexpectedly")
		}
		return err
	case <-ctx.Done():
		logger.Info("Shutdown signal received; draining requests", "timeout", shutdownTimeout.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.RouterService.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("Graceful shutdown completed")
	return nil
}
