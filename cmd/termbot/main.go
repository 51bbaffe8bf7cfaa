package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/reshetovitsme/termbot/internal/di"
	cooldownService "github.com/reshetovitsme/termbot/internal/modules/cooldown/service"
	"github.com/reshetovitsme/termbot/internal/shared/config"
	"github.com/reshetovitsme/termbot/internal/transport"
	httpServer "github.com/reshetovitsme/termbot/internal/transport/http"
	"github.com/samber/do/v2"
	slogmulti "github.com/samber/slog-multi"
)

func main() {
	// A missing .env file is fine, the environment may already be set
	_ = godotenv.Load()

	setupLogger(slog.LevelInfo)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx)
	cancel()
	os.Exit(code)
}

// run starts the bot and blocks until ctx is done. It returns the process exit code.
func run(ctx context.Context) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Setup dependency injection
	injector, err := di.Setup()
	if err != nil {
		slog.Error("Failed to setup dependency injection", "error", err)
		return 1
	}
	defer func() {
		if err := di.Shutdown(injector); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}
	setupLogger(cfg.SlogLevel())

	// Start the cooldown sweeper
	cooldowns := do.MustInvoke[*cooldownService.Service](injector)
	cooldowns.Start(ctx)

	// Start HTTP server
	server := do.MustInvoke[*httpServer.Server](injector)
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("HTTP server stopped", "error", err)
			cancel()
		}
	}()

	// Connect to the chat platform
	runner, err := do.Invoke[transport.Runner](injector)
	if err != nil {
		slog.Error("Failed to create chat transport", "platform", cfg.Platform, "error", err)
		return 1
	}
	if err := runner.Start(ctx); err != nil {
		slog.Error("Failed to connect to chat platform", "platform", cfg.Platform, "error", err)
		return 1
	}

	slog.Info("Application started", "platform", cfg.Platform, "prefix", cfg.CommandPrefix, "port", cfg.HTTPPort, "env", cfg.AppEnv)
	slog.Info("Press Ctrl+C to stop")

	<-ctx.Done()
	slog.Info("Shutting down...")
	return 0
}

// setupLogger sends text logs to stdout and errors as JSON to stderr
func setupLogger(level slog.Level) {
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	jsonHandler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	})

	slog.SetDefault(slog.New(slogmulti.Fanout(textHandler, jsonHandler)))
}
