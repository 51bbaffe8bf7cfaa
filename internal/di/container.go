package di

import (
	"context"
	"errors"
	"log/slog"
	"time"

	channelRepo "github.com/reshetovitsme/termbot/internal/modules/channel/repository"
	channelService "github.com/reshetovitsme/termbot/internal/modules/channel/service"
	commandService "github.com/reshetovitsme/termbot/internal/modules/command/service"
	cooldownService "github.com/reshetovitsme/termbot/internal/modules/cooldown/service"
	definitionService "github.com/reshetovitsme/termbot/internal/modules/definition/service"
	feedService "github.com/reshetovitsme/termbot/internal/modules/feed/service"
	messageService "github.com/reshetovitsme/termbot/internal/modules/message/service"
	preferenceRepo "github.com/reshetovitsme/termbot/internal/modules/preference/repository"
	preferenceService "github.com/reshetovitsme/termbot/internal/modules/preference/service"
	scannerService "github.com/reshetovitsme/termbot/internal/modules/scanner/service"
	termRepo "github.com/reshetovitsme/termbot/internal/modules/term/repository"
	termService "github.com/reshetovitsme/termbot/internal/modules/term/service"
	"github.com/reshetovitsme/termbot/internal/shared/config"
	"github.com/reshetovitsme/termbot/internal/shared/domain"
	sharedErrors "github.com/reshetovitsme/termbot/internal/shared/errors"
	"github.com/reshetovitsme/termbot/internal/transport"
	discordHandler "github.com/reshetovitsme/termbot/internal/transport/discord"
	httpServer "github.com/reshetovitsme/termbot/internal/transport/http"
	telegramHandler "github.com/reshetovitsme/termbot/internal/transport/telegram"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

const shutdownTimeout = 10 * time.Second

// Setup initializes the dependency injection container
func Setup() (do.Injector, error) {
	injector := do.New()

	// Register Config
	do.Provide(injector, func(i do.Injector) (*config.Config, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, oops.With("context", "failed to load config").Wrap(err)
		}
		return cfg, nil
	})

	registerRepositories(injector)
	registerServices(injector)
	registerTransports(injector)

	return injector, nil
}

func registerRepositories(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (termRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := termRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize term repository").Wrap(err)
		}
		return repo, nil
	})

	do.Provide(injector, func(i do.Injector) (channelRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := channelRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize channel repository").Wrap(err)
		}
		return repo, nil
	})

	do.Provide(injector, func(i do.Injector) (preferenceRepo.Repository, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo, err := preferenceRepo.NewFileStorage(cfg.StoragePath)
		if err != nil {
			return nil, oops.With("storage_path", cfg.StoragePath, "context", "failed to initialize preference repository").Wrap(err)
		}
		return repo, nil
	})
}

func registerServices(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*termService.Service, error) {
		return termService.New(do.MustInvoke[termRepo.Repository](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*channelService.Service, error) {
		return channelService.New(do.MustInvoke[channelRepo.Repository](i)), nil
	})

	do.Provide(injector, func(i do.Injector) (*preferenceService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return preferenceService.New(do.MustInvoke[preferenceRepo.Repository](i), cfg.DefaultCooldown()), nil
	})

	do.Provide(injector, func(i do.Injector) (*cooldownService.Service, error) {
		cfg := do.MustInvoke[*config.Config](i)
		prefs := do.MustInvoke[*preferenceService.Service](i)
		return cooldownService.New(prefs, cfg.CooldownRetention(), cfg.SweepPeriod()), nil
	})

	do.Provide(injector, func(i do.Injector) (*scannerService.Service, error) {
		terms := do.MustInvoke[*termService.Service](i)
		cooldowns := do.MustInvoke[*cooldownService.Service](i)
		return scannerService.New(terms, cooldowns), nil
	})

	do.Provide(injector, func(i do.Injector) (*definitionService.Service, error) {
		terms := do.MustInvoke[*termService.Service](i)
		cooldowns := do.MustInvoke[*cooldownService.Service](i)
		return definitionService.New(terms, cooldowns), nil
	})

	do.Provide(injector, func(i do.Injector) (*commandService.Service, error) {
		return commandService.New(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*termService.Service](i),
			do.MustInvoke[*channelService.Service](i),
			do.MustInvoke[*preferenceService.Service](i),
			do.MustInvoke[*definitionService.Service](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*messageService.Service, error) {
		return messageService.New(
			do.MustInvoke[*commandService.Service](i),
			do.MustInvoke[*channelService.Service](i),
			do.MustInvoke[*scannerService.Service](i),
			do.MustInvoke[*definitionService.Service](i),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*feedService.Service, error) {
		return feedService.New(do.MustInvoke[*termService.Service](i)), nil
	})
}

func registerTransports(injector do.Injector) {
	// Register HTTP Server
	do.Provide(injector, func(i do.Injector) (*httpServer.Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		server := httpServer.New(cfg, do.MustInvoke[*feedService.Service](i))
		server.SetLogger(slog.Default())
		return server, nil
	})

	// Register the chat platform selected by config
	do.Provide(injector, func(i do.Injector) (transport.Runner, error) {
		cfg := do.MustInvoke[*config.Config](i)
		messages := do.MustInvoke[*messageService.Service](i)

		switch cfg.Platform {
		case domain.PlatformDiscord:
			return discordHandler.New(cfg, messages)
		case domain.PlatformTelegram:
			return telegramHandler.New(cfg, messages)
		default:
			return nil, oops.With("platform", cfg.Platform).Wrap(sharedErrors.ErrUnsupportedPlatform)
		}
	})
}

// Shutdown gracefully shuts down all services
func Shutdown(injector do.Injector) error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error

	// Shutdown chat transport if it exists
	if runner, err := do.Invoke[transport.Runner](injector); err == nil && runner != nil {
		if err := runner.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	// Stop the cooldown sweeper if it exists
	if cooldowns, err := do.Invoke[*cooldownService.Service](injector); err == nil && cooldowns != nil {
		cooldowns.Stop()
	}

	// Shutdown HTTP server if it exists
	if server, err := do.Invoke[*httpServer.Server](injector); err == nil && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
