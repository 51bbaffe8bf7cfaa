package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/reshetovitsme/termbot/internal/shared/domain"
	"github.com/reshetovitsme/termbot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

type Config struct {
	Platform                 domain.Platform `koanf:"platform"`
	DiscordBotToken          string          `koanf:"discord_bot_token"`
	TelegramBotToken         string          `koanf:"telegram_bot_token"`
	TelegramAPIURL           string          `koanf:"telegram_api_url"`
	CommandPrefix            string          `koanf:"command_prefix"`
	StoragePath              string          `koanf:"storage_path"`
	HTTPPort                 string          `koanf:"http_port"`
	DefaultCooldownMinutes   float64         `koanf:"default_cooldown_minutes"`
	CooldownRetentionMinutes int             `koanf:"cooldown_retention_minutes"`
	SweepInterval            int             `koanf:"sweep_interval"`
	AllowedUsers             []string        `koanf:"allowed_users"`
	LogLevel                 string          `koanf:"log_level"`
	AppEnv                   domain.AppEnv   `koanf:"app_env"`
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try to load config file from various formats
	configFiles := []string{
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	configFile, found := lo.Find(configFiles, func(file string) bool {
		_, err := os.Stat(file)
		return err == nil
	})

	if found {
		var parser koanf.Parser
		ext := filepath.Ext(configFile)

		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		case ".toml":
			parser = toml.Parser()
		default:
			return nil, oops.Errorf("unsupported config file extension: %s", ext)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, oops.With("config_file", configFile).Wrap(err)
		}
	}

	// Environment variables override config file values, empty ones are skipped
	if err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		return strings.ToLower(key), value
	}), nil); err != nil {
		return nil, oops.With("context", "loading environment variables").Wrap(err)
	}

	// Set defaults
	defaults := map[string]any{
		"platform":                   string(domain.PlatformDiscord),
		"telegram_api_url":           "https://api.telegram.org",
		"command_prefix":             "s!",
		"storage_path":               "./data",
		"http_port":                  "8080",
		"default_cooldown_minutes":   5,
		"cooldown_retention_minutes": 24 * 60,
		"sweep_interval":             600,
		"log_level":                  "info",
		"app_env":                    string(domain.AppEnvProduction),
	}
	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.With("context", "unmarshaling config").Wrap(err)
	}

	// koanf returns a string from env vars and a slice from config files
	if allowedUsers := k.Get("allowed_users"); allowedUsers != nil {
		switch v := allowedUsers.(type) {
		case string:
			cfg.AllowedUsers = ParseAllowedUsers(v)
		case []interface{}:
			cfg.AllowedUsers = lo.FilterMap(v, func(item interface{}, _ int) (string, bool) {
				id := strings.TrimSpace(fmt.Sprint(item))
				return id, id != ""
			})
		}
	}

	platform, err := domain.ParsePlatform(k.String("platform"))
	if err != nil {
		return nil, oops.With("platform", k.String("platform")).Wrapf(errors.ErrUnsupportedPlatform, "%v", err)
	}
	cfg.Platform = platform

	if appEnv, err := domain.ParseAppEnv(k.String("app_env")); err == nil {
		cfg.AppEnv = appEnv
	} else {
		cfg.AppEnv = domain.AppEnvProduction
	}

	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = "s!"
	}
	if cfg.DefaultCooldownMinutes < 0 {
		return nil, oops.With("default_cooldown_minutes", cfg.DefaultCooldownMinutes).Wrap(errors.ErrInvalidCooldown)
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = 600
	}

	// Validate the token of the selected platform
	switch cfg.Platform {
	case domain.PlatformDiscord:
		if cfg.DiscordBotToken == "" {
			return nil, oops.With("platform", cfg.Platform).Wrap(errors.ErrMissingBotToken)
		}
	case domain.PlatformTelegram:
		if cfg.TelegramBotToken == "" {
			return nil, oops.With("platform", cfg.Platform).Wrap(errors.ErrMissingBotToken)
		}
	}

	return &cfg, nil
}

// ParseAllowedUsers parses a comma-separated list of sender IDs
func ParseAllowedUsers(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := lo.Map(strings.Split(s, ","), func(part string, _ int) string {
		return strings.TrimSpace(part)
	})
	return lo.Uniq(lo.Compact(parts))
}

// DefaultCooldown is the cooldown applied when no preferences have been persisted
func (c *Config) DefaultCooldown() time.Duration {
	return time.Duration(c.DefaultCooldownMinutes * float64(time.Minute))
}

// CooldownRetention is the age after which cooldown entries are evicted
func (c *Config) CooldownRetention() time.Duration {
	return time.Duration(c.CooldownRetentionMinutes) * time.Minute
}

// SweepPeriod is how often stale cooldown entries are evicted
func (c *Config) SweepPeriod() time.Duration {
	return time.Duration(c.SweepInterval) * time.Second
}

// SlogLevel maps log_level onto a slog level, falling back to info
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
