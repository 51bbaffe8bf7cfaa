package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/reshetovitsme/termbot/internal/shared/domain"
	"github.com/reshetovitsme/termbot/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory with the config keys blanked
func isolate(t *testing.T) {
	t.Helper()

	t.Chdir(t.TempDir())
	for _, key := range []string{
		"PLATFORM", "DISCORD_BOT_TOKEN", "TELEGRAM_BOT_TOKEN", "TELEGRAM_API_URL",
		"COMMAND_PREFIX", "STORAGE_PATH", "HTTP_PORT", "DEFAULT_COOLDOWN_MINUTES",
		"COOLDOWN_RETENTION_MINUTES", "SWEEP_INTERVAL", "ALLOWED_USERS", "LOG_LEVEL", "APP_ENV",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	t.Setenv("DISCORD_BOT_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, domain.PlatformDiscord, cfg.Platform)
	assert.Equal(t, "token", cfg.DiscordBotToken)
	assert.Equal(t, "s!", cfg.CommandPrefix)
	assert.Equal(t, "./data", cfg.StoragePath)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 5*time.Minute, cfg.DefaultCooldown())
	assert.Equal(t, 24*time.Hour, cfg.CooldownRetention())
	assert.Equal(t, 10*time.Minute, cfg.SweepPeriod())
	assert.Equal(t, domain.AppEnvProduction, cfg.AppEnv)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
	assert.Empty(t, cfg.AllowedUsers)
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("PLATFORM", "Telegram")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("COMMAND_PREFIX", "g!")
	t.Setenv("DEFAULT_COOLDOWN_MINUTES", "0.5")
	t.Setenv("ALLOWED_USERS", "42, 7,,42")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, domain.PlatformTelegram, cfg.Platform)
	assert.Equal(t, "g!", cfg.CommandPrefix)
	assert.Equal(t, 30*time.Second, cfg.DefaultCooldown())
	assert.Equal(t, []string{"42", "7"}, cfg.AllowedUsers)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_ConfigFile(t *testing.T) {
	isolate(t)

	yaml := "platform: discord\ndiscord_bot_token: from-file\nallowed_users:\n  - 1\n  - 2\nhttp_port: \"\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(".", "config.yaml"), []byte(yaml), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.DiscordBotToken)
	assert.Equal(t, []string{"1", "2"}, cfg.AllowedUsers)
	assert.Empty(t, cfg.HTTPPort)
}

func TestLoad_MissingToken(t *testing.T) {
	isolate(t)
	t.Setenv("PLATFORM", "telegram")
	t.Setenv("DISCORD_BOT_TOKEN", "token")

	_, err := Load()
	assert.ErrorIs(t, err, errors.ErrMissingBotToken)
}

func TestLoad_UnsupportedPlatform(t *testing.T) {
	isolate(t)
	t.Setenv("PLATFORM", "irc")

	_, err := Load()
	assert.ErrorIs(t, err, errors.ErrUnsupportedPlatform)
}

func TestLoad_NegativeCooldown(t *testing.T) {
	isolate(t)
	t.Setenv("DISCORD_BOT_TOKEN", "token")
	t.Setenv("DEFAULT_COOLDOWN_MINUTES", "-1")

	_, err := Load()
	assert.ErrorIs(t, err, errors.ErrInvalidCooldown)
}

func TestParseAllowedUsers(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ParseAllowedUsers(""))
	assert.Equal(t, []string{"a", "b"}, ParseAllowedUsers(" a ,b, ,a"))
}
