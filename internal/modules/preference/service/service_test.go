package service

import (
	"math"
	"testing"
	"time"

	"github.com/reshetovitsme/termbot/internal/modules/preference/domain"
	"github.com/reshetovitsme/termbot/internal/modules/preference/repository"
	"github.com/reshetovitsme/termbot/internal/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UsesDefaultWhenMissing(t *testing.T) {
	t.Parallel()

	repo, err := repository.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	svc := New(repo, 5*time.Minute)
	assert.Equal(t, 5*time.Minute, svc.Cooldown())
	assert.Equal(t, "5.0", svc.CooldownMinutes())
}

func TestSetCooldownMinutes(t *testing.T) {
	t.Parallel()

	repo, err := repository.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	svc := New(repo, 5*time.Minute)

	shown, err := svc.SetCooldownMinutes(2.25)
	require.NoError(t, err)
	assert.Equal(t, "2.3", shown)
	assert.Equal(t, 135*time.Second, svc.Cooldown())

	persisted, err := repo.LoadPreferences(domain.Preferences{})
	require.NoError(t, err)
	assert.Equal(t, int64(135000), persisted.Cooldown)

	reloaded := New(repo, time.Minute)
	assert.Equal(t, 135*time.Second, reloaded.Cooldown())
}

func TestSetCooldownMinutes_Invalid(t *testing.T) {
	t.Parallel()

	repo, err := repository.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	svc := New(repo, time.Minute)

	for _, minutes := range []float64{-1, math.NaN(), math.Inf(1), 1e9, 1e20, float64(domain.MaxCooldownMinutes) + 1} {
		_, err := svc.SetCooldownMinutes(minutes)
		assert.ErrorIs(t, err, errors.ErrInvalidCooldown)
	}
	assert.Equal(t, time.Minute, svc.Cooldown())
}

func TestSetCooldownMinutes_Largest(t *testing.T) {
	t.Parallel()

	repo, err := repository.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	svc := New(repo, time.Minute)

	shown, err := svc.SetCooldownMinutes(float64(domain.MaxCooldownMinutes))
	require.NoError(t, err)
	assert.Equal(t, "153722867.0", shown)
	assert.Equal(t, time.Duration(domain.MaxCooldownMinutes)*time.Minute, svc.Cooldown())
	assert.Positive(t, svc.Cooldown())
}

func TestNew_ClampsOutOfRangeCooldown(t *testing.T) {
	t.Parallel()

	repo, err := repository.NewFileStorage(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, repo.SavePreferences(domain.Preferences{Cooldown: math.MaxInt64}))

	svc := New(repo, time.Minute)
	assert.Positive(t, svc.Cooldown())
	assert.Equal(t, time.Duration(domain.MaxCooldownMinutes)*time.Minute, svc.Cooldown())
}
