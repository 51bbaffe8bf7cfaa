package service

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/reshetovitsme/termbot/internal/modules/preference/domain"
	"github.com/reshetovitsme/termbot/internal/modules/preference/repository"
	"github.com/reshetovitsme/termbot/internal/shared/errors"
	"github.com/samber/oops"
)

// Service owns the bot preferences
type Service struct {
	repo  repository.Repository
	prefs domain.Preferences
	mu    sync.RWMutex
}

// New loads preferences, using defaultCooldown when nothing has been persisted
func New(repo repository.Repository, defaultCooldown time.Duration) *Service {
	fallback := domain.Preferences{Cooldown: defaultCooldown.Milliseconds()}

	prefs, err := repo.LoadPreferences(fallback)
	if err != nil {
		slog.Error("Failed to load preferences, using defaults", "error", err)
		prefs = fallback
	}
	if prefs.Cooldown < 0 {
		prefs.Cooldown = 0
	}
	if limit := domain.MaxCooldownMinutes * int64(time.Minute/time.Millisecond); prefs.Cooldown > limit {
		slog.Warn("Persisted cooldown out of range, clamping", "cooldown_ms", prefs.Cooldown)
		prefs.Cooldown = limit
	}

	return &Service{repo: repo, prefs: prefs}
}

// Cooldown returns the current passive detection cooldown
func (s *Service) Cooldown() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.CooldownDuration()
}

// CooldownMinutes returns the cooldown formatted for users
func (s *Service) CooldownMinutes() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.FormatMinutes(s.prefs.Cooldown)
}

// SetCooldownMinutes stores a new cooldown given in minutes and persists it
func (s *Service) SetCooldownMinutes(minutes float64) (string, error) {
	if minutes < 0 || math.IsNaN(minutes) || minutes > float64(domain.MaxCooldownMinutes) {
		return "", oops.With("minutes", minutes).Wrap(errors.ErrInvalidCooldown)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs.Cooldown = domain.MinutesToMillis(minutes)
	slog.Info("Cooldown updated", "cooldown_ms", s.prefs.Cooldown)

	if err := s.repo.SavePreferences(s.prefs); err != nil {
		slog.Error("Failed to write preferences", "error", err)
	}

	return domain.FormatMinutes(s.prefs.Cooldown), nil
}
