package service

import (
	"log/slog"
	"slices"
	"sync"

	channelRepo "github.com/reshetovitsme/termbot/internal/modules/channel/repository"
	"github.com/samber/lo"
)

// Service holds the whitelist of channels where passive detection runs
type Service struct {
	repo     channelRepo.Repository
	order    []string
	channels map[string]bool
	mu       sync.RWMutex
}

// New creates a new channel service and loads the persisted whitelist
func New(repo channelRepo.Repository) *Service {
	ids, err := repo.LoadChannels()
	if err != nil {
		slog.Error("Failed to load channel whitelist, starting empty", "error", err)
		ids = []string{}
	}

	ids = lo.Uniq(lo.Compact(ids))
	return &Service{
		repo:     repo,
		order:    ids,
		channels: lo.SliceToMap(ids, func(id string) (string, bool) { return id, true }),
	}
}

// AddChannel whitelists a channel. It returns false when the channel was already active.
func (s *Service) AddChannel(channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.channels[channelID] {
		return false
	}
	s.channels[channelID] = true
	s.order = append(s.order, channelID)
	s.save()
	return true
}

// RemoveChannel removes a channel from the whitelist. It returns false when the channel was not active.
func (s *Service) RemoveChannel(channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.channels[channelID] {
		return false
	}
	delete(s.channels, channelID)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == channelID })
	s.save()
	return true
}

// IsWhitelisted reports whether passive detection is active in channelID
func (s *Service) IsWhitelisted(channelID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.channels[channelID]
}

// GetAllChannels returns the whitelisted channel IDs in the order they were added
func (s *Service) GetAllChannels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.order)
}

func (s *Service) save() {
	if err := s.repo.SaveChannels(s.order); err != nil {
		slog.Error("Failed to write channel whitelist", "error", err)
	}
}
