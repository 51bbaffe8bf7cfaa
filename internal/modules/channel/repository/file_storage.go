package repository

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/termbot/internal/shared/jsonfile"
	"github.com/samber/oops"
)

const ChannelsFile = "channels.json"

// FileStorage implements Repository using a single JSON array on disk
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage creates a new file-based channel repository
func NewFileStorage(basePath string) (Repository, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create storage directory").Wrap(err)
	}

	return &FileStorage{path: filepath.Join(basePath, ChannelsFile)}, nil
}

func (s *FileStorage) LoadChannels() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	channels, found, err := jsonfile.Read(s.path, []string{})
	if err != nil {
		return []string{}, err
	}
	if !found {
		slog.Info("Channel whitelist file does not exist, creating empty whitelist", "path", s.path)
		return []string{}, nil
	}

	slog.Info("Channel whitelist loaded from file", "path", s.path, "count", len(channels))
	return channels, nil
}

func (s *FileStorage) SaveChannels(channelIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if channelIDs == nil {
		channelIDs = []string{}
	}
	if err := jsonfile.Write(s.path, channelIDs); err != nil {
		return oops.With("channels", len(channelIDs)).Wrap(err)
	}

	slog.Debug("Channel whitelist file updated", "path", s.path)
	return nil
}
