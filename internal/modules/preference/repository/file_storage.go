package repository

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/termbot/internal/modules/preference/domain"
	"github.com/reshetovitsme/termbot/internal/shared/jsonfile"
	"github.com/samber/oops"
)

const PreferencesFile = "preferences.json"

// FileStorage implements Repository using preferences.json
type FileStorage struct {
	path string
	mu   sync.Mutex
}

// NewFileStorage creates a new file-based preferences repository
func NewFileStorage(basePath string) (Repository, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create storage directory").Wrap(err)
	}

	return &FileStorage{path: filepath.Join(basePath, PreferencesFile)}, nil
}

func (s *FileStorage) LoadPreferences(fallback domain.Preferences) (domain.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefs, found, err := jsonfile.Read(s.path, fallback)
	if err != nil {
		return fallback, err
	}
	if !found {
		slog.Info("Preferences file does not exist, using defaults", "path", s.path, "cooldown_ms", fallback.Cooldown)
	}

	return prefs, nil
}

func (s *FileStorage) SavePreferences(prefs domain.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := jsonfile.Write(s.path, prefs); err != nil {
		return oops.With("cooldown_ms", prefs.Cooldown).Wrap(err)
	}

	slog.Debug("Preferences file updated", "path", s.path)
	return nil
}
