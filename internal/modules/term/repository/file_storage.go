package repository

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/termbot/internal/modules/term/domain"
	"github.com/reshetovitsme/termbot/internal/shared/jsonfile"
	"github.com/samber/oops"
)

const (
	TermsFile  = "terms.json"
	IgnoreFile = "ignore.json"
)

// FileStorage implements Repository with one JSON document per collection
type FileStorage struct {
	basePath string
	mu       sync.Mutex
}

// NewFileStorage creates a new file-based term repository
func NewFileStorage(basePath string) (Repository, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create storage directory").Wrap(err)
	}

	return &FileStorage{basePath: basePath}, nil
}

func (s *FileStorage) LoadTerms() (*domain.Dictionary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, TermsFile)
	dict, found, err := jsonfile.Read(path, domain.NewDictionary())
	if err != nil {
		return domain.NewDictionary(), err
	}
	if !found {
		slog.Info("Terms file does not exist, starting with empty dictionary", "path", path)
	}
	if dict == nil {
		dict = domain.NewDictionary()
	}

	slog.Info("Terms loaded", "path", path, "count", dict.Len())
	return dict, nil
}

func (s *FileStorage) SaveTerms(dict *domain.Dictionary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, TermsFile)
	if err := jsonfile.Write(path, dict); err != nil {
		return oops.With("terms", dict.Len()).Wrap(err)
	}

	slog.Debug("Terms file updated", "path", path)
	return nil
}

func (s *FileStorage) LoadIgnored() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, IgnoreFile)
	terms, found, err := jsonfile.Read(path, []string{})
	if err != nil {
		return []string{}, err
	}
	if !found {
		slog.Info("Ignore list file does not exist, starting with empty ignore list", "path", path)
	}

	return terms, nil
}

func (s *FileStorage) SaveIgnored(terms []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, IgnoreFile)
	if terms == nil {
		terms = []string{}
	}
	if err := jsonfile.Write(path, terms); err != nil {
		return oops.With("ignored", len(terms)).Wrap(err)
	}

	slog.Debug("Ignore list file updated", "path", path)
	return nil
}
