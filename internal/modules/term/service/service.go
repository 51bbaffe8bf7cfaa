package service

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/reshetovitsme/termbot/internal/modules/term/domain"
	"github.com/reshetovitsme/termbot/internal/modules/term/repository"
	"github.com/reshetovitsme/termbot/internal/shared/errors"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Service is the in-memory term store and ignore set.
// Every mutation is written through to the repository; a failed write is
// logged and the in-memory state stays authoritative.
type Service struct {
	repo    repository.Repository
	dict    *domain.Dictionary
	ignored []string
	updated time.Time
	mu      sync.RWMutex
}

// New creates a term service and loads persisted state.
// Unreadable documents are logged and replaced with empty defaults.
func New(repo repository.Repository) *Service {
	dict, err := repo.LoadTerms()
	if err != nil {
		slog.Error("Failed to load terms, starting with empty dictionary", "error", err)
		dict = domain.NewDictionary()
	}

	ignored, err := repo.LoadIgnored()
	if err != nil {
		slog.Error("Failed to load ignore list, starting with empty ignore list", "error", err)
		ignored = []string{}
	}

	return &Service{
		repo:    repo,
		dict:    dict,
		ignored: lo.Uniq(ignored),
		updated: time.Now(),
	}
}

// Lookup returns the definitions of term
func (s *Service) Lookup(term string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dict.Get(term)
}

// Terms returns all term keys in insertion order
func (s *Service) Terms() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dict.Keys()
}

// Entries returns every term with its definitions
func (s *Service) Entries() []domain.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dict.Entries()
}

// Len returns the number of stored terms
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dict.Len()
}

// UpdatedAt returns when the dictionary was loaded or last changed
func (s *Service) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

// Add appends definition to term, creating the term if it is new.
// Both values are trimmed first.
func (s *Service) Add(term, definition string) (domain.AddOutcome, error) {
	term = strings.TrimSpace(term)
	definition = strings.TrimSpace(definition)
	if term == "" {
		return 0, errors.ErrEmptyTerm
	}
	if definition == "" {
		return 0, oops.With("term", term).Wrap(errors.ErrEmptyDefinition)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.dict.Append(term, definition)
	if outcome == domain.AddOutcomeCreated {
		slog.Info("Adding new term", "term", term)
	} else {
		slog.Info("Adding new definition to term", "term", term)
	}
	s.saveTerms()

	return outcome, nil
}

// RemoveMany deletes each term in order and reports a result per input.
// Duplicates are processed independently, so a repeated term is found once.
func (s *Service) RemoveMany(terms []string) []domain.RemoveResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]domain.RemoveResult, 0, len(terms))
	for _, term := range terms {
		term = strings.TrimSpace(term)
		count, ok := s.dict.Delete(term)
		if !ok {
			slog.Info("Attempted to remove term that doesn't exist", "term", term)
			results = append(results, domain.RemoveResult{Term: term})
			continue
		}

		slog.Info("Removed term", "term", term, "definitions", count)
		s.saveTerms()
		results = append(results, domain.RemoveResult{Term: term, Found: true, Count: count})
	}

	return results
}

// Clone copies the definitions of src into a new term dst.
// The copy is independent: later additions to either term do not affect the other.
func (s *Service) Clone(src, dst string) error {
	src = strings.TrimSpace(src)
	dst = strings.TrimSpace(dst)
	if src == "" || dst == "" {
		return errors.ErrEmptyTerm
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defs, ok := s.dict.Get(src)
	if !ok {
		return oops.With("term", src).Wrap(errors.ErrTermNotFound)
	}
	if s.dict.Has(dst) {
		return oops.With("term", dst).Wrap(errors.ErrTermExists)
	}

	s.dict.Set(dst, defs)
	slog.Info("Cloned term", "source", src, "destination", dst)
	s.saveTerms()

	return nil
}

// ToggleIgnore flips the ignore membership of a known term and
// returns whether it is ignored afterwards.
func (s *Service) ToggleIgnore(term string) (bool, error) {
	term = strings.TrimSpace(term)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dict.Has(term) {
		return false, oops.With("term", term).Wrap(errors.ErrTermNotFound)
	}

	ignored := lo.Contains(s.ignored, term)
	if ignored {
		s.ignored = lo.Without(s.ignored, term)
		slog.Info("Term removed from ignore list", "term", term)
	} else {
		s.ignored = append(s.ignored, term)
		slog.Info("Term added to ignore list", "term", term)
	}
	s.saveIgnored()

	return !ignored, nil
}

// IsIgnored reports whether term is excluded from passive detection
func (s *Service) IsIgnored(term string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return lo.Contains(s.ignored, term)
}

// Ignored returns the ignore list
func (s *Service) Ignored() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.ignored...)
}

// caller holds s.mu
func (s *Service) saveTerms() {
	s.updated = time.Now()
	if err := s.repo.SaveTerms(s.dict); err != nil {
		slog.Error("Failed to write terms", "error", err)
	}
}

// caller holds s.mu
func (s *Service) saveIgnored() {
	if err := s.repo.SaveIgnored(s.ignored); err != nil {
		slog.Error("Failed to write ignore list", "error", err)
	}
}
