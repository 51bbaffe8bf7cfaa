package service

import (
	"log/slog"
	"regexp"
	"sync"

	"github.com/samber/lo"
	"github.com/samber/oops"
)

// TermSource is the view of the term store the scanner needs
type TermSource interface {
	Terms() []string
	IsIgnored(term string) bool
}

// CooldownChecker answers whether a term is suppressed in a channel
type CooldownChecker interface {
	IsCoolingDown(term, channelID string) bool
}

// Service finds known terms mentioned as whole words in ordinary messages
type Service struct {
	terms     TermSource
	cooldowns CooldownChecker

	patterns map[string]*regexp.Regexp
	mu       sync.Mutex
}

// New creates a new scanner
func New(terms TermSource, cooldowns CooldownChecker) *Service {
	return &Service{
		terms:     terms,
		cooldowns: cooldowns,
		patterns:  make(map[string]*regexp.Regexp),
	}
}

// Scan returns every known term that text mentions, in term store order.
// Ignored terms and terms cooling down in channelID are skipped.
func (s *Service) Scan(text, channelID string) []string {
	terms := s.terms.Terms()

	matched := lo.Filter(terms, func(term string, _ int) bool {
		if s.terms.IsIgnored(term) || s.cooldowns.IsCoolingDown(term, channelID) {
			return false
		}
		re, err := s.pattern(term)
		if err != nil {
			slog.Error("Skipping term with unusable pattern", "term", term, "error", err)
			return false
		}
		return re.MatchString(text)
	})

	s.prune(terms)
	return matched
}

// Pattern builds the whole-word, case-insensitive matcher for term.
// The term is matched literally.
func Pattern(term string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(?i)(?:^|\W)` + regexp.QuoteMeta(term) + `(?:$|\W)`)
	if err != nil {
		return nil, oops.With("term", term).Wrap(err)
	}
	return re, nil
}

func (s *Service) pattern(term string) (*regexp.Regexp, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if re, ok := s.patterns[term]; ok {
		return re, nil
	}
	re, err := Pattern(term)
	if err != nil {
		return nil, err
	}
	s.patterns[term] = re
	return re, nil
}

// prune drops cached patterns of removed terms once the cache has grown well past the store
func (s *Service) prune(current []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.patterns) <= 2*len(current)+16 {
		return
	}
	keep := lo.Keyify(current)
	for term := range s.patterns {
		if _, ok := keep[term]; !ok {
			delete(s.patterns, term)
		}
	}
}
