package service

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DurationSource supplies the current cooldown duration
type DurationSource interface {
	Cooldown() time.Duration
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service tracks, per channel and term, when a definition was last surfaced
// by passive detection, and evicts entries that can no longer suppress anything.
type Service struct {
	durations DurationSource
	retention time.Duration
	interval  time.Duration
	now       func() time.Time

	// channel -> term -> last triggered
	table map[string]map[string]time.Time
	mu    sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a cooldown tracker. retention is the minimum age before an entry
// is evicted; interval is how often the sweeper runs.
func New(durations DurationSource, retention, interval time.Duration, opts ...Option) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		durations: durations,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		table:     make(map[string]map[string]time.Time),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IsCoolingDown reports whether term was surfaced in channelID less than one
// cooldown duration ago
func (s *Service) IsCoolingDown(term, channelID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	last, ok := s.table[channelID][term]
	if !ok {
		return false
	}
	return s.now().Sub(last) < s.durations.Cooldown()
}

// Reset marks term as surfaced in channelID now
func (s *Service) Reset(term, channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	terms, ok := s.table[channelID]
	if !ok {
		terms = make(map[string]time.Time)
		s.table[channelID] = terms
	}
	terms[term] = s.now()
}

// Sweep evicts entries older than both the retention horizon and the current
// cooldown, and returns how many were removed
func (s *Service) Sweep() int {
	horizon := max(s.retention, s.durations.Cooldown())

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for channelID, terms := range s.table {
		for term, last := range terms {
			if now.Sub(last) >= horizon {
				delete(terms, term)
				evicted++
			}
		}
		if len(terms) == 0 {
			delete(s.table, channelID)
		}
	}
	return evicted
}

// Size returns the number of tracked (channel, term) pairs
func (s *Service) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, terms := range s.table {
		n += len(terms)
	}
	return n
}

// Start begins periodic eviction in the background
func (s *Service) Start(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	s.wg.Add(1)
	go s.sweepLoop(ctx)
}

// Stop stops the sweeper and waits for it to exit
func (s *Service) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Service) sweepLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if evicted := s.Sweep(); evicted > 0 {
				slog.Debug("Evicted stale cooldown entries", "evicted", evicted, "remaining", s.Size())
			}
		}
	}
}
