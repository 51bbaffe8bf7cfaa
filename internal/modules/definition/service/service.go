package service

import (
	"strings"

	messageDomain "github.com/reshetovitsme/termbot/internal/modules/message/domain"
)

// TermLookup resolves a term to its definitions
type TermLookup interface {
	Lookup(term string) ([]string, bool)
}

// CooldownResetter restarts the cooldown of a term in a channel
type CooldownResetter interface {
	Reset(term, channelID string)
}

// Service renders definitions as structured replies
type Service struct {
	terms     TermLookup
	cooldowns CooldownResetter
}

// New creates a definition presenter
func New(terms TermLookup, cooldowns CooldownResetter) *Service {
	return &Service{terms: terms, cooldowns: cooldowns}
}

// Present builds a reply with one field per known term. Terms that no longer
// exist are skipped. When resetCooldown is set, each rendered term's cooldown
// in channelID is restarted. ok is false when no field was rendered.
func (s *Service) Present(channelID string, terms []string, resetCooldown bool) (reply messageDomain.Reply, ok bool) {
	for _, term := range terms {
		defs, found := s.terms.Lookup(term)
		if !found {
			continue
		}
		if resetCooldown {
			s.cooldowns.Reset(term, channelID)
		}
		reply.Fields = append(reply.Fields, messageDomain.Field{
			Name:  term,
			Value: strings.Join(defs, "\n"),
		})
	}

	return reply, reply.IsStructured()
}
