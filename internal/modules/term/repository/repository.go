package repository

import (
	"github.com/reshetovitsme/termbot/internal/modules/term/domain"
)

// Repository defines the interface for term dictionary and ignore list persistence
type Repository interface {
	LoadTerms() (*domain.Dictionary, error)
	SaveTerms(dict *domain.Dictionary) error
	LoadIgnored() ([]string, error)
	SaveIgnored(terms []string) error
}
