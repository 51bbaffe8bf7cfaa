package repository

import "github.com/reshetovitsme/termbot/internal/modules/preference/domain"

// Repository defines the interface for preferences persistence
type Repository interface {
	// LoadPreferences returns the stored preferences, or fallback when none were stored
	LoadPreferences(fallback domain.Preferences) (domain.Preferences, error)
	SavePreferences(prefs domain.Preferences) error
}
