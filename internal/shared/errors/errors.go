package errors

import "errors"

var (
	ErrMissingBotToken     = errors.New("bot token for the selected platform is required")
	ErrUnsupportedPlatform = errors.New("unsupported chat platform")
	ErrTermNotFound        = errors.New("term not found")
	ErrTermExists          = errors.New("term already exists")
	ErrEmptyTerm           = errors.New("term must not be empty")
	ErrEmptyDefinition     = errors.New("definition must not be empty")
	ErrInvalidCooldown     = errors.New("cooldown must be a non-negative number of minutes")
)
