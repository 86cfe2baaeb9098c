package settings

import "errors"

var (
	// ErrCorrupt is returned when a settings file is not valid JSON.
	ErrCorrupt = errors.New("settings file is corrupt")

	// ErrEmptyKey is returned when a key is empty.
	ErrEmptyKey = errors.New("settings key cannot be empty")
)
