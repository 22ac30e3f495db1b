// FILE: lixenwraith/settings/errors.go
package settings

import "errors"

// Error categories returned by this package. Errors are wrapped with context,
// match them with errors.Is.
var (
	// ErrMissingKey is returned when a key has no entry and no applicable
	// factory or default (read, delete, reset, prompt).
	ErrMissingKey = errors.New("missing key")

	// ErrUnknownKey is returned by Set for a key that is not yet present
	// while new keys are disallowed.
	ErrUnknownKey = errors.New("unknown setting")

	// ErrInvalidFallback is returned by Load for a fallback option other than
	// FallbackDefaults or FallbackPrompt.
	ErrInvalidFallback = errors.New("invalid fallback option")

	// ErrNoPromptFunc is returned by Load when prompting is selected but no
	// prompt function was supplied.
	ErrNoPromptFunc = errors.New("no prompt function supplied")

	// ErrSettingsNotFound marks a missing or empty settings file.
	ErrSettingsNotFound = errors.New("settings file not found")

	// ErrParse marks a settings file that could not be parsed.
	ErrParse = errors.New("parse settings file")

	ErrNoFilePath        = errors.New("no settings file path")
	ErrUnsupportedFormat = errors.New("unsupported settings format")

	// ErrCycle is returned when nested containers reference each other.
	ErrCycle = errors.New("settings cycle detected")

	// ErrNotMapping is returned when a nested container is loaded from a
	// value that is not a mapping.
	ErrNotMapping = errors.New("value is not a mapping")

	ErrValidation = errors.New("settings validation failed")
)
