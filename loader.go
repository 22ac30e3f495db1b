// FILE: lixenwraith/settings/loader.go
package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies the serialization used for the settings file.
type Format string

const (
	// FormatAuto selects JSON for a ".json" suffix and YAML otherwise
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatTOML is never detected, it must be requested explicitly
	FormatTOML Format = "toml"
)

// FallbackOption selects what Load does when no usable settings file exists.
type FallbackOption string

const (
	// FallbackDefaults adds the default of every missing setting
	FallbackDefaults FallbackOption = "default settings"
	// FallbackPrompt merges the result of the container's PromptFunc
	FallbackPrompt FallbackOption = "prompt user"
)

// ParseFormat converts a format name to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml", "tml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// DetectFormat determines the format from the file name.
func DetectFormat(path string) Format {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

func resolveFormat(path string, format Format) Format {
	if format == FormatAuto {
		return DetectFormat(path)
	}
	return format
}

// Load reads the settings file and merges it into the container.
//
// Keys already present are overwritten only if overwrite is true. Keys not
// present are added only if they have a default or a factory; other keys
// in the file are ignored.
//
// Nested containers load their sub-mapping recursively. A key missing from
// the container becomes a nested container when its default is one (copied)
// or, lacking a default, when its factory builds one.
//
// A missing, empty, unreadable or malformed file is not an error, nor is a
// file whose content does not fit the container (a scalar where a nested
// container is expected, a value the decoder rejects). Such a file changes
// nothing and Load falls back according to fallback. FallbackDefaults adds the default of every
// missing setting and never overwrites. FallbackPrompt merges the result of
// the PromptFunc and fails with ErrNoPromptFunc if none was supplied. Any
// other option fails with ErrInvalidFallback, whether or not a file exists.
func (s *Settings) Load(fallback FallbackOption, overwrite bool) error {
	if fallback != FallbackDefaults && fallback != FallbackPrompt {
		return fmt.Errorf("%w: must be %q or %q, not %q", ErrInvalidFallback, FallbackDefaults, FallbackPrompt, fallback)
	}

	format := resolveFormat(s.filePath, s.format)
	data, err := s.readFile(format)
	if err == nil {
		err = s.applyPlain(data, mergePolicy{overwrite: overwrite, grow: true})
		if err == nil {
			s.logger.Info("settings loaded", "path", s.filePath, "format", string(format))
			return nil
		}
		err = fmt.Errorf("failed to apply settings file '%s': %w", s.filePath, err)
	}

	s.logger.Info("unable to load settings", "path", s.filePath, "format", string(format), "error", err)

	switch fallback {
	case FallbackPrompt:
		if s.promptAll == nil {
			return fmt.Errorf("%w: cannot use fallback %q", ErrNoPromptFunc, fallback)
		}
		s.logger.Info("prompting for settings", "fallback", string(fallback))
		prompted, err := s.promptAll(s)
		if err != nil {
			return fmt.Errorf("failed to prompt for settings: %w", err)
		}
		s.Update(prompted)
	default:
		s.logger.Info("using default settings", "fallback", string(fallback))
		s.fillDefaults()
	}
	return nil
}

// fillDefaults copies the default of every setting that is missing.
func (s *Settings) fillDefaults() {
	c := newCopier()
	for key, value := range s.defaults.All() {
		if !s.entries.Has(key) {
			s.entries.Set(key, c.value(value))
		}
	}
}

func (s *Settings) readFile(format Format) (map[string]any, error) {
	if s.filePath == "" {
		return nil, fmt.Errorf("%w: %w", ErrSettingsNotFound, ErrNoFilePath)
	}
	return ReadPlain(s.filePath, format)
}

// ReadPlain reads and parses a settings file into a plain structure.
// A missing file, blank content or an empty mapping yields
// ErrSettingsNotFound; malformed content yields ErrParse.
func ReadPlain(path string, format Format) (map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: '%s'", ErrSettingsNotFound, path)
		}
		return nil, fmt.Errorf("failed to open settings file '%s': %w", path, err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file '%s': %w", path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: '%s' is empty", ErrSettingsNotFound, path)
	}

	data, err := Unmarshal(raw, resolveFormat(path, format))
	if err != nil {
		return nil, fmt.Errorf("%w '%s': %w", ErrParse, path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: '%s' holds no settings", ErrSettingsNotFound, path)
	}
	return data, nil
}

// Unmarshal parses raw settings content in the given format. FormatAuto is
// not accepted; use DetectFormat first.
func Unmarshal(raw []byte, format Format) (map[string]any, error) {
	data := make(map[string]any)
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, err
		}
	case FormatTOML:
		if _, err := toml.Decode(string(raw), &data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return data, nil
}
