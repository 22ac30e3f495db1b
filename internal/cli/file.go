package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/settings"
)

// formatFor picks the format for path. An explicit name wins, then a TOML
// extension, then the package's JSON/YAML detection.
func formatFor(path, name string) (settings.Format, error) {
	if name != "" {
		format, err := settings.ParseFormat(name)
		if err != nil {
			return "", err
		}
		if format != settings.FormatAuto {
			return format, nil
		}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return settings.FormatTOML, nil
	}
	return settings.DetectFormat(path), nil
}

// readTree reads path into a plain structure. With allowMissing a missing or
// empty file reads as no settings.
func readTree(path string, format settings.Format, allowMissing bool, logger *slog.Logger) (map[string]any, error) {
	data, err := settings.ReadPlain(path, format)
	if err != nil {
		if allowMissing && errors.Is(err, settings.ErrSettingsNotFound) {
			logger.Info("starting from empty settings", "path", path, "reason", err)
			return map[string]any{}, nil
		}
		return nil, err
	}
	logger.Debug("settings file read", "path", path, "format", string(format), "keys", len(data))
	return data, nil
}

// containerFrom builds a container tree from a plain structure. Every nested
// mapping becomes a nested container with the same key policy.
func containerFrom(data map[string]any, allowNew bool, logger *slog.Logger) *settings.Settings {
	seeded := make(map[string]any, len(data))
	for key, value := range data {
		if nested, ok := value.(map[string]any); ok {
			value = containerFrom(nested, allowNew, logger)
		}
		seeded[key] = value
	}
	return settings.New(settings.Options{Data: seeded, AllowNewKeys: allowNew, Logger: logger})
}

// walk resolves the container holding the last segment of a dotted path.
// With create, missing intermediate containers are added on the way.
func walk(root *settings.Settings, path string, create bool, logger *slog.Logger) (*settings.Settings, string, error) {
	segments := strings.Split(path, ".")
	current := root
	for i, segment := range segments[:len(segments)-1] {
		prefix := strings.Join(segments[:i+1], ".")

		value, err := current.Get(segment)
		if err != nil {
			if !create || !errors.Is(err, settings.ErrMissingKey) {
				return nil, "", err
			}
			child := containerFrom(nil, true, logger)
			if err := current.Set(segment, child); err != nil {
				return nil, "", err
			}
			value = child
		}

		child, ok := value.(*settings.Settings)
		if !ok {
			return nil, "", fmt.Errorf("%w: %q", settings.ErrNotMapping, prefix)
		}
		current = child
	}
	return current, segments[len(segments)-1], nil
}

// parseValue reads a command line value as a YAML scalar, so "8080" becomes
// an integer and "true" a boolean. Anything else stays a string.
func parseValue(raw string) any {
	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
		return raw
	}
	switch value.(type) {
	case map[string]any, []any:
		return raw
	}
	return value
}

func printValue(w io.Writer, value any) error {
	switch v := value.(type) {
	case *settings.Settings:
		plain, err := v.ToPlain()
		if err != nil {
			return err
		}
		raw, err := settings.Marshal(plain, settings.FormatYAML)
		if err != nil {
			return err
		}
		_, err = w.Write(raw)
		return err
	case map[string]any, []any:
		raw, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(raw)
		return err
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// writeTree saves the container tree back to path.
func writeTree(path string, format settings.Format, root *settings.Settings, logger *slog.Logger) error {
	plain, err := root.ToPlain()
	if err != nil {
		return err
	}
	if err := settings.WritePlain(path, format, plain); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	logger.Debug("settings file written", "path", path, "format", string(format), "keys", len(plain))
	return nil
}
