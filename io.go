// FILE: lixenwraith/settings/io.go
package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Save writes the container to its settings file atomically, in the format
// implied by the file name unless one was forced.
func (s *Settings) Save() error {
	if s.filePath == "" {
		return ErrNoFilePath
	}

	data, err := s.ToPlain()
	if err != nil {
		return fmt.Errorf("failed to dump settings: %w", err)
	}

	return WritePlain(s.filePath, s.format, data)
}

// WritePlain serializes a plain structure and writes it to path atomically.
func WritePlain(path string, format Format, data map[string]any) error {
	raw, err := Marshal(data, resolveFormat(path, format))
	if err != nil {
		return fmt.Errorf("failed to marshal settings for '%s': %w", path, err)
	}
	return atomicWriteFile(path, raw)
}

// Marshal serializes a plain structure in the given format.
func Marshal(data map[string]any, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(&buf)
		encoder.SetIndent("", "    ")
		if err := encoder.Encode(data); err != nil {
			return nil, err
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(data); err != nil {
			return nil, err
		}
		if err := encoder.Close(); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(data); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return buf.Bytes(), nil
}

// atomicWriteFile writes data to a temporary file in the target directory
// and renames it over path.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary settings file in '%s': %w", dir, err)
	}

	tempPath := tempFile.Name()
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tempPath)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary settings file '%s': %w", tempPath, err)
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary settings file '%s': %w", tempPath, err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary settings file '%s': %w", tempPath, err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on '%s': %w", tempPath, err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename '%s' to '%s': %w", tempPath, path, err)
	}
	renamed = true

	return nil
}
