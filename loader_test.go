// FILE: lixenwraith/settings/loader_test.go
package settings

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func get(t *testing.T, s *Settings, key string) any {
	t.Helper()
	v, err := s.Get(key)
	require.NoError(t, err)
	return v
}

// TestLoadWithoutFile tests both fallbacks when no settings file exists
func TestLoadWithoutFile(t *testing.T) {
	prompt := func(s *Settings) (map[string]any, error) {
		return map[string]any{"key1": "a", "key2": "b"}, nil
	}

	s := New(Options{
		FilePath:  filepath.Join(t.TempDir(), "not a real file.yaml"),
		PromptAll: prompt,
		Factories: map[string]func() any{
			"key1": func() any { return "value1" },
			"key2": func() any { return "value2" },
			"key3": func() any { return "value3" },
		},
		Defaults: map[string]any{
			"key3": []any{},
			"key4": "value4",
		},
		Data: map[string]any{
			"key1": "hello",
			"key2": "world",
		},
		Logger: quietLogger(),
	})

	assert.Equal(t, "value3", get(t, s, "key3"))

	require.NoError(t, s.Load(FallbackPrompt, true))
	assert.Equal(t, "a", get(t, s, "key1"))
	assert.Equal(t, "b", get(t, s, "key2"))
	assert.Equal(t, "value3", get(t, s, "key3"))
	_, err := s.Get("key4")
	assert.ErrorIs(t, err, ErrMissingKey)

	require.NoError(t, s.Load(FallbackDefaults, true))
	assert.Equal(t, "a", get(t, s, "key1"), "defaults never overwrite")
	assert.Equal(t, "b", get(t, s, "key2"))
	assert.Equal(t, "value3", get(t, s, "key3"))
	assert.Equal(t, "value4", get(t, s, "key4"))

	s.Clear()
	require.NoError(t, s.Load(FallbackDefaults, true))
	assert.Equal(t, "hello", get(t, s, "key1"))
	assert.Equal(t, "world", get(t, s, "key2"))
	assert.Equal(t, []any{}, get(t, s, "key3"))
	assert.Equal(t, "value4", get(t, s, "key4"))

	err = s.Load("invalid option", true)
	assert.ErrorIs(t, err, ErrInvalidFallback)
	assert.Contains(t, err.Error(), "invalid option")
}

// TestLoadFallbackErrors tests fallback selection failures
func TestLoadFallbackErrors(t *testing.T) {
	t.Run("PromptWithoutFunction", func(t *testing.T) {
		s := New(Options{
			FilePath: "nonexistent file.json",
			Defaults: map[string]any{"key1": []any{}, "key2": "value2"},
			Logger:   quietLogger(),
		})
		err := s.Load(FallbackPrompt, true)
		assert.ErrorIs(t, err, ErrNoPromptFunc)
	})

	t.Run("PromptError", func(t *testing.T) {
		cause := errors.New("user cancelled")
		s := New(Options{
			PromptAll: func(*Settings) (map[string]any, error) { return nil, cause },
			Logger:    quietLogger(),
		})
		err := s.Load(FallbackPrompt, true)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("InvalidOptionWithFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "present.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"key1": "from file"}`), 0644))

		s := New(Options{FilePath: path, Data: map[string]any{"key1": "x"}, Logger: quietLogger()})
		err := s.Load("not a real option", true)
		assert.ErrorIs(t, err, ErrInvalidFallback)
		assert.Equal(t, "x", get(t, s, "key1"))
	})
}

// TestChangingSettingsBeforeLoad tests that the defaults fallback keeps user changes
func TestChangingSettingsBeforeLoad(t *testing.T) {
	s := New(Options{
		FilePath:  "sample settings file name.json",
		Factories: map[string]func() any{"key1": func() any { return "value1" }},
		Defaults:  map[string]any{"key1": []any{}},
		Data:      map[string]any{"key1": "hello"},
		Logger:    quietLogger(),
	})

	require.NoError(t, s.Load(FallbackDefaults, true))
	assert.Equal(t, "hello", get(t, s, "key1"))

	require.NoError(t, s.Set("key1", "a"))
	require.NoError(t, s.Load(FallbackDefaults, true))
	assert.Equal(t, "a", get(t, s, "key1"))
}

// TestUnusableFiles tests that unusable files are treated as missing
func TestUnusableFiles(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"EmptyJSON", "empty.json", ""},
		{"BlankYAML", "blank.yaml", "  \n\n"},
		{"EmptyObject", "object.json", "{}"},
		{"NullYAML", "null.yaml", "null\n"},
		{"MalformedJSON", "bad.json", `{"key1": `},
		{"MalformedYAML", "bad.yml", "key1: [unclosed\n"},
		{"JSONArray", "array.json", `["key1"]`},
		{"YAMLScalar", "scalar.yaml", "just text\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			s := New(Options{
				FilePath: path,
				Defaults: map[string]any{"key1": "default"},
				Logger:   quietLogger(),
			})
			require.NoError(t, s.Load(FallbackDefaults, true))
			assert.Equal(t, "default", get(t, s, "key1"))
		})
	}

	t.Run("NoFilePath", func(t *testing.T) {
		s := New(Options{Defaults: map[string]any{"key1": "default"}, Logger: quietLogger()})
		require.NoError(t, s.Load(FallbackDefaults, true))
		assert.Equal(t, "default", get(t, s, "key1"))
	})
}

// TestMismatchedFileContent tests that a file which parses but does not fit
// the container changes nothing and falls back
func TestMismatchedFileContent(t *testing.T) {
	failOnB := func(v any) (any, error) {
		if v == float64(2) {
			return nil, errors.New("invalid argument")
		}
		return v, nil
	}

	tests := []struct {
		name    string
		content string
		decoder ValueCodec
	}{
		{"ScalarForNestedContainer", `{"a": "from file", "z": "scalar"}`, nil},
		{"DecoderFailure", `{"a": "from file", "b": 2}`, failOnB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			var buf bytes.Buffer
			inner := New(Options{Data: map[string]any{"x": 1}, Logger: quietLogger()})
			s := New(Options{
				FilePath: path,
				Data:     map[string]any{"a": "current", "b": 1, "z": inner},
				Defaults: map[string]any{"c": "default"},
				Decoder:  tt.decoder,
				Logger:   slog.New(slog.NewTextHandler(&buf, nil)),
			})

			require.NoError(t, s.Load(FallbackDefaults, true))
			assert.Equal(t, "current", get(t, s, "a"))
			assert.Equal(t, 1, get(t, s, "b"))
			assert.Same(t, inner, get(t, s, "z"))
			assert.Equal(t, "default", get(t, s, "c"), "fallback ran")
			assert.Contains(t, buf.String(), "unable to load settings")
			assert.Contains(t, buf.String(), "failed to apply settings file")
		})
	}

	t.Run("PromptFallback", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "settings.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"a": "from file", "z": 5}`), 0644))

		s := New(Options{
			FilePath:  path,
			Data:      map[string]any{"a": "current", "z": New(Options{Logger: quietLogger()})},
			PromptAll: func(*Settings) (map[string]any, error) { return map[string]any{"a": "prompted"}, nil },
			Logger:    quietLogger(),
		})
		require.NoError(t, s.Load(FallbackPrompt, true))
		assert.Equal(t, "prompted", get(t, s, "a"))
	})
}

// TestLoadFactoryContainer tests growing a nested container built by a factory
func TestLoadFactoryContainer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"window": {"width": 1024, "unknown": true}}`), 0644))

	s := New(Options{
		FilePath: path,
		Factories: map[string]func() any{
			"window": func() any {
				return New(Options{Data: map[string]any{"width": 800.0}, Logger: quietLogger()})
			},
		},
		Logger: quietLogger(),
	})
	require.NoError(t, s.Load(FallbackDefaults, true))

	window, ok := get(t, s, "window").(*Settings)
	require.True(t, ok, "file content is loaded into the factory's container")
	assert.Equal(t, float64(1024), get(t, window, "width"))
	assert.False(t, window.Has("unknown"))
}

// TestReadPlainErrors tests error classes reported by ReadPlain
func TestReadPlainErrors(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := ReadPlain(filepath.Join(tmpDir, "missing.json"), FormatAuto)
	assert.ErrorIs(t, err, ErrSettingsNotFound)

	bad := filepath.Join(tmpDir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = ReadPlain(bad, FormatAuto)
	assert.ErrorIs(t, err, ErrParse)

	_, err = ReadPlain(tmpDir, FormatAuto)
	assert.Error(t, err, "a directory is not a settings file")
}

// TestSaveAndLoad tests persistence round trips in every format
func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name   string
		file   string
		format Format
		count  any
	}{
		{"JSON", "settings.json", FormatAuto, float64(3)},
		{"UppercaseJSON", "SETTINGS.JSON", FormatAuto, float64(3)},
		{"YAML", "settings.yaml", FormatAuto, 3},
		{"NoExtensionIsYAML", "settings", FormatAuto, 3},
		{"ForcedTOML", "settings.conf", FormatTOML, int64(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.name, tt.file)
			newSettings := func() *Settings {
				return New(Options{
					FilePath: path,
					Format:   tt.format,
					Data: map[string]any{
						"name":  "original",
						"count": 0,
						"tags":  []any{"x"},
						"window": New(Options{
							Data:   map[string]any{"width": "800", "title": "main"},
							Logger: quietLogger(),
						}),
					},
					Logger: quietLogger(),
				})
			}

			saved := newSettings()
			require.NoError(t, saved.Set("name", "changed"))
			require.NoError(t, saved.Set("count", 3))
			window := get(t, saved, "window").(*Settings)
			require.NoError(t, window.Set("title", "second"))
			require.NoError(t, saved.Save())

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded := newSettings()
			require.NoError(t, loaded.Load(FallbackDefaults, true))
			assert.Equal(t, "changed", get(t, loaded, "name"))
			assert.Equal(t, tt.count, get(t, loaded, "count"))
			assert.Equal(t, []any{"x"}, get(t, loaded, "tags"))

			title, err := loaded.String("window.title")
			require.NoError(t, err)
			assert.Equal(t, "second", title)
		})
	}
}

// TestSaveJSONLayout tests the persisted layout of a JSON file
func TestSaveJSONLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	s := New(Options{FilePath: path, Data: map[string]any{"b": 1, "a": "x"}, Logger: quietLogger()})
	require.NoError(t, s.Save())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"a\": \"x\",\n    \"b\": 1\n}\n", string(raw))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

// TestSaveErrors tests save failures
func TestSaveErrors(t *testing.T) {
	s := New(Options{Data: map[string]any{"a": 1}, Logger: quietLogger()})
	assert.ErrorIs(t, s.Save(), ErrNoFilePath)

	s.SetFilePath(filepath.Join(t.TempDir(), "out.json"))
	s.SetFormat("xml")
	assert.ErrorIs(t, s.Save(), ErrUnsupportedFormat)
}

// TestLoadMergePolicy tests overwrite and growth rules for file content
func TestLoadMergePolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merge.yaml")
	content := `
existing: from file
with_default: from file
with_factory: from file
stranger: from file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	newSettings := func() *Settings {
		return New(Options{
			FilePath:  path,
			Data:      map[string]any{"existing": "current"},
			Defaults:  map[string]any{"with_default": "default"},
			Factories: map[string]func() any{"with_factory": func() any { return "generated" }},
			Logger:    quietLogger(),
		})
	}

	t.Run("Overwrite", func(t *testing.T) {
		s := newSettings()
		require.NoError(t, s.Load(FallbackDefaults, true))
		assert.Equal(t, "from file", get(t, s, "existing"))
		assert.Equal(t, "from file", get(t, s, "with_default"))
		assert.Equal(t, "from file", get(t, s, "with_factory"))
		assert.False(t, s.Has("stranger"))
	})

	t.Run("KeepExisting", func(t *testing.T) {
		s := newSettings()
		require.NoError(t, s.Load(FallbackDefaults, false))
		assert.Equal(t, "current", get(t, s, "existing"))
		assert.Equal(t, "from file", get(t, s, "with_default"))
		assert.Equal(t, "from file", get(t, s, "with_factory"))
		assert.False(t, s.Has("stranger"))
	})
}

// TestLoadNestedDefault tests loading a nested container that only exists as a default
func TestLoadNestedDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"window": {"width": 1024, "unknown": true}}`), 0644))

	def := New(Options{Data: map[string]any{"width": 800.0}, Logger: quietLogger()})
	s := New(Options{
		FilePath: path,
		Defaults: map[string]any{"window": def},
		Logger:   quietLogger(),
	})
	require.NoError(t, s.Load(FallbackDefaults, true))

	window := get(t, s, "window").(*Settings)
	assert.NotSame(t, def, window)
	assert.Equal(t, float64(1024), get(t, window, "width"))
	assert.False(t, window.Has("unknown"))
	assert.Equal(t, 800.0, get(t, def, "width"), "stored default is untouched")
}

// TestLoadStatusLogging tests that the chosen path is reported
func TestLoadStatusLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := New(Options{FilePath: "missing.json", Defaults: map[string]any{"a": 1}, Logger: logger})
	require.NoError(t, s.Load(FallbackDefaults, true))

	out := buf.String()
	assert.Contains(t, out, "unable to load settings")
	assert.Contains(t, out, "using default settings")
	assert.Contains(t, out, "missing.json")
}

// TestDetectFormat tests extension based format selection
func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path   string
		format Format
	}{
		{"settings.json", FormatJSON},
		{"settings.JSON", FormatJSON},
		{"dir.json/settings.Json", FormatJSON},
		{"settings.yaml", FormatYAML},
		{"settings.yml", FormatYAML},
		{"settings.toml", FormatYAML},
		{"settings", FormatYAML},
		{"settings.json.bak", FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.format, DetectFormat(tt.path))
		})
	}

	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)
	_, err = ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
