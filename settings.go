// FILE: lixenwraith/settings/settings.go
package settings

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"
)

// PromptFunc asks the user for a full set of settings. It receives the
// container being loaded and returns the values to merge into it.
type PromptFunc func(s *Settings) (map[string]any, error)

// ValueCodec converts a single setting value at the serialization boundary.
// It is used both as encoder (live value to plain value) and as decoder
// (plain value to live value).
type ValueCodec func(value any) (any, error)

// Options configures a Settings container created by New.
type Options struct {
	// FilePath is the settings file used by Save and Load. Empty disables
	// persistence: Save fails and Load always falls back.
	FilePath string

	// Format forces a file format. FormatAuto selects JSON for a ".json"
	// suffix (case-insensitive) and YAML for anything else.
	Format Format

	// PromptAll supplies settings when Load falls back to FallbackPrompt.
	PromptAll PromptFunc

	// Factories generate values for missing keys.
	Factories map[string]func() any

	// Defaults are the values Reset and ResetAll restore. They do not
	// initialize the container.
	Defaults map[string]any

	// Data seeds the container. Every key is also recorded as a default
	// unless Defaults already has one for it.
	Data map[string]any

	// AllowNewKeys permits Set on keys the container does not hold yet.
	AllowNewKeys bool

	// Encoder and Decoder are applied to every non-container value by
	// ToPlain and LoadPlain.
	Encoder ValueCodec
	Decoder ValueCodec

	// Logger receives load status messages. Defaults to slog.Default().
	Logger *slog.Logger
}

// pair is a key/value kept in seeding order.
type pair struct {
	key   string
	value any
}

// Settings is a settings container: a DefaultsMap of live values plus a
// separate table of default values, file persistence and a fallback load
// protocol. Values may themselves be *Settings, forming a tree that is
// dumped and loaded recursively.
//
// Settings is not safe for concurrent use.
type Settings struct {
	entries      *DefaultsMap[string, any]
	defaults     *DefaultsMap[string, any]
	filePath     string
	format       Format
	promptAll    PromptFunc
	allowNewKeys bool
	encoder      ValueCodec
	decoder      ValueCodec
	logger       *slog.Logger
}

// New creates a Settings container from opts. Map-typed seeds are applied in
// sorted key order; use the Builder to control insertion order.
func New(opts Options) *Settings {
	return newSettings(opts, sortedPairs(opts.Data), sortedPairs(opts.Defaults), opts.Factories)
}

func newSettings(opts Options, data, defaults []pair, factories map[string]func() any) *Settings {
	s := &Settings{
		entries:      NewDefaultsMap(factories),
		defaults:     NewDefaultsMap[string, any](nil),
		filePath:     opts.FilePath,
		format:       opts.Format,
		promptAll:    opts.PromptAll,
		allowNewKeys: opts.AllowNewKeys,
		encoder:      opts.Encoder,
		decoder:      opts.Decoder,
		logger:       opts.Logger,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	// Defaults are copied so callers cannot change them through shared maps
	// or slices
	c := newCopier()
	for _, p := range data {
		s.entries.Set(p.key, p.value)
	}
	for _, p := range defaults {
		s.defaults.Set(p.key, c.value(p.value))
	}

	// Starting data doubles as its own reset target
	for key, value := range s.entries.All() {
		if !s.defaults.Has(key) {
			s.defaults.Set(key, c.value(value))
		}
	}

	return s
}

// Get returns the setting for key, generating it with the key's factory if
// it is missing.
func (s *Settings) Get(key string) (any, error) {
	return s.entries.Get(key)
}

// Set stores value under key. When new keys are disallowed, only keys the
// container already holds can be set.
func (s *Settings) Set(key string, value any) error {
	if !s.allowNewKeys && !s.entries.Has(key) {
		return fmt.Errorf("%w: %q is not a valid setting (enable AllowNewKeys to create settings after initialization)", ErrUnknownKey, key)
	}
	s.entries.Set(key, value)
	return nil
}

// Delete removes the setting for key. Its factory and default are kept.
func (s *Settings) Delete(key string) error {
	return s.entries.Delete(key)
}

// Has reports whether key currently holds a value.
func (s *Settings) Has(key string) bool {
	return s.entries.Has(key)
}

// Update merges data into the container. Unlike Set it may add new keys
// regardless of AllowNewKeys; new keys are added in sorted order.
func (s *Settings) Update(data map[string]any) {
	for _, p := range sortedPairs(data) {
		s.entries.Set(p.key, p.value)
	}
}

// Reset restores the default value of key. Maps, slices and nested
// containers are copied so the stored default is never shared.
func (s *Settings) Reset(key string) error {
	value, ok := s.defaults.Peek(key)
	if !ok {
		return fmt.Errorf("%w: no default setting for %q", ErrMissingKey, key)
	}
	s.entries.Set(key, newCopier().value(value))
	return nil
}

// ResetAll resets every setting that has a default, in default order.
func (s *Settings) ResetAll() error {
	for _, key := range s.defaults.Keys() {
		if err := s.Reset(key); err != nil {
			return err
		}
	}
	return nil
}

// Prompt replaces the setting for key with a fresh value from its factory.
func (s *Settings) Prompt(key string) error {
	factory, ok := s.entries.Factory(key)
	if !ok {
		return fmt.Errorf("%w: no default factory for %q", ErrMissingKey, key)
	}
	s.entries.Set(key, factory())
	return nil
}

// Keys returns the setting keys in insertion order.
func (s *Settings) Keys() []string {
	return s.entries.Keys()
}

func (s *Settings) Len() int {
	return s.entries.Len()
}

// All iterates over the current settings in insertion order.
func (s *Settings) All() iter.Seq2[string, any] {
	return s.entries.All()
}

// Clear removes every setting. Defaults and factories are kept.
func (s *Settings) Clear() {
	s.entries.Clear()
}

// Default returns the default value recorded for key.
func (s *Settings) Default(key string) (any, bool) {
	return s.defaults.Peek(key)
}

func (s *Settings) HasDefault(key string) bool {
	return s.defaults.Has(key)
}

// SetDefault records a copy of value as the default for key.
func (s *Settings) SetDefault(key string, value any) {
	s.defaults.Set(key, newCopier().value(value))
}

// DefaultKeys returns the keys with a default, in default order.
func (s *Settings) DefaultKeys() []string {
	return s.defaults.Keys()
}

// ReplaceDefaults discards all defaults and records defaults in their place.
func (s *Settings) ReplaceDefaults(defaults map[string]any) {
	s.defaults.Clear()
	c := newCopier()
	for _, p := range sortedPairs(defaults) {
		s.defaults.Set(p.key, c.value(p.value))
	}
}

// SetFactory registers the factory used for key. A nil factory removes it.
func (s *Settings) SetFactory(key string, factory func() any) {
	s.entries.SetFactory(key, factory)
}

func (s *Settings) HasFactory(key string) bool {
	return s.entries.HasFactory(key)
}

// FilePath returns the settings file path.
func (s *Settings) FilePath() string {
	return s.filePath
}

// SetFilePath changes the settings file used by Save and Load.
func (s *Settings) SetFilePath(path string) {
	s.filePath = path
}

// SetFormat forces the file format. FormatAuto restores detection by extension.
func (s *Settings) SetFormat(format Format) {
	s.format = format
}

// SetPromptAll sets the function Load uses for FallbackPrompt.
func (s *Settings) SetPromptAll(fn PromptFunc) {
	s.promptAll = fn
}

// sortedPairs returns the entries of m ordered by key.
func sortedPairs(m map[string]any) []pair {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	pairs := make([]pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, pair{key: k, value: m[k]})
	}
	return pairs
}
