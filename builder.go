// FILE: lixenwraith/settings/builder.go
package settings

import (
	"fmt"
	"log/slog"
)

// ValidatorFunc defines the signature for a function that can validate a Settings instance.
// It receives the fully built container and should return an error if validation fails.
type ValidatorFunc func(s *Settings) error

// Builder provides a fluent interface for building a Settings container.
// Unlike Options, values and defaults added one at a time keep their order.
type Builder struct {
	opts       Options
	data       []pair
	defaults   []pair
	structs    []any
	factories  map[string]func() any
	load       bool
	fallback   FallbackOption
	overwrite  bool
	validators []ValidatorFunc
}

// NewBuilder creates a new settings builder
func NewBuilder() *Builder {
	return &Builder{
		factories:  make(map[string]func() any),
		validators: make([]ValidatorFunc, 0),
	}
}

// WithFile sets the settings file path
func (b *Builder) WithFile(path string) *Builder {
	b.opts.FilePath = path
	return b
}

// WithFormat forces the settings file format
func (b *Builder) WithFormat(format Format) *Builder {
	b.opts.Format = format
	return b
}

// WithPrompt sets the function used by the FallbackPrompt load fallback
func (b *Builder) WithPrompt(fn PromptFunc) *Builder {
	b.opts.PromptAll = fn
	return b
}

// WithValue adds a starting setting, which also becomes its default unless
// one is set explicitly
func (b *Builder) WithValue(key string, value any) *Builder {
	b.data = append(b.data, pair{key: key, value: value})
	return b
}

// WithData adds starting settings in sorted key order
func (b *Builder) WithData(data map[string]any) *Builder {
	b.data = append(b.data, sortedPairs(data)...)
	return b
}

// WithDefault records the value key is reset to
func (b *Builder) WithDefault(key string, value any) *Builder {
	b.defaults = append(b.defaults, pair{key: key, value: value})
	return b
}

// WithDefaults records reset values in sorted key order
func (b *Builder) WithDefaults(defaults map[string]any) *Builder {
	b.defaults = append(b.defaults, sortedPairs(defaults)...)
	return b
}

// WithDefaultsStruct records the fields of a struct as defaults, see
// structPairs for the field mapping. Defaults from WithDefault and
// WithDefaults take precedence over struct fields with the same key.
func (b *Builder) WithDefaultsStruct(defaults any) *Builder {
	b.structs = append(b.structs, defaults)
	return b
}

// WithFactory registers the generator for a missing key
func (b *Builder) WithFactory(key string, factory func() any) *Builder {
	b.factories[key] = factory
	return b
}

// WithFactories registers generators for missing keys
func (b *Builder) WithFactories(factories map[string]func() any) *Builder {
	for key, factory := range factories {
		b.factories[key] = factory
	}
	return b
}

// AllowNewKeys permits Set on keys the container does not hold yet
func (b *Builder) AllowNewKeys(allow bool) *Builder {
	b.opts.AllowNewKeys = allow
	return b
}

// WithEncoder sets the per-value encoder used when dumping
func (b *Builder) WithEncoder(fn ValueCodec) *Builder {
	b.opts.Encoder = fn
	return b
}

// WithDecoder sets the per-value decoder used when loading
func (b *Builder) WithDecoder(fn ValueCodec) *Builder {
	b.opts.Decoder = fn
	return b
}

// WithLogger sets the logger that receives load status messages
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.opts.Logger = logger
	return b
}

// WithLoad makes Build load the settings file with the given fallback
func (b *Builder) WithLoad(fallback FallbackOption, overwrite bool) *Builder {
	b.load = true
	b.fallback = fallback
	b.overwrite = overwrite
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the Settings instance, loads it if requested and runs the validators
func (b *Builder) Build() (*Settings, error) {
	var defaults []pair
	for _, v := range b.structs {
		pairs, err := structPairs(v, b.opts)
		if err != nil {
			return nil, fmt.Errorf("failed to register defaults: %w", err)
		}
		defaults = append(defaults, pairs...)
	}
	defaults = append(defaults, b.defaults...)

	s := newSettings(b.opts, b.data, defaults, b.factories)

	if b.load {
		if err := s.Load(b.fallback, b.overwrite); err != nil {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
	}

	for _, validator := range b.validators {
		if err := validator(s); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}
	}

	return s, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Settings {
	s, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("settings build failed: %v", err))
	}
	return s
}

// BuildAndScan builds the container and decodes it into target, a non-nil
// pointer to a struct
func (b *Builder) BuildAndScan(target any) (*Settings, error) {
	s, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := s.Scan(target); err != nil {
		return nil, fmt.Errorf("failed to scan settings into target: %w", err)
	}
	return s, nil
}
