// FILE: lixenwraith/settings/plain_test.go
package settings

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type coords struct {
	X, Y int
}

func coordsEncoder(v any) (any, error) {
	c, ok := v.(coords)
	if !ok {
		return nil, fmt.Errorf("not coords: %T", v)
	}
	return []any{c.X, c.Y}, nil
}

func coordsDecoder(v any) (any, error) {
	pair, ok := v.([]any)
	if !ok || len(pair) != 2 {
		return nil, fmt.Errorf("not a coordinate pair: %v", v)
	}
	return coords{X: pair[0].(int), Y: pair[1].(int)}, nil
}

func patternEncoder(v any) (any, error) {
	return v.(*regexp.Regexp).String(), nil
}

func patternDecoder(v any) (any, error) {
	return regexp.Compile(v.(string))
}

// TestToPlain tests dumping flat and nested containers
func TestToPlain(t *testing.T) {
	t.Run("Flat", func(t *testing.T) {
		s := New(Options{
			Data:   map[string]any{"key1": "hello", "key2": "world"},
			Logger: quietLogger(),
		})
		plain, err := s.ToPlain()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"key1": "hello", "key2": "world"}, plain)
	})

	t.Run("Nested", func(t *testing.T) {
		s := New(Options{
			Defaults: map[string]any{
				"key6": []any{},
				"key7": New(Options{Data: map[string]any{"key8": "value8"}, Logger: quietLogger()}),
			},
			Data: map[string]any{
				"key1": "hello",
				"key2": "world",
				"key3": "value3",
				"key4": New(Options{
					FilePath: "inner.yaml",
					Data:     map[string]any{"key5": "value5"},
					Logger:   quietLogger(),
				}),
			},
			Logger: quietLogger(),
		})

		plain, err := s.ToPlain()
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"key1": "hello",
			"key2": "world",
			"key3": "value3",
			"key4": map[string]any{"key5": "value5"},
		}, plain)
	})

	t.Run("EncoderError", func(t *testing.T) {
		s := New(Options{
			Data:    map[string]any{"where": "not coords"},
			Encoder: coordsEncoder,
			Logger:  quietLogger(),
		})
		_, err := s.ToPlain()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), `"where"`)
	})
}

// TestLoadPlain tests applying plain structures
func TestLoadPlain(t *testing.T) {
	t.Run("IgnoresUnknownKeys", func(t *testing.T) {
		s := New(Options{Logger: quietLogger()})
		require.NoError(t, s.LoadPlain(map[string]any{"key1": "hello", "key2": "world"}))
		assert.Equal(t, 0, s.Len())

		s = New(Options{Data: map[string]any{"key1": "a", "key2": "b"}, Logger: quietLogger()})
		require.NoError(t, s.LoadPlain(map[string]any{"key1": "c", "key2": "d", "key3": "e"}))
		v, _ := s.Get("key1")
		assert.Equal(t, "c", v)
		v, _ = s.Get("key2")
		assert.Equal(t, "d", v)
		assert.False(t, s.Has("key3"))
	})

	t.Run("NestedNotMapping", func(t *testing.T) {
		s := New(Options{
			Data:   map[string]any{"inner": New(Options{Data: map[string]any{"a": 1}, Logger: quietLogger()})},
			Logger: quietLogger(),
		})
		err := s.LoadPlain(map[string]any{"inner": "scalar"})
		assert.ErrorIs(t, err, ErrNotMapping)
	})

	t.Run("ErrorLeavesTreeUnchanged", func(t *testing.T) {
		inner := New(Options{Data: map[string]any{"a": 1}, Logger: quietLogger()})
		s := New(Options{
			Data:   map[string]any{"first": "x", "inner": inner, "last": New(Options{Logger: quietLogger()})},
			Logger: quietLogger(),
		})
		err := s.LoadPlain(map[string]any{
			"first": "y",
			"inner": map[string]any{"a": 2},
			"last":  "scalar",
		})
		assert.ErrorIs(t, err, ErrNotMapping)
		assert.Equal(t, "x", get(t, s, "first"))
		assert.Equal(t, 1, get(t, inner, "a"))
	})

	t.Run("DecoderError", func(t *testing.T) {
		s := New(Options{
			Data:    map[string]any{"where": coords{1, 2}},
			Decoder: coordsDecoder,
			Logger:  quietLogger(),
		})
		err := s.LoadPlain(map[string]any{"where": "nowhere"})
		assert.Error(t, err)
		v, _ := s.Get("where")
		assert.Equal(t, coords{1, 2}, v)
	})
}

// TestPlainRoundTrip tests dump then load with and without codecs
func TestPlainRoundTrip(t *testing.T) {
	t.Run("WithoutCodecs", func(t *testing.T) {
		inner := New(Options{Data: map[string]any{"x": 1, "y": []any{"a", "b"}}, Logger: quietLogger()})
		s := New(Options{
			Data:   map[string]any{"name": "n", "count": 3, "inner": inner},
			Logger: quietLogger(),
		})

		plain, err := s.ToPlain()
		require.NoError(t, err)

		require.NoError(t, s.Set("name", "changed"))
		require.NoError(t, inner.Set("x", 100))

		require.NoError(t, s.LoadPlain(plain))
		v, _ := s.Get("name")
		assert.Equal(t, "n", v)
		v, _ = s.Get("count")
		assert.Equal(t, 3, v)

		v, _ = s.Get("inner")
		assert.Same(t, inner, v, "nested containers are loaded in place")
		v, _ = inner.Get("x")
		assert.Equal(t, 1, v)
		assert.Equal(t, []string{"x", "y"}, inner.Keys())
	})

	t.Run("WithCodecs", func(t *testing.T) {
		phone := regexp.MustCompile(`\d{3}-?\d{3}-?\d{4}`)
		email := regexp.MustCompile(`[\w\d.+-]+@[\w\d.-]+\.[\w\d]+`)

		patterns := New(Options{
			Data: map[string]any{
				"phone number pattern":  phone,
				"email address pattern": email,
			},
			Encoder: patternEncoder,
			Decoder: patternDecoder,
			Logger:  quietLogger(),
		})
		s := New(Options{
			Data: map[string]any{
				"location 1": coords{1, 2},
				"location 2": coords{3, 4},
				"patterns":   patterns,
			},
			Encoder: coordsEncoder,
			Decoder: coordsDecoder,
			Logger:  quietLogger(),
		})

		plain, err := s.ToPlain()
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2}, plain["location 1"])
		assert.Equal(t, []any{3, 4}, plain["location 2"])
		assert.Equal(t, map[string]any{
			"phone number pattern":  phone.String(),
			"email address pattern": email.String(),
		}, plain["patterns"])

		require.NoError(t, s.LoadPlain(plain))
		v, _ := s.Get("location 1")
		assert.Equal(t, coords{1, 2}, v)
		v, _ = s.Get("location 2")
		assert.Equal(t, coords{3, 4}, v)

		v, _ = patterns.Get("phone number pattern")
		assert.Equal(t, phone.String(), v.(*regexp.Regexp).String())
		v, _ = patterns.Get("email address pattern")
		assert.Equal(t, email.String(), v.(*regexp.Regexp).String())
	})
}

// TestPlainCycle tests that self-referencing containers fail instead of looping
func TestPlainCycle(t *testing.T) {
	a := New(Options{AllowNewKeys: true, Logger: quietLogger()})
	b := New(Options{AllowNewKeys: true, Logger: quietLogger()})
	require.NoError(t, a.Set("b", b))
	require.NoError(t, b.Set("a", a))

	_, err := a.ToPlain()
	assert.ErrorIs(t, err, ErrCycle)

	err = a.LoadPlain(map[string]any{"b": map[string]any{"a": map[string]any{}}})
	assert.ErrorIs(t, err, ErrCycle)

	// The same container twice in one tree is not a cycle
	shared := New(Options{Data: map[string]any{"v": 1}, Logger: quietLogger()})
	root := New(Options{Data: map[string]any{"left": shared, "right": shared}, Logger: quietLogger()})
	plain, err := root.ToPlain()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"v": 1}, plain["left"])
	assert.Equal(t, map[string]any{"v": 1}, plain["right"])
}
