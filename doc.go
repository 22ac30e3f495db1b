// FILE: lixenwraith/settings/doc.go

// Package settings provides an in-process settings container with default
// values, per-key default factories, JSON/YAML persistence and a fallback
// load protocol for first runs.
//
// Features:
//   - DefaultsMap: an ordered map whose missing keys are generated by per-key factories
//   - Separate default values used by Reset and ResetAll
//   - Optional guard against creating settings after initialization
//   - Save/Load against a JSON or YAML file chosen by extension (TOML on request)
//   - Fallback to default settings or to a user prompt when no usable file exists
//   - Nested containers dumped and loaded recursively, with per-value codecs
//   - Defaults seeded from a tagged struct, and struct decoding through mapstructure
//   - Settings file discovery in the working directory and XDG config paths
//
// Quick Start:
//
//	s := settings.NewBuilder().
//	    WithFile(filepath.Join(dir, "settings.json")).
//	    WithValue("theme", "dark").
//	    WithValue("font size", 12).
//	    WithFactory("username", func() any { return os.Getenv("USER") }).
//	    MustBuild()
//
//	if err := s.Load(settings.FallbackDefaults, true); err != nil {
//	    log.Fatal(err)
//	}
//	theme, _ := s.String("theme")
//	...
//	if err := s.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// Three sources decide a setting's value:
//  1. The current value, if the key holds one
//  2. The key's factory, called once when the key is read while missing
//  3. The key's default, applied only by Reset, ResetAll and FallbackDefaults
//
// Concurrency:
// Containers are not safe for concurrent use. Callers that share a container
// between goroutines must serialize access.
package settings
