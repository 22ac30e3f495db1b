// FILE: lixenwraith/settings/discovery.go
package settings

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoveryOptions configures the search for an existing settings file
type DiscoveryOptions struct {
	// Base name of the settings file (without extension)
	Name string

	// Extensions to try, in order
	Extensions []string

	// Directories searched before the standard locations
	Paths []string

	// Environment variable holding an explicit path
	EnvVar string

	UseXDG        bool
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns options searching the current directory and
// the XDG config directories for appName.json, .yaml, .yml or .toml, with
// APPNAME_SETTINGS as an explicit override.
func DefaultDiscoveryOptions(appName string) DiscoveryOptions {
	return DiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".json", ".yaml", ".yml", ".toml"},
		EnvVar:        strings.ToUpper(appName) + "_SETTINGS",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverFile returns the first settings file matching opts. An explicit
// path from the environment is returned whether or not it exists yet.
func DiscoverFile(opts DiscoveryOptions) (string, bool) {
	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path, true
		}
	}

	var searchPaths []string
	searchPaths = append(searchPaths, opts.Paths...)
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}
	if opts.UseXDG {
		searchPaths = append(searchPaths, xdgConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, true
			}
		}
	}
	return "", false
}

// WithFileDiscovery sets the settings file to the first one DiscoverFile
// finds. A ".toml" file also forces FormatTOML. When nothing is found the
// file path is left unchanged, so Load falls back as usual.
func (b *Builder) WithFileDiscovery(opts DiscoveryOptions) *Builder {
	path, ok := DiscoverFile(opts)
	if !ok {
		return b
	}

	b.opts.FilePath = path
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".toml" || ext == ".tml" {
		b.opts.Format = FormatTOML
	}
	return b
}

// xdgConfigPaths returns XDG-compliant config search paths
func xdgConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths, filepath.Join("/etc/xdg", appName))
	}

	return paths
}
