// FILE: lixenwraith/settings/example/main.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/lixenwraith/settings"
)

// EditorSettings is the typed view of the settings tree.
type EditorSettings struct {
	Theme    string        `settings:"theme"`
	FontSize int           `settings:"font_size"`
	Autosave time.Duration `settings:"autosave"`
	Recent   []string      `settings:"recent"`
	Window   struct {
		Width  int `settings:"width"`
		Height int `settings:"height"`
	} `settings:"window"`
}

func main() {
	dir, err := os.MkdirTemp("", "settings-example")
	if err != nil {
		log.Fatalf("❌ Failed to create work directory: %v", err)
	}
	path := filepath.Join(dir, "editor.yaml")

	defer func() {
		log.Println("---")
		log.Println("🧹 Cleaning up...")
		os.RemoveAll(dir)
		log.Printf("Removed %s.", dir)
	}()

	// =========================================================================
	// PART 1: FIRST RUN
	// No settings file exists yet, so Load falls back to the defaults.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 1: First run without a settings file...")

	first, err := newEditorSettings(path).
		WithLoad(settings.FallbackDefaults, false).
		Build()
	if err != nil {
		log.Fatalf("❌ Builder failed: %v", err)
	}
	log.Println("✅ Defaults applied.")
	printCurrentState(first, "Defaults")

	if err := first.Set("theme", "solarized"); err != nil {
		log.Fatalf("❌ Set failed: %v", err)
	}
	if err := first.Set("plugin", "vim"); errors.Is(err, settings.ErrUnknownKey) {
		log.Printf("✅ Unknown key rejected: %v", err)
	}
	if err := first.Save(); err != nil {
		log.Fatalf("❌ Save failed: %v", err)
	}
	log.Printf("✅ Settings saved to %s.", path)

	// =========================================================================
	// PART 2: SECOND RUN
	// The file now exists; an external edit changes the font size and a
	// container seeded with its own values merges the file without overwriting.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 2: Second run with an edited settings file...")

	if err := editFile(path); err != nil {
		log.Fatalf("❌ Editing the file failed: %v", err)
	}

	second, err := newEditorSettings(path).
		WithValue("font_size", 16).
		WithLoad(settings.FallbackDefaults, false).
		Build()
	if err != nil {
		log.Fatalf("❌ Builder failed: %v", err)
	}
	log.Println("✅ File merged, existing value kept.")
	printCurrentState(second, "Merged without overwrite")

	if err := second.Load(settings.FallbackDefaults, true); err != nil {
		log.Fatalf("❌ Reload failed: %v", err)
	}
	printCurrentState(second, "Reloaded with overwrite")

	// =========================================================================
	// PART 3: RESET AND PROMPT
	// Reset restores a default; the prompt fallback asks for values when the
	// file is gone.
	// =========================================================================
	log.Println("---")
	log.Println("➡️  PART 3: Reset and prompt fallback...")

	if err := second.Reset("theme"); err != nil {
		log.Fatalf("❌ Reset failed: %v", err)
	}
	log.Println("✅ Theme reset to its default.")

	os.Remove(path)
	third, err := newEditorSettings(path).
		WithPrompt(func(s *settings.Settings) (map[string]any, error) {
			log.Println("   (Prompt: answering with a light theme...)")
			return map[string]any{"theme": "light", "font_size": 14}, nil
		}).
		WithLoad(settings.FallbackPrompt, true).
		Build()
	if err != nil {
		log.Fatalf("❌ Builder failed: %v", err)
	}
	log.Println("✅ Prompt answers merged.")
	printCurrentState(third, "Prompted")

	fmt.Println(third.Debug())
}

// newEditorSettings returns a builder describing the editor's settings,
// shared by every run.
func newEditorSettings(path string) *settings.Builder {
	window := settings.NewBuilder().
		WithDefault("width", 1024).
		WithDefault("height", 768).
		MustBuild()

	return settings.NewBuilder().
		WithFile(path).
		WithDefault("theme", "dark").
		WithDefault("font_size", 12).
		WithDefault("autosave", "30s").
		WithDefault("window", window).
		WithFactory("recent", func() any { return []any{} }).
		WithValidator(func(s *settings.Settings) error {
			size, err := s.Int64("font_size")
			if err != nil {
				return err
			}
			if size < 6 || size > 72 {
				return fmt.Errorf("font size %d is outside the range 6-72", size)
			}
			return nil
		})
}

// editFile simulates a user changing the file by hand.
func editFile(path string) error {
	data, err := settings.ReadPlain(path, settings.FormatAuto)
	if err != nil {
		return err
	}
	data["font_size"] = 20
	data["recent"] = []any{"notes.txt"}
	return settings.WritePlain(path, settings.FormatAuto, data)
}

// printCurrentState is a helper to display the typed settings state.
func printCurrentState(s *settings.Settings, title string) {
	var cfg EditorSettings
	if err := s.Scan(&cfg); err != nil {
		log.Fatalf("❌ Scan failed: %v", err)
	}

	fmt.Println("   --------------------------------------------------")
	fmt.Printf("             %s\n", title)
	fmt.Println("   --------------------------------------------------")
	fmt.Printf("     Theme:     %s\n", cfg.Theme)
	fmt.Printf("     Font Size: %d\n", cfg.FontSize)
	fmt.Printf("     Autosave:  %s\n", cfg.Autosave)
	fmt.Printf("     Window:    %dx%d\n", cfg.Window.Width, cfg.Window.Height)
	fmt.Printf("     Recent:    %v\n", cfg.Recent)
	fmt.Println("   --------------------------------------------------")
}
