package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
)

var (
	flagFormat  string
	flagOutput  string
	flagFlat    bool
	flagCreate  bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and edit settings files",
	Long: "Settings reads JSON, YAML and TOML settings files, addresses nested " +
		"settings with dotted paths and writes changes back atomically.",
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print settings version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "settings version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "", "input format (json, yaml, toml); detected from the file name when empty")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log file operations to stderr")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(unsetCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)
}

// Run executes the root command and returns an exit code.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitFailure
	}
	return ExitSuccess
}

// newLogger returns a text logger on w that stays quiet unless --verbose is set.
func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
