package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/settings"
)

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a settings file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd.ErrOrStderr())
		in, err := formatFor(args[0], flagFormat)
		if err != nil {
			return err
		}
		data, err := readTree(args[0], in, false, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagFlat {
			flat := settings.Flatten(data)
			for _, key := range slices.Sorted(maps.Keys(flat)) {
				fmt.Fprintf(out, "%s = %v\n", key, flat[key])
			}
			return nil
		}

		format := in
		if flagOutput != "" {
			if format, err = formatFor("", flagOutput); err != nil {
				return err
			}
		}
		raw, err := settings.Marshal(data, format)
		if err != nil {
			return err
		}
		_, err = out.Write(raw)
		return err
	},
}

var getCmd = &cobra.Command{
	Use:   "get <file> <path>",
	Short: "Print a single setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd.ErrOrStderr())
		format, err := formatFor(args[0], flagFormat)
		if err != nil {
			return err
		}
		data, err := readTree(args[0], format, false, logger)
		if err != nil {
			return err
		}

		value, err := containerFrom(data, false, logger).Lookup(args[1])
		if err != nil {
			return err
		}
		return printValue(cmd.OutOrStdout(), value)
	},
}

var setCmd = &cobra.Command{
	Use:   "set <file> <path> <value>",
	Short: "Change a setting",
	Long: "Set changes an existing setting. With --create, missing settings and " +
		"the nested mappings on their path are added, and a missing file is created.",
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd.ErrOrStderr())
		path := args[0]
		format, err := formatFor(path, flagFormat)
		if err != nil {
			return err
		}
		data, err := readTree(path, format, flagCreate, logger)
		if err != nil {
			return err
		}

		root := containerFrom(data, flagCreate, logger)
		parent, key, err := walk(root, args[1], flagCreate, logger)
		if err != nil {
			return err
		}
		value := parseValue(args[2])
		if err := parent.Set(key, value); err != nil {
			return fmt.Errorf("%w (use --create to add it)", err)
		}
		if err := writeTree(path, format, root, logger); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v\n", args[1], value)
		return nil
	},
}

var unsetCmd = &cobra.Command{
	Use:   "unset <file> <path>",
	Short: "Remove a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd.ErrOrStderr())
		path := args[0]
		format, err := formatFor(path, flagFormat)
		if err != nil {
			return err
		}
		data, err := readTree(path, format, false, logger)
		if err != nil {
			return err
		}

		root := containerFrom(data, false, logger)
		parent, key, err := walk(root, args[1], false, logger)
		if err != nil {
			return err
		}
		if err := parent.Delete(key); err != nil {
			return err
		}
		if err := writeTree(path, format, root, logger); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[1])
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert <src> <dst>",
	Short: "Rewrite a settings file in another format",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(cmd.ErrOrStderr())
		in, err := formatFor(args[0], flagFormat)
		if err != nil {
			return err
		}
		out, err := formatFor(args[1], flagOutput)
		if err != nil {
			return err
		}

		data, err := readTree(args[0], in, false, logger)
		if err != nil {
			return err
		}
		if err := settings.WritePlain(args[1], out, data); err != nil {
			return fmt.Errorf("writing settings: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Converted %s (%s) to %s (%s)\n", args[0], in, args[1], out)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&flagFlat, "flat", false, "print one dotted path per line")
	showCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output format (json, yaml, toml)")
	setCmd.Flags().BoolVar(&flagCreate, "create", false, "add the setting if it does not exist")
	convertCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output format; detected from the destination name when empty")
}
