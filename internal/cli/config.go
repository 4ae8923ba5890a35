package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
		Args:  exactArgs(0, "config <path|show|init>"),
		// config must work even when the file does not parse
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ui.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
			if a.flags.theme != "" {
				ui.SetTheme(a.flags.theme)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("config <path|show|init>")
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file location",
			Args:  exactArgs(0, "config path"),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), config.Path())
				return nil
			},
		},
		newConfigShowCmd(a),
		newConfigInitCmd(),
	)
	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  exactArgs(0, "config show [-o toml|json|yaml]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if a.flags.apiURL != "" {
				cfg.Service.BaseURL = a.flags.apiURL
			}
			if output == "toml" {
				return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
			}
			if output != formatJSON && output != formatYAML {
				return usagef("unknown output format %q (want toml, json or yaml)", output)
			}
			return encode(cmd.OutOrStdout(), output, cfg)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "toml", "output format: toml, json or yaml")
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  exactArgs(0, "config init [--force]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path()
			if _, err := os.Stat(path); err == nil && !force {
				return usagef("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Save(config.Default()); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			ui.OK("wrote " + path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
