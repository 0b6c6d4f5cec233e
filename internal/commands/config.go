package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"wordimp/internal/app"
	"wordimp/internal/config"
)

func addConfig(topLevel *cobra.Command, root *rootOptions) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
		// A broken config file must not stop "config init --force".
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := config.ParseLevel(root.LogLevel)
			if root.LogLevel == "" || err != nil {
				level = config.Default().Level()
			}
			root.logger = app.NewLogger(cmd.ErrOrStderr(), level)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.Save(root.ConfigPath, config.Default(), force)
			if err != nil {
				return err
			}
			root.logger.Debug("wrote config", "path", path)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(root.ConfigPath)
			if err != nil {
				return err
			}
			blob, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, _ = cmd.OutOrStdout().Write(blob)
			return nil
		},
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.ResolvePath(root.ConfigPath)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd, pathCmd)
	topLevel.AddCommand(cmd)
}
