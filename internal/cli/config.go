package cli

import (
	"fmt"
	"os"

	"github.com/BitYantriki/claude-project-setup/internal/config"
	"github.com/spf13/cobra"
)

const (
	configUse              = "config"
	configShortDescription = "manage the optional config file"

	configInitUse              = "init"
	configInitShortDescription = "write a config file holding the default settings"
	configInitLongDescription  = `init writes every setting with its default value to the config file, or to
the path given by --config. An existing file is left alone unless --force is set.`

	forceFlagName        = "force"
	forceFlagDescription = "overwrite an existing config file"
)

func createConfigCommand(options *rootOptions) *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
	}
	configCommand.AddCommand(createConfigInitCommand(options))
	return configCommand
}

func createConfigInitCommand(options *rootOptions) *cobra.Command {
	var force bool

	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Long:  configInitLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			newLogger(command, options)

			path := options.configPath
			if path == "" {
				path = config.ConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --%s to overwrite)", path, forceFlagName)
			}

			cfg := config.DefaultConfig()
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintln(command.OutOrStdout(), successStyle.Render("Wrote config file: "+path))
			return nil
		},
	}
	initCommand.Flags().BoolVarP(&force, forceFlagName, "f", false, forceFlagDescription)
	return initCommand
}
