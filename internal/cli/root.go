// Package cli provides the command line interface: the stdio server itself
// plus a few commands for inspecting and exercising it by hand.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/BitYantriki/claude-project-setup/internal/config"
	"github.com/BitYantriki/claude-project-setup/internal/logging"
	mcpserver "github.com/BitYantriki/claude-project-setup/internal/mcp"
	"github.com/spf13/cobra"
)

const (
	rootUse              = "intellij-mcp-server [project-root]"
	rootShortDescription = "MCP server exposing a project directory to AI assistants"
	rootLongDescription  = `intellij-mcp-server serves the Model Context Protocol over stdin and stdout.
Every tool is confined to the project root, which defaults to the working directory.
Logs go to stderr, or to a log file when --debug is set.`
	rootUsageExample = `  # Serve the current directory
  intellij-mcp-server

  # Serve a specific project with debug logging
  intellij-mcp-server --debug ~/src/my-app`

	configFlagName        = "config"
	configFlagDescription = "path to a config file (default $XDG_CONFIG_HOME/intellij-mcp-server/config.yaml)"
	debugFlagName         = "debug"
	debugFlagDescription  = "write debug logs to the state directory"
)

// ErrToolFailed is returned by commands whose tool call produced an error
// result. The result text has already been printed.
var ErrToolFailed = errors.New("tool call failed")

// rootOptions stores the persistent flags shared by all commands.
type rootOptions struct {
	configPath string
	debug      bool
}

// Execute runs the application and prints any error to stderr.
func Execute() error {
	rootCommand := createRootCommand()
	err := rootCommand.Execute()
	if err != nil && !errors.Is(err, ErrToolFailed) {
		fmt.Fprintln(rootCommand.ErrOrStderr(), errorStyle.Render("Error: "+err.Error()))
	}
	return err
}

// createRootCommand builds the root Cobra command. Running it without a
// subcommand serves MCP over stdio.
func createRootCommand() *cobra.Command {
	options := &rootOptions{}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Version:       mcpserver.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runServe(command, options, firstArgument(arguments))
		},
	}
	rootCommand.PersistentFlags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&options.debug, debugFlagName, false, debugFlagDescription)
	rootCommand.AddCommand(
		createToolsCommand(),
		createCallCommand(options),
		createProbeCommand(options),
		createConfigCommand(options),
	)
	return rootCommand
}

func runServe(command *cobra.Command, options *rootOptions, rootArgument string) error {
	logger := newLogger(command, options)

	cfg, err := loadConfig(options.configPath)
	if err != nil {
		return err
	}

	projectRoot, err := config.ResolveProjectRoot(rootArgument)
	if err != nil {
		return err
	}

	server, err := mcpserver.NewServer(projectRoot, cfg, logger)
	if err != nil {
		return err
	}
	defer server.Stop()

	return server.Start()
}

// newLogger builds the process logger and installs it as the package default.
// DEBUG in the environment has the same effect as --debug.
func newLogger(command *cobra.Command, options *rootOptions) *logging.AppLogger {
	logger := logging.NewAppLoggerWithOptions(logging.Options{
		Debug:  options.debug || os.Getenv("DEBUG") != "",
		Output: command.ErrOrStderr(),
	})
	logging.SetDefault(logger)
	return logger
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFrom(path)
}

func firstArgument(arguments []string) string {
	if len(arguments) == 0 {
		return ""
	}
	return arguments[0]
}
