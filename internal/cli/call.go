package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/BitYantriki/claude-project-setup/internal/config"
	"github.com/BitYantriki/claude-project-setup/internal/tools"
	"github.com/spf13/cobra"
)

const (
	callUse              = "call <tool> [json-arguments]"
	callShortDescription = "run a single tool call in-process and print its result"
	callUsageExample     = `  # Read a file from the current project
  intellij-mcp-server call read_file '{"path": "README.md"}'

  # Show the tree of another project
  intellij-mcp-server call project_structure '{"maxDepth": 2}' --root ~/src/my-app`

	rootFlagName        = "root"
	rootFlagDescription = "project root (default the working directory)"
)

func createCallCommand(options *rootOptions) *cobra.Command {
	var projectRoot string

	callCommand := &cobra.Command{
		Use:     callUse,
		Short:   callShortDescription,
		Example: callUsageExample,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(command *cobra.Command, arguments []string) error {
			raw := ""
			if len(arguments) == 2 {
				raw = arguments[1]
			}
			toolArguments, err := parseArguments(raw)
			if err != nil {
				return err
			}

			logger := newLogger(command, options)
			cfg, err := loadConfig(options.configPath)
			if err != nil {
				return err
			}
			root, err := config.ResolveProjectRoot(projectRoot)
			if err != nil {
				return err
			}
			toolbox, err := tools.NewToolbox(root, cfg)
			if err != nil {
				return err
			}

			dispatcher := tools.NewDispatcher(toolbox, logger)
			result := dispatcher.Dispatch(command.Context(), tools.Call{
				Name:      arguments[0],
				Arguments: toolArguments,
			})

			fmt.Fprintln(command.OutOrStdout(), result.Text())
			if result.IsError {
				return ErrToolFailed
			}
			return nil
		},
	}
	callCommand.Flags().StringVar(&projectRoot, rootFlagName, "", rootFlagDescription)
	return callCommand
}

// parseArguments decodes a JSON object of tool arguments. Blank input means
// no arguments.
func parseArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}

	var arguments map[string]any
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(&arguments); err != nil {
		return nil, fmt.Errorf("tool arguments must be a JSON object: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("tool arguments must be a single JSON object")
	}
	if arguments == nil {
		return nil, fmt.Errorf("tool arguments must be a JSON object, got null")
	}
	return arguments, nil
}
