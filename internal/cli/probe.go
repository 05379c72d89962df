package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/BitYantriki/claude-project-setup/internal/config"
	mcpserver "github.com/BitYantriki/claude-project-setup/internal/mcp"
	"github.com/BitYantriki/claude-project-setup/internal/tools"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"
)

const (
	probeUse              = "probe [project-root]"
	probeShortDescription = "start the server as a subprocess and exercise it over stdio"
	probeLongDescription  = `probe launches this binary as an MCP server for the project root and talks to
it through a real stdio client. By default it runs a short smoke suite; with
--interactive it opens a prompt for calling tools by hand.`

	interactiveFlagName        = "interactive"
	interactiveFlagDescription = "open an interactive prompt instead of running the smoke suite"

	probeClientName     = "intellij-mcp-probe"
	probePreviewChars   = 500
	probeListedFiles    = 10
	probeStructureDepth = 3
	separatorWidth      = 40
)

func createProbeCommand(options *rootOptions) *cobra.Command {
	var interactive bool

	probeCommand := &cobra.Command{
		Use:   probeUse,
		Short: probeShortDescription,
		Long:  probeLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, err := config.ResolveProjectRoot(firstArgument(arguments))
			if err != nil {
				return err
			}
			executable, err := os.Executable()
			if err != nil {
				return fmt.Errorf("unable to locate server executable: %w", err)
			}

			serverArguments := []string{projectRoot}
			if options.configPath != "" {
				serverArguments = append(serverArguments, "--"+configFlagName, options.configPath)
			}
			if options.debug {
				serverArguments = append(serverArguments, "--"+debugFlagName)
			}

			// The stdio client starts the subprocess itself.
			mcpClient, err := client.NewStdioMCPClient(executable, nil, serverArguments...)
			if err != nil {
				return fmt.Errorf("failed to start server: %w", err)
			}
			defer mcpClient.Close()

			out := command.OutOrStdout()
			fmt.Fprintln(out, successStyle.Render("Started MCP server for: "+projectRoot))

			ctx := command.Context()
			s, err := newSession(ctx, mcpClient, out)
			if err != nil {
				return err
			}
			if interactive {
				return s.interactive(ctx)
			}
			return s.runSmokeSuite(ctx)
		},
	}
	probeCommand.Flags().BoolVarP(&interactive, interactiveFlagName, "i", false, interactiveFlagDescription)
	return probeCommand
}

// session is an initialized MCP client plus the writer its reports go to.
type session struct {
	client *client.Client
	out    io.Writer
}

// newSession runs the initialize handshake on an already started client.
func newSession(ctx context.Context, c *client.Client, out io.Writer) (*session, error) {
	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: probeClientName, Version: mcpserver.Version}

	res, err := c.Initialize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("initialize failed: %w", err)
	}
	fmt.Fprintln(out, subtitleStyle.Render(fmt.Sprintf("Connected to %s %s", res.ServerInfo.Name, res.ServerInfo.Version)))

	return &session{client: c, out: out}, nil
}

// callTool returns the joined text of a tool result and whether it is an error result.
func (s *session) callTool(ctx context.Context, name string, arguments map[string]any) (string, bool, error) {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = arguments

	res, err := s.client.CallTool(ctx, req)
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", name, err)
	}

	var b strings.Builder
	for _, content := range res.Content {
		if text, ok := mcp.AsTextContent(content); ok {
			b.WriteString(text.Text)
		}
	}
	return b.String(), res.IsError, nil
}

// callText is callTool with error results turned into errors.
func (s *session) callText(ctx context.Context, name string, arguments map[string]any) (string, error) {
	text, isError, err := s.callTool(ctx, name, arguments)
	if err != nil {
		return "", err
	}
	if isError {
		return "", errors.New(strings.TrimPrefix(text, "Error: "))
	}
	return text, nil
}

func (s *session) heading(text string) {
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, titleStyle.Render(text))
}

func (s *session) listTools(ctx context.Context) error {
	s.heading("Testing tools/list...")
	res, err := s.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return fmt.Errorf("tools/list: %w", err)
	}

	fmt.Fprintf(s.out, "Found %d tools:\n", len(res.Tools))
	for _, tool := range res.Tools {
		fmt.Fprintf(s.out, "  - %s: %s\n", toolNameStyle.Render(tool.Name), tool.Description)
	}
	return nil
}

func (s *session) readFile(ctx context.Context, path string) error {
	s.heading("Testing read_file: " + path)
	content, err := s.callText(ctx, tools.ReadFile, map[string]any{"path": path})
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "File content (%d chars):\n", utf8.RuneCountInString(content))
	fmt.Fprintln(s.out, strings.Repeat("-", separatorWidth))
	fmt.Fprintln(s.out, preview(content, probePreviewChars))
	fmt.Fprintln(s.out, strings.Repeat("-", separatorWidth))
	return nil
}

func (s *session) projectStructure(ctx context.Context) error {
	s.heading("Testing project_structure...")
	structure, err := s.callText(ctx, tools.ProjectStructure, map[string]any{"maxDepth": probeStructureDepth})
	if err != nil {
		return err
	}

	fmt.Fprintln(s.out, "Project structure:")
	fmt.Fprint(s.out, structure)
	return nil
}

func (s *session) listFiles(ctx context.Context, directory string) error {
	s.heading("Testing list_files in: " + directory)
	files, err := s.files(ctx, directory)
	if err != nil {
		return err
	}

	fmt.Fprintf(s.out, "Found %d files:\n", len(files))
	for i, file := range files {
		if i == probeListedFiles {
			fmt.Fprintf(s.out, "  ... and %d more\n", len(files)-probeListedFiles)
			break
		}
		fmt.Fprintf(s.out, "  - %s\n", file)
	}
	return nil
}

func (s *session) files(ctx context.Context, directory string) ([]string, error) {
	text, err := s.callText(ctx, tools.ListFiles, map[string]any{"directory": directory})
	if err != nil {
		return nil, err
	}
	if text == "" {
		return []string{}, nil
	}
	return strings.Split(text, "\n"), nil
}

func (s *session) gitStatus(ctx context.Context) error {
	s.heading("Testing git_status...")
	status, err := s.callText(ctx, tools.GitStatus, map[string]any{})
	if err != nil {
		return err
	}
	fmt.Fprintln(s.out, status)
	return nil
}

// runSmokeSuite exercises the read-only tools once each. Every check runs
// even when an earlier one fails; the returned error counts the failures.
func (s *session) runSmokeSuite(ctx context.Context) error {
	fmt.Fprintln(s.out, titleStyle.Render("Running MCP server checks"))

	checks := []func(context.Context) error{
		s.listTools,
		s.projectStructure,
		func(ctx context.Context) error { return s.listFiles(ctx, ".") },
		s.gitStatus,
		s.readFirstFile,
	}

	failed := 0
	for _, check := range checks {
		if err := check(ctx); err != nil {
			failed++
			s.reportError(err)
		}
	}

	fmt.Fprintln(s.out)
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	fmt.Fprintln(s.out, successStyle.Render("All checks completed!"))
	return nil
}

// readFirstFile reads the first file list_files reports, if there is one.
func (s *session) readFirstFile(ctx context.Context) error {
	files, err := s.files(ctx, ".")
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}
	return s.readFile(ctx, files[0])
}

func (s *session) reportError(err error) {
	fmt.Fprintln(s.out, errorStyle.Render("Error: "+err.Error()))
}

// preview cuts content to at most limit characters, never inside a multi-byte one.
func preview(content string, limit int) string {
	seen := 0
	for i := range content {
		if seen == limit {
			return content[:i] + "..."
		}
		seen++
	}
	return content
}
