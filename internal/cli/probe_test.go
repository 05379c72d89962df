package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/BitYantriki/claude-project-setup/internal/config"
	"github.com/BitYantriki/claude-project-setup/internal/logging"
	mcpserver "github.com/BitYantriki/claude-project-setup/internal/mcp"
	"github.com/chzyer/readline"
	"github.com/mark3labs/mcp-go/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSession connects an in-process client to a server for root.
func newTestSession(t *testing.T, root string) (*session, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()

	cfg := config.DefaultConfig()
	cfg.GitBackend = config.GitBackendGoGit
	logger, _ := logging.NewTestLogger()

	server, err := mcpserver.NewServer(root, &cfg, logger)
	require.NoError(t, err)

	c, err := client.NewInProcessClient(server.MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.Start(ctx))

	var out bytes.Buffer
	s, err := newSession(ctx, c, &out)
	require.NoError(t, err)
	return s, &out
}

// scriptedReader replays lines, then reports end of input.
type scriptedReader struct {
	lines []string
	errs  map[int]error
	calls int
}

func (r *scriptedReader) Readline() (string, error) {
	i := r.calls
	r.calls++
	if err, ok := r.errs[i]; ok {
		return "", err
	}
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func TestNewSession_ReportsServer(t *testing.T) {
	root := createProject(t, nil)
	_, out := newTestSession(t, root)

	assert.Contains(t, out.String(), "Connected to "+mcpserver.ServerName+" "+mcpserver.Version)
}

func TestRunSmokeSuite(t *testing.T) {
	root := createProject(t, map[string]string{
		"a.txt":            "alpha",
		"src/Main.java":    "public class Main {}",
		".hidden/skip.txt": "hidden",
	})
	initRepo(t, root)
	s, out := newTestSession(t, root)

	require.NoError(t, s.runSmokeSuite(context.Background()))

	output := out.String()
	listed := section(t, output, "Testing list_files in: .", "Testing git_status...")
	assert.Contains(t, output, "Found 7 tools:")
	assert.Contains(t, output, "  - read_file: ")
	assert.Contains(t, output, "Project structure:")
	assert.Contains(t, output, "── a.txt")
	assert.Contains(t, listed, "Found 2 files:")
	assert.Contains(t, listed, "  - src/Main.java")
	assert.NotContains(t, listed, "skip.txt")
	assert.Contains(t, output, "Git Status:\n")
	assert.Contains(t, output, "?? a.txt")
	assert.Contains(t, output, "File content (")
	assert.Contains(t, output, "All checks completed!")
}

func TestRunSmokeSuite_OutsideRepository(t *testing.T) {
	root := createProject(t, map[string]string{"a.txt": "alpha"})
	s, out := newTestSession(t, root)

	require.NoError(t, s.runSmokeSuite(context.Background()))
	status := section(t, out.String(), "Testing git_status...", "Testing read_file")
	assert.Contains(t, status, "Not a git repository or git not installed")
	assert.NotContains(t, status, "Git Status:")
}

// section returns the text between the first start marker and the next end marker.
func section(t *testing.T, output, start, end string) string {
	t.Helper()
	_, after, ok := strings.Cut(output, start)
	require.True(t, ok, "missing %q in output", start)
	before, _, ok := strings.Cut(after, end)
	require.True(t, ok, "missing %q after %q", end, start)
	return before
}

func TestRunSmokeSuite_EmptyProject(t *testing.T) {
	root := createProject(t, nil)
	s, out := newTestSession(t, root)

	require.NoError(t, s.runSmokeSuite(context.Background()))
	assert.Contains(t, out.String(), "Found 0 files:")
	assert.NotContains(t, out.String(), "Testing read_file")
}

func TestSession_ListFilesTruncates(t *testing.T) {
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		files[name+".txt"] = name
	}
	root := createProject(t, files)
	s, out := newTestSession(t, root)

	require.NoError(t, s.listFiles(context.Background(), "."))
	assert.Contains(t, out.String(), "Found 12 files:")
	assert.Contains(t, out.String(), "  ... and 2 more")
}

func TestSession_ReadFilePreview(t *testing.T) {
	root := createProject(t, map[string]string{"long.txt": strings.Repeat("y", 600)})
	s, out := newTestSession(t, root)

	require.NoError(t, s.readFile(context.Background(), "long.txt"))
	assert.Contains(t, out.String(), "File content (600 chars):")
	assert.Contains(t, out.String(), strings.Repeat("y", 500)+"...")
	assert.NotContains(t, out.String(), strings.Repeat("y", 501))
}

func TestSession_ReadFileErrorResult(t *testing.T) {
	root := createProject(t, nil)
	s, _ := newTestSession(t, root)

	err := s.readFile(context.Background(), "../escape.txt")
	require.Error(t, err)
	assert.Equal(t, "path escapes project root: ../escape.txt", err.Error())
}

func TestREPL(t *testing.T) {
	root := createProject(t, map[string]string{
		"a.txt":        "alpha contents",
		"lib/Util.kt":  "class Util",
		"lib/Other.kt": "class Other",
	})
	initRepo(t, root)
	s, out := newTestSession(t, root)

	reader := &scriptedReader{
		lines: []string{
			"",
			"list",
			"read a.txt",
			"read",
			"files lib",
			"structure",
			"git",
			`call find_class {"className": "Util"}`,
			`call read_file {"path": "../x"}`,
			"call",
			"call read_file {broken",
			"bogus",
			"quit",
			"list",
		},
	}

	require.NoError(t, s.repl(context.Background(), reader))

	output := out.String()
	assert.Contains(t, output, "MCP Test Client - Interactive Mode")
	assert.Contains(t, output, "call <tool> <json_args> - Call any tool")
	assert.Contains(t, output, "Found 7 tools:")
	assert.Contains(t, output, "alpha contents")
	assert.Contains(t, output, "Usage: read <file>")
	assert.Contains(t, output, "Testing list_files in: lib")
	assert.Contains(t, output, "  - lib/Util.kt")
	assert.Contains(t, output, "Project structure:")
	assert.Contains(t, output, "Git Status:")
	assert.Contains(t, output, "Found Util in:\nlib/Util.kt")
	assert.Contains(t, output, "Error: path escapes project root: ../x")
	assert.Contains(t, output, "Usage: call <tool_name> <json_args>")
	assert.Contains(t, output, "must be a JSON object")
	assert.Contains(t, output, "Unknown command.")

	// Nothing after quit is read.
	assert.Equal(t, []string{"list"}, reader.lines)
}

func TestREPL_InterruptAndEOF(t *testing.T) {
	root := createProject(t, nil)
	s, out := newTestSession(t, root)

	reader := &scriptedReader{
		lines: []string{"git"},
		errs:  map[int]error{0: readline.ErrInterrupt},
	}

	require.NoError(t, s.repl(context.Background(), reader))
	assert.Contains(t, out.String(), "Testing git_status...")
	assert.Contains(t, out.String(), "Not a git repository or git not installed")
	assert.Equal(t, 3, reader.calls)
}

func TestREPL_ReadFailure(t *testing.T) {
	root := createProject(t, nil)
	s, _ := newTestSession(t, root)

	reader := &scriptedReader{errs: map[int]error{0: io.ErrUnexpectedEOF}}

	err := s.repl(context.Background(), reader)
	require.Error(t, err)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestCommandCompleter(t *testing.T) {
	completer := commandCompleter()

	names := map[string]bool{}
	for _, child := range completer.GetChildren() {
		names[strings.TrimSpace(string(child.GetName()))] = true
	}
	for _, want := range []string{"list", "read", "structure", "files", "git", "call", "help", "quit"} {
		assert.True(t, names[want], "missing completion for %s", want)
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "abc", preview("abc", 3))
	assert.Equal(t, "ab...", preview("abc", 2))
	assert.Equal(t, "", preview("", 2))
	assert.Equal(t, "hé...", preview("héllo", 2))
	assert.Equal(t, "日本", preview("日本", 2))
	assert.Equal(t, "日...", preview("日本語", 1))
}

func TestSession_ReadFileCountsCharacters(t *testing.T) {
	root := createProject(t, map[string]string{"wide.txt": strings.Repeat("é", 600)})
	s, out := newTestSession(t, root)

	require.NoError(t, s.readFile(context.Background(), "wide.txt"))
	assert.Contains(t, out.String(), "File content (600 chars):")
	assert.Contains(t, out.String(), strings.Repeat("é", 500)+"...")
	assert.NotContains(t, out.String(), strings.Repeat("é", 501))
}
