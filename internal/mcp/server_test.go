package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/BitYantriki/claude-project-setup/internal/config"
	"github.com/BitYantriki/claude-project-setup/internal/logging"
	"github.com/BitYantriki/claude-project-setup/internal/tools"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProject(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	files := map[string]string{
		"README.md":                       "# Demo\n",
		"src/main/java/demo/Foo.java":     "package demo;\npublic class Foo {}\n",
		"src/main/kotlin/demo/Greeter.kt": "interface Greeter\n",
		".idea/workspace.xml":             "<project/>",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

func newTestServer(t *testing.T, root string) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.GitBackend = config.GitBackendGoGit
	logger, _ := logging.NewTestLogger()

	s, err := NewServer(root, &cfg, logger)
	require.NoError(t, err)
	return s
}

func newInProcessClient(t *testing.T, s *Server) *client.Client {
	t.Helper()
	ctx := context.Background()

	c, err := client.NewInProcessClient(s.MCPServer())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.Start(ctx))

	req := mcp.InitializeRequest{}
	req.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	req.Params.ClientInfo = mcp.Implementation{Name: "test-client", Version: "1.0.0"}
	res, err := c.Initialize(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, ServerName, res.ServerInfo.Name)
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	var b strings.Builder
	for _, c := range res.Content {
		if tc, ok := mcp.AsTextContent(c); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func TestNewServer(t *testing.T) {
	root := createTestProject(t)
	s := newTestServer(t, root)

	assert.NotNil(t, s.MCPServer())
	// Nothing is being served yet.
	assert.NoError(t, s.Stop())
}

func TestNewServer_InvalidRoot(t *testing.T) {
	logger, _ := logging.NewTestLogger()
	_, err := NewServer(filepath.Join(t.TempDir(), "missing"), nil, logger)
	assert.Error(t, err)
}

func TestListTools(t *testing.T) {
	c := newInProcessClient(t, newTestServer(t, createTestProject(t)))

	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	var want []string
	for _, d := range tools.Catalog() {
		want = append(want, d.Name)
	}
	assert.ElementsMatch(t, want, names)

	for _, tool := range res.Tools {
		if tool.Name == tools.WriteFile {
			assert.ElementsMatch(t, []string{"path", "content"}, tool.InputSchema.Required)
			assert.Contains(t, tool.InputSchema.Properties, "content")
		}
		if tool.Name == tools.ProjectStructure {
			prop, ok := tool.InputSchema.Properties["maxDepth"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "number", prop["type"])
		}
	}
}

func TestCatalogOrder(t *testing.T) {
	shuffled := []mcp.Tool{
		{Name: tools.FindClass},
		{Name: "extra"},
		{Name: tools.ReadFile},
		{Name: tools.GitStatus},
		{Name: tools.ExecuteCommand},
	}

	got := catalogOrder(context.Background(), shuffled)

	var names []string
	for _, tool := range got {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{tools.ReadFile, tools.ExecuteCommand, tools.GitStatus, tools.FindClass, "extra"}, names)
	assert.Equal(t, tools.FindClass, shuffled[0].Name, "input must not be reordered in place")
}

func TestCallTool_EndToEnd(t *testing.T) {
	root := createTestProject(t)
	c := newInProcessClient(t, newTestServer(t, root))

	t.Run("read_file", func(t *testing.T) {
		res := callTool(t, c, tools.ReadFile, map[string]any{"path": "README.md"})
		assert.False(t, res.IsError)
		assert.Equal(t, "# Demo\n", resultText(res))
	})

	t.Run("write_file then read_file", func(t *testing.T) {
		res := callTool(t, c, tools.WriteFile, map[string]any{"path": "gen/out/Note.txt", "content": "hi"})
		assert.Equal(t, "File written successfully: gen/out/Note.txt", resultText(res))

		res = callTool(t, c, tools.ReadFile, map[string]any{"path": "gen/out/Note.txt"})
		assert.Equal(t, "hi", resultText(res))
	})

	t.Run("escape is a failure result", func(t *testing.T) {
		res := callTool(t, c, tools.ReadFile, map[string]any{"path": "../secret"})
		assert.True(t, res.IsError)
		assert.Equal(t, "Error: path escapes project root: ../secret", resultText(res))
	})

	t.Run("find_class", func(t *testing.T) {
		res := callTool(t, c, tools.FindClass, map[string]any{"className": "Foo"})
		assert.Equal(t, "Found Foo in:\nsrc/main/java/demo/Foo.java", resultText(res))

		res = callTool(t, c, tools.FindClass, map[string]any{"className": "Bar"})
		assert.Equal(t, "No classes found matching: Bar", resultText(res))
	})

	t.Run("execute_command", func(t *testing.T) {
		res := callTool(t, c, tools.ExecuteCommand, map[string]any{"command": "echo hello"})
		assert.False(t, res.IsError)
		assert.Contains(t, resultText(res), "hello")
		assert.NotContains(t, resultText(res), "Errors:")
	})

	t.Run("project_structure", func(t *testing.T) {
		res := callTool(t, c, tools.ProjectStructure, map[string]any{"maxDepth": 1})
		text := resultText(res)
		assert.True(t, strings.HasPrefix(text, "└── "+filepath.Base(root)+"\n"), text)
		assert.Contains(t, text, "README.md")
		assert.NotContains(t, text, ".idea")
	})

	t.Run("git_status outside a repository", func(t *testing.T) {
		res := callTool(t, c, tools.GitStatus, nil)
		assert.False(t, res.IsError)
		assert.Equal(t, "Not a git repository or git not installed", resultText(res))
	})

	t.Run("missing argument", func(t *testing.T) {
		res := callTool(t, c, tools.ReadFile, map[string]any{})
		assert.True(t, res.IsError)
		assert.Equal(t, "Error: missing required argument: path", resultText(res))
	})
}

type rpcResponse struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestServe_Stdio(t *testing.T) {
	root := createTestProject(t)
	s := newTestServer(t, root)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, inR, outW)
		outW.Close()
	}()

	responses := bufio.NewScanner(outR)
	responses.Buffer(make([]byte, 1024*1024), 1024*1024)
	send := func(id int, method string, params any) rpcResponse {
		t.Helper()
		body, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": id, "method": method, "params": params})
		require.NoError(t, err)
		_, err = fmt.Fprintf(inW, "%s\n", body)
		require.NoError(t, err)

		require.True(t, responses.Scan(), "no response for %s", method)
		var resp rpcResponse
		require.NoError(t, json.Unmarshal(responses.Bytes(), &resp))
		require.Equal(t, id, resp.ID)
		return resp
	}

	resp := send(1, "initialize", map[string]any{
		"protocolVersion": mcp.LATEST_PROTOCOL_VERSION,
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "pipe-test", "version": "1.0.0"},
	})
	require.Nil(t, resp.Error)

	// Notifications get no response line; the next one read belongs to id 2.
	_, err := fmt.Fprintf(inW, "%s\n", `{"jsonrpc":"2.0","method":"notifications/initialized"}`)
	require.NoError(t, err)

	resp = send(2, "tools/list", map[string]any{})
	require.Nil(t, resp.Error)
	var listed struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &listed))
	var names []string
	for _, tool := range listed.Tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"read_file", "write_file", "list_files", "execute_command", "project_structure", "git_status", "find_class"}, names)

	resp = send(3, "tools/call", map[string]any{
		"name":      "list_files",
		"arguments": map[string]any{"pattern": "*.kt"},
	})
	require.Nil(t, resp.Error)
	var called struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	}
	require.NoError(t, json.Unmarshal(resp.Result, &called))
	require.Len(t, called.Content, 1)
	assert.Equal(t, "text", called.Content[0].Type)
	assert.Equal(t, "src/main/kotlin/demo/Greeter.kt", called.Content[0].Text)
	assert.False(t, called.IsError)

	resp = send(4, "tools/call", map[string]any{
		"name":      "no_such_tool",
		"arguments": map[string]any{},
	})
	require.Nil(t, resp.Error, "unknown tools fail as a result, not a protocol error")
	called.Content = nil
	require.NoError(t, json.Unmarshal(resp.Result, &called))
	require.Len(t, called.Content, 1)
	assert.Equal(t, "Error: Unknown tool: no_such_tool", called.Content[0].Text)
	assert.True(t, called.IsError)

	require.NoError(t, inW.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("Serve did not return after stdin closed")
	}
}

func TestServe_Stop(t *testing.T) {
	s := newTestServer(t, createTestProject(t))

	inR, inW := io.Pipe()
	defer inW.Close()
	outR, outW := io.Pipe()
	defer outR.Close()

	done := make(chan error, 1)
	go func() {
		done <- s.Serve(context.Background(), inR, outW)
	}()

	// A response proves Serve is running before Stop is called.
	_, err := fmt.Fprintf(inW, "%s\n", `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	require.NoError(t, err)
	responses := bufio.NewScanner(outR)
	require.True(t, responses.Scan())
	assert.Contains(t, responses.Text(), `"id":1`)

	require.NoError(t, s.Stop())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after Stop")
	}
}

func TestServe_MalformedLine(t *testing.T) {
	s := newTestServer(t, createTestProject(t))

	var out strings.Builder
	in := strings.NewReader("not json\n\n")
	require.NoError(t, s.Serve(context.Background(), in, &out))

	var resp rpcResponse
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(out.String())), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, mcp.PARSE_ERROR, resp.Error.Code)
}
