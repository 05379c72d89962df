package mcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"sync"
	"syscall"

	"github.com/BitYantriki/claude-project-setup/internal/config"
	"github.com/BitYantriki/claude-project-setup/internal/logging"
	"github.com/BitYantriki/claude-project-setup/internal/tools"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// ServerName is advertised in the initialize response.
const ServerName = "intellij-mcp-server"

// Version is set at build time with -ldflags "-X .../internal/mcp.Version=...".
var Version = "1.0.0"

// Server represents an MCP server instance using mcp-go
type Server struct {
	config     *config.Config
	logger     *logging.AppLogger
	toolbox    *tools.Toolbox
	dispatcher *tools.Dispatcher
	mcpServer  *server.MCPServer

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewServer creates an MCP server confined to the absolute project root.
func NewServer(root string, cfg *config.Config, logger *logging.AppLogger) (*Server, error) {
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}

	toolbox, err := tools.NewToolbox(root, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tools: %w", err)
	}

	s := &Server{
		config:     cfg,
		logger:     logger,
		toolbox:    toolbox,
		dispatcher: tools.NewDispatcher(toolbox, logger),
	}

	s.mcpServer = server.NewMCPServer(
		ServerName,
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolFilter(catalogOrder),
	)
	s.registerTools()

	return s, nil
}

// MCPServer returns the underlying mcp-go server, e.g. for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Start serves MCP over the process's stdin and stdout until stdin closes or
// the process is interrupted.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("MCP server running", "project_root", s.toolbox.Root())
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve speaks newline-delimited JSON-RPC over in and out until in reaches
// EOF, ctx is cancelled or Stop is called. Requests are handled one at a time.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.setCancel(cancel)
	defer s.setCancel(nil)

	t := newTransport(in, out)
	lines := make(chan []byte)
	readErr := make(chan error, 1)
	go t.readLines(ctx, lines, readErr)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil && ctx.Err() == nil {
				return fmt.Errorf("MCP server failed: %w", err)
			}
			return nil
		case line := <-lines:
			resp := s.handleMessage(ctx, line)
			if resp == nil {
				continue
			}
			if err := t.write(resp); err != nil {
				return fmt.Errorf("MCP server failed: %w", err)
			}
		}
	}
}

// Stop ends a running Serve. It is a no-op when nothing is being served.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.logger.Info("Stopping MCP server")
		s.cancel()
	}
	return nil
}

func (s *Server) setCancel(cancel context.CancelFunc) {
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
}

// registerTools adds every catalog tool, all routed through the dispatcher.
func (s *Server) registerTools() {
	for _, d := range s.dispatcher.Catalog() {
		s.mcpServer.AddTool(toMCPTool(d), s.handleToolCall)
	}
	s.logger.Debug("Registered tools", "count", len(s.dispatcher.Catalog()))
}

func (s *Server) handleToolCall(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res := s.dispatcher.Dispatch(ctx, tools.Call{
		Name:      req.Params.Name,
		Arguments: req.GetArguments(),
	})
	return toCallToolResult(res), nil
}

func toMCPTool(d tools.Descriptor) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(d.Description)}
	for _, p := range d.Params {
		props := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			props = append(props, mcp.Required())
		}
		switch p.Type {
		case tools.ParamNumber:
			opts = append(opts, mcp.WithNumber(p.Name, props...))
		default:
			opts = append(opts, mcp.WithString(p.Name, props...))
		}
	}
	return mcp.NewTool(d.Name, opts...)
}

func toCallToolResult(res tools.Result) *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(res.Content))
	for _, block := range res.Content {
		content = append(content, mcp.NewTextContent(block.Text))
	}
	return &mcp.CallToolResult{
		Content: content,
		IsError: res.IsError,
	}
}

// catalogOrder restores catalog order, which mcp-go replaces with name order.
func catalogOrder(ctx context.Context, listed []mcp.Tool) []mcp.Tool {
	rank := map[string]int{}
	for i, d := range tools.Catalog() {
		rank[d.Name] = i
	}

	ordered := make([]mcp.Tool, len(listed))
	copy(ordered, listed)
	slices.SortStableFunc(ordered, func(a, b mcp.Tool) int {
		ra, oka := rank[a.Name]
		rb, okb := rank[b.Name]
		switch {
		case oka && okb:
			return ra - rb
		case oka:
			return -1
		case okb:
			return 1
		default:
			return strings.Compare(a.Name, b.Name)
		}
	})
	return ordered
}
