package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/BitYantriki/claude-project-setup/internal/tools"

	"github.com/mark3labs/mcp-go/mcp"
)

// transport reads newline-delimited JSON-RPC messages and writes one
// response per line.
type transport struct {
	reader *bufio.Reader
	writer io.Writer
}

func newTransport(in io.Reader, out io.Writer) *transport {
	return &transport{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

// readLines sends every non-blank line on lines, then a nil error on EOF or
// the read error on errs.
func (t *transport) readLines(ctx context.Context, lines chan<- []byte, errs chan<- error) {
	for {
		line, err := t.reader.ReadBytes('\n')
		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			select {
			case lines <- trimmed:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			errs <- err
			return
		}
	}
}

func (t *transport) write(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON-RPC message: %w", err)
	}

	data = append(data, '\n')
	if _, err := t.writer.Write(data); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// toolCallEnvelope is the part of a request needed to spot unknown tools.
type toolCallEnvelope struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

// toolCallResponse answers a tools/call request the dispatcher handled directly.
type toolCallResponse struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      json.RawMessage     `json:"id"`
	Result  *mcp.CallToolResult `json:"result"`
}

// handleMessage answers one inbound line. Calls to tools outside the catalog
// go to the dispatcher so they fail as a tool result, not a protocol error.
// Everything else is handled by mcp-go. A nil return means no response.
func (s *Server) handleMessage(ctx context.Context, raw []byte) any {
	var envelope toolCallEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil &&
		envelope.Method == string(mcp.MethodToolsCall) &&
		len(envelope.ID) > 0 && !bytes.Equal(envelope.ID, []byte("null")) {
		if _, ok := tools.Lookup(envelope.Params.Name); !ok {
			res := s.dispatcher.Dispatch(ctx, tools.Call{
				Name:      envelope.Params.Name,
				Arguments: envelope.Params.Arguments,
			})
			return toolCallResponse{
				JSONRPC: mcp.JSONRPC_VERSION,
				ID:      envelope.ID,
				Result:  toCallToolResult(res),
			}
		}
	}

	return s.mcpServer.HandleMessage(ctx, json.RawMessage(raw))
}
