// Package mcp exposes the project tools over the Model Context Protocol using mcp-go.
//
// The server is started as a subprocess by an MCP client and speaks JSON-RPC 2.0
// over stdin and stdout. Logs never go to stdout.
//
// # Tools
//
// Every tool in the catalog of package tools is registered with the mcp-go server
// and routed to a single tools.Dispatcher, which serializes calls and turns every
// failure into a normal result. tools/list returns the catalog order.
//
// # Security
//
// File tools are confined to the project root given at startup:
//   - Paths are joined onto the root and checked component-wise after cleaning
//   - Symlinks that lead outside the root are refused
//   - Hidden directories are skipped when listing
//
// execute_command is not confined. It runs arbitrary shell text in the project
// root with the server's privileges, so only connect clients you trust.
//
// # Usage
//
//	intellij-mcp-server /path/to/project
//
// The server reads requests from stdin until EOF or until it is terminated.
//
// # References
//
// - MCP Specification: https://modelcontextprotocol.io/specification
// - mcp-go Library: https://github.com/mark3labs/mcp-go
package mcp
