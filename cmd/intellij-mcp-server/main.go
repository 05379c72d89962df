// Package main is the entry point for the intellij-mcp-server binary.
//
// Without a subcommand the binary serves the Model Context Protocol over
// stdin and stdout for one project directory:
//
//  1. Parse flags and the optional project root argument
//  2. Initialize logging (stderr, or a debug log file)
//  3. Load the optional config file
//  4. Resolve the project root and register the tools
//  5. Serve until stdin closes or the process is interrupted
//
// The tools, call and probe subcommands inspect and exercise the same tool
// set by hand, and config init writes a default config file. See internal/cli
// for details.
package main

import (
	"os"

	"github.com/BitYantriki/claude-project-setup/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
