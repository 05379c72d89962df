package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/BitYantriki/claude-project-setup/internal/tools"
	"github.com/chzyer/readline"
)

const replPrompt = "mcp-test> "

var replHelp = []string{
	"list - List available tools",
	"read <file> - Read a file",
	"structure - Show project structure",
	"files [dir] - List files in directory",
	"git - Show git status",
	"call <tool> <json_args> - Call any tool",
	"quit - Exit",
}

type readlineAction int

const (
	readlineContinue readlineAction = iota
	readlineExit
	readlineUnhandled
)

// classifyReadlineError maps a Readline error to what the loop should do.
// Ctrl-C keeps the prompt; Ctrl-D on an empty line leaves it.
func classifyReadlineError(line string, err error) readlineAction {
	switch {
	case err == nil:
		return readlineUnhandled
	case err == readline.ErrInterrupt:
		return readlineContinue
	case err == io.EOF:
		if strings.TrimSpace(line) == "" {
			return readlineExit
		}
		return readlineContinue
	default:
		return readlineUnhandled
	}
}

// lineReader is the part of *readline.Instance the prompt loop uses.
type lineReader interface {
	Readline() (string, error)
}

// interactive opens a readline prompt on the terminal.
func (s *session) interactive(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		AutoComplete:    commandCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
		Stdout:          s.out,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	return s.repl(ctx, rl)
}

// commandCompleter completes prompt commands, and tool names after "call".
func commandCompleter() *readline.PrefixCompleter {
	catalog := tools.Catalog()
	toolItems := make([]readline.PrefixCompleterInterface, len(catalog))
	for i, d := range catalog {
		toolItems[i] = readline.PcItem(d.Name)
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("read"),
		readline.PcItem("structure"),
		readline.PcItem("files"),
		readline.PcItem("git"),
		readline.PcItem("call", toolItems...),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// repl reads commands until quit or end of input.
func (s *session) repl(ctx context.Context, rl lineReader) error {
	fmt.Fprintln(s.out, titleStyle.Render("MCP Test Client - Interactive Mode"))
	s.printHelp()

	for {
		line, err := rl.Readline()
		switch classifyReadlineError(line, err) {
		case readlineExit:
			return nil
		case readlineContinue:
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if s.handleLine(ctx, strings.TrimSpace(line)) {
			return nil
		}
	}
}

func (s *session) printHelp() {
	fmt.Fprintln(s.out, "Commands:")
	for _, line := range replHelp {
		fmt.Fprintln(s.out, helpStyle.Render("  "+line))
	}
	fmt.Fprintln(s.out)
}

// handleLine runs one prompt command and reports whether to quit. Command
// errors are printed, never returned, so the prompt survives them.
func (s *session) handleLine(ctx context.Context, line string) bool {
	command, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	var err error
	switch command {
	case "":
		return false
	case "quit", "exit":
		return true
	case "help":
		s.printHelp()
	case "list":
		err = s.listTools(ctx)
	case "read":
		if rest == "" {
			fmt.Fprintln(s.out, "Usage: read <file>")
			return false
		}
		err = s.readFile(ctx, rest)
	case "structure":
		err = s.projectStructure(ctx)
	case "files":
		directory := "."
		if fields := strings.Fields(rest); len(fields) > 0 {
			directory = fields[0]
		}
		err = s.listFiles(ctx, directory)
	case "git":
		err = s.gitStatus(ctx)
	case "call":
		err = s.callCommand(ctx, rest)
	default:
		fmt.Fprintln(s.out, "Unknown command. Type 'help' for commands or 'quit' to exit.")
	}

	if err != nil {
		s.reportError(err)
	}
	return false
}

// callCommand handles "call <tool> <json_args>" and prints the raw result text.
func (s *session) callCommand(ctx context.Context, rest string) error {
	name, raw, _ := strings.Cut(rest, " ")
	if name == "" {
		fmt.Fprintln(s.out, "Usage: call <tool_name> <json_args>")
		return nil
	}

	arguments, err := parseArguments(raw)
	if err != nil {
		return err
	}

	text, isError, err := s.callTool(ctx, name, arguments)
	if err != nil {
		return err
	}
	if isError {
		fmt.Fprintln(s.out, errorStyle.Render(text))
		return nil
	}
	fmt.Fprintln(s.out, text)
	return nil
}
