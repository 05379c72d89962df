// Package tools defines the tool catalog and the dispatcher that runs tool
// calls against a project root.
//
// Every path argument is confined to the root by project.Resolver before it
// reaches the filesystem or a process. execute_command is the exception the
// caller must trust: it runs arbitrary shell text in the root.
package tools

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BitYantriki/claude-project-setup/internal/config"
	mcperrors "github.com/BitYantriki/claude-project-setup/internal/errors"
	"github.com/BitYantriki/claude-project-setup/internal/logging"
	"github.com/BitYantriki/claude-project-setup/internal/process"
	"github.com/BitYantriki/claude-project-setup/internal/project"
	"github.com/BitYantriki/claude-project-setup/internal/vcs"
	"github.com/BitYantriki/claude-project-setup/pkg/fileops"
)

const (
	cleanTreeText  = "Working directory clean"
	noGitText      = "Not a git repository or git not installed"
	sourceFileExpr = `\.(java|kt)$`
)

// Toolbox holds what the handlers share: the confined view of the project
// root and the tuning from config. It carries no per-call state.
type Toolbox struct {
	resolver        *project.Resolver
	walker          *project.Walker
	runner          *process.Runner
	status          vcs.StatusProvider
	maxFileBytes    int64
	defaultMaxDepth int
}

// NewToolbox prepares handlers for the absolute project root.
func NewToolbox(root string, cfg *config.Config) (*Toolbox, error) {
	if cfg == nil {
		def := config.DefaultConfig()
		cfg = &def
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	resolver, err := project.NewResolver(root)
	if err != nil {
		return nil, err
	}

	runner := process.NewRunner(cfg.Shell, cfg.CommandTimeout)
	status, err := vcs.NewStatusProvider(cfg.GitBackend, runner)
	if err != nil {
		return nil, err
	}

	return &Toolbox{
		resolver:        resolver,
		walker:          project.NewWalker(resolver),
		runner:          runner,
		status:          status,
		maxFileBytes:    cfg.MaxFileBytes,
		defaultMaxDepth: cfg.DefaultMaxDepth,
	}, nil
}

// Root returns the project root the toolbox is confined to.
func (tb *Toolbox) Root() string {
	return tb.resolver.Root()
}

func (tb *Toolbox) readFile(ctx context.Context, args Args) (Result, error) {
	path, err := tb.resolver.Resolve(args.String("path"))
	if err != nil {
		return Result{}, err
	}

	if err := fileops.ValidateFileSizeLimit(path, tb.maxFileBytes); err != nil {
		return Result{}, mcperrors.Filesystem("failed to read file "+args.String("path"), err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, mcperrors.Filesystem("failed to read file "+args.String("path"), err)
	}
	return Success(strings.ToValidUTF8(string(data), "\uFFFD")), nil
}

// readProjectFile reads a root-relative file, confined the same way read_file is.
func (tb *Toolbox) readProjectFile(relativePath string) ([]byte, error) {
	path, err := tb.resolver.Resolve(relativePath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mcperrors.Filesystem("failed to read file "+relativePath, err)
	}
	return data, nil
}

func (tb *Toolbox) writeFile(ctx context.Context, args Args) (Result, error) {
	given := args.String("path")
	path, err := tb.resolver.Resolve(given)
	if err != nil {
		return Result{}, err
	}

	if err := fileops.EnsureDirectoryExists(filepath.Dir(path)); err != nil {
		return Result{}, mcperrors.Filesystem("failed to write file "+given, err)
	}
	if err := os.WriteFile(path, []byte(args.String("content")), 0644); err != nil {
		return Result{}, mcperrors.Filesystem("failed to write file "+given, err)
	}

	logging.Debug("File written", "path", given)
	return Success("File written successfully: " + given), nil
}

func (tb *Toolbox) listFiles(ctx context.Context, args Args) (Result, error) {
	directory := "."
	if args.Has("directory") && args.String("directory") != "" {
		directory = args.String("directory")
	}

	match, err := project.CompilePattern(args.String("pattern"))
	if err != nil {
		return Result{}, err
	}

	dir, err := tb.resolver.Resolve(directory)
	if err != nil {
		return Result{}, err
	}

	files, err := tb.walker.Walk(dir, match)
	if err != nil {
		return Result{}, err
	}
	return Success(strings.Join(files, "\n")), nil
}

func (tb *Toolbox) executeCommand(ctx context.Context, args Args) (Result, error) {
	command := args.String("command")

	res, err := tb.runner.Run(ctx, command, tb.resolver.Root())
	if err != nil {
		return Result{}, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Command: %s\n\nOutput:\n%s\n", command, res.Stdout)
	if res.Stderr != "" {
		fmt.Fprintf(&b, "\nErrors:\n%s", res.Stderr)
	}
	if res.ExitCode != 0 {
		fmt.Fprintf(&b, "\nExit code: %d\n", res.ExitCode)
	}
	return Success(b.String()), nil
}

func (tb *Toolbox) projectStructure(ctx context.Context, args Args) (Result, error) {
	maxDepth := tb.defaultMaxDepth
	if args.Has("maxDepth") {
		n, _ := args.Number("maxDepth")
		if n < 0 || n != math.Trunc(n) || n > math.MaxInt32 {
			return Result{}, mcperrors.Argument("argument maxDepth must be a non-negative integer, got %v", n)
		}
		maxDepth = int(n)
	}

	tree, err := project.BuildTree(tb.resolver.Root(), maxDepth)
	if err != nil {
		return Result{}, err
	}
	return Success(project.RenderTree(tree)), nil
}

func (tb *Toolbox) gitStatus(ctx context.Context, args Args) (Result, error) {
	out, err := tb.status.Status(ctx, tb.resolver.Root())
	if err != nil {
		logging.Debug("git status unavailable", "error", err)
		return Success(noGitText), nil
	}
	if out == "" {
		out = cleanTreeText
	}
	return Success("Git Status:\n" + out), nil
}

func (tb *Toolbox) findClass(ctx context.Context, args Args) (Result, error) {
	className := args.String("className")
	if strings.TrimSpace(className) == "" {
		return Result{}, mcperrors.Argument("argument className must not be empty")
	}

	files, err := tb.walker.Walk(tb.resolver.Root(), project.MustCompilePattern(sourceFileExpr))
	if err != nil {
		return Result{}, err
	}

	classDecl := "class " + className
	interfaceDecl := "interface " + className
	var matches []string
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		data, err := tb.readProjectFile(file)
		if err != nil {
			return Result{}, err
		}
		content := string(data)
		if strings.Contains(content, classDecl) || strings.Contains(content, interfaceDecl) {
			matches = append(matches, file)
		}
	}

	if len(matches) == 0 {
		return Success("No classes found matching: " + className), nil
	}
	return Success(fmt.Sprintf("Found %s in:\n%s", className, strings.Join(matches, "\n"))), nil
}
