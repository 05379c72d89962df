// Package vcs reports working tree status for the project root in git's
// porcelain v1 format.
//
// Two backends exist: the git binary, and go-git for hosts without one.
// Paths are relative to the repository top level, as git prints them.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"

	"github.com/BitYantriki/claude-project-setup/internal/config"
	"github.com/BitYantriki/claude-project-setup/internal/logging"
	"github.com/BitYantriki/claude-project-setup/internal/process"
	"github.com/go-git/go-git/v6"
)

// StatusProvider returns porcelain status lines for the repository containing
// dir. An empty string means a clean working tree.
type StatusProvider interface {
	Status(ctx context.Context, dir string) (string, error)
}

// NewStatusProvider returns the provider for a config git_backend value.
func NewStatusProvider(backend string, runner *process.Runner) (StatusProvider, error) {
	switch backend {
	case config.GitBackendCLI:
		return &CLIStatus{runner: runner}, nil
	case config.GitBackendGoGit:
		return &GoGitStatus{}, nil
	case config.GitBackendAuto, "":
		return &AutoStatus{cli: &CLIStatus{runner: runner}, fallback: &GoGitStatus{}}, nil
	default:
		return nil, fmt.Errorf("unknown git backend: %s", backend)
	}
}

// CLIStatus runs `git status --porcelain`.
type CLIStatus struct {
	runner *process.Runner
}

func (s *CLIStatus) Status(ctx context.Context, dir string) (string, error) {
	res, err := s.runner.Exec(ctx, dir, "git", "status", "--porcelain")
	if err != nil {
		return "", err
	}
	if res.ExitCode != 0 {
		return "", fmt.Errorf("git status exited with code %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}
	return res.Stdout, nil
}

// GoGitStatus computes status in-process. Lines are sorted by path.
type GoGitStatus struct{}

func (s *GoGitStatus) Status(ctx context.Context, dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get working tree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return "", fmt.Errorf("failed to get repository status: %w", err)
	}

	paths := make([]string, 0, len(status))
	for path, fs := range status {
		if fs.Staging == git.Unmodified && fs.Worktree == git.Unmodified {
			continue
		}
		paths = append(paths, path)
	}
	slices.Sort(paths)

	var b strings.Builder
	for _, path := range paths {
		fs := status[path]
		name := path
		if fs.Staging == git.Renamed && fs.Extra != "" {
			name = fs.Extra + " -> " + path
		}
		fmt.Fprintf(&b, "%c%c %s\n", fs.Staging, fs.Worktree, name)
	}
	return b.String(), nil
}

// AutoStatus prefers the git binary and falls back when it is not installed.
type AutoStatus struct {
	cli      StatusProvider
	fallback StatusProvider
}

func (s *AutoStatus) Status(ctx context.Context, dir string) (string, error) {
	out, err := s.cli.Status(ctx, dir)
	if err != nil && errors.Is(err, exec.ErrNotFound) {
		logging.Debug("git binary not found, using go-git", "dir", dir)
		return s.fallback.Status(ctx, dir)
	}
	return out, err
}
