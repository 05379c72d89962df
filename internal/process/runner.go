// Package process launches external commands for the tools.
//
// Commands run with the project root as working directory and with stdin
// closed, so a child can never consume the protocol stream. There is no
// allow-list: anything the server's user may run, a caller may run.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	mcperrors "github.com/BitYantriki/claude-project-setup/internal/errors"
	"github.com/BitYantriki/claude-project-setup/internal/logging"
)

// waitDelay bounds how long Run waits for pipes after the process is killed,
// e.g. when a backgrounded grandchild keeps stdout open.
const waitDelay = 2 * time.Second

// Result is the outcome of a command that was started.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner starts commands through a shell with an optional timeout.
type Runner struct {
	shell   string
	timeout time.Duration
}

// NewRunner returns a runner using shell for Run. A zero timeout means none.
func NewRunner(shell string, timeout time.Duration) *Runner {
	if shell == "" {
		shell = "sh"
	}
	return &Runner{shell: shell, timeout: timeout}
}

// Run executes command as `<shell> -c <command>` in dir.
//
// A command that starts and then exits non-zero is not an error: its exit
// code is reported in the Result. Failing to start, a timeout and
// cancellation are process_launch errors.
func (r *Runner) Run(ctx context.Context, command, dir string) (*Result, error) {
	return r.Exec(ctx, dir, r.shell, "-c", command)
}

// Exec runs name with args in dir without a shell. Errors follow Run; a
// missing executable wraps exec.ErrNotFound.
func (r *Runner) Exec(ctx context.Context, dir, name string, args ...string) (*Result, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	c.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()
	logging.Debug("Process finished",
		"name", name,
		"args", strings.Join(args, " "),
		"dir", dir,
		"duration", time.Since(start),
	)

	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, mcperrors.ProcessLaunch(fmt.Sprintf("command timed out after %s", r.timeout), ctx.Err())
	case errors.Is(ctx.Err(), context.Canceled):
		return nil, mcperrors.ProcessLaunch("command canceled", ctx.Err())
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
				ExitCode: exitErr.ExitCode(),
			}, nil
		}
		return nil, mcperrors.ProcessLaunch("failed to start "+name, err)
	}

	return &Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}, nil
}
