package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Executor runs generated commands through a shell.
type Executor struct {
	Shell  string // defaults to "bash"
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecutor returns an executor attached to the process's terminal.
func NewExecutor(shell string) *Executor {
	return &Executor{
		Shell:  shell,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes command with "<shell> -c" and returns its exit status. A
// non-zero status is not an error; err is set only when the shell could not
// be started or was interrupted.
func (e *Executor) Run(ctx context.Context, command string) (int, error) {
	sh := e.Shell
	if sh == "" {
		sh = "bash"
	}

	cmd := exec.CommandContext(ctx, sh, "-c", command)
	cmd.Dir = e.Dir
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return exitErr.ExitCode(), nil
	}
	if ctx.Err() != nil {
		return -1, fmt.Errorf("running command: %w", ctx.Err())
	}
	return -1, fmt.Errorf("starting %s: %w", sh, err)
}

// Installed reports whether a program is on PATH.
func Installed(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
