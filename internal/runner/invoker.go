package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
)

// Invoker runs one backend process to completion.
// A non-zero exit status is returned as status with a nil error; the error
// is only set when the process could not be run at all.
type Invoker interface {
	Invoke(ctx context.Context, args []string) (int, error)
}

// ExecInvoker starts the backend directly from its argument vector, without
// a shell
type ExecInvoker struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecInvoker creates an invoker wiring the child's output to stdout and stderr
func NewExecInvoker(stdout, stderr io.Writer) *ExecInvoker {
	return &ExecInvoker{
		Stdout: stdout,
		Stderr: stderr,
	}
}

// Invoke runs args[0] with args[1:] and waits for it to exit
func (e *ExecInvoker) Invoke(ctx context.Context, args []string) (int, error) {
	if len(args) == 0 {
		return -1, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
