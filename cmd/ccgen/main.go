package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sourceplane/ccgen/internal/runner"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr, execInvoker)
	stop()
	os.Exit(code)
}

// execInvoker starts real backend processes
func execInvoker(stdout, stderr io.Writer) runner.Invoker {
	return runner.NewExecInvoker(stdout, stderr)
}

// execute runs the command line and returns the process exit code
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, invoker invokerFactory) int {
	a := newApp(stdout, stderr, invoker)
	defer a.close()

	if err := a.run(ctx, args); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
