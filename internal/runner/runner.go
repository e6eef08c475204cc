package runner

import (
	"context"
	"fmt"
	"io"

	"github.com/sourceplane/ccgen/internal/command"
	"github.com/sourceplane/ccgen/internal/ctxlog"
	"github.com/sourceplane/ccgen/internal/expand"
	"github.com/sourceplane/ccgen/internal/model"
)

// StatusNotStarted is recorded for backends that could not be started
const StatusNotStarted = 127

// Runner expands a run configuration and executes every invocation in
// enumeration order, one at a time.
type Runner struct {
	Stdout  io.Writer
	Invoker Invoker
	DryRun  bool
}

// Summary counts the invocations of a run
type Summary struct {
	Invocations int
	Failed      int // Non-zero exit status or not started
}

func NewRunner(stdout io.Writer, invoker Invoker, dryRun bool) *Runner {
	return &Runner{
		Stdout:  stdout,
		Invoker: invoker,
		DryRun:  dryRun,
	}
}

// Run executes every combination of cfg. Every invocation is rendered once
// up front so that limit violations abort the run before any backend starts.
// A failing backend does not stop the run.
func (r *Runner) Run(ctx context.Context, cfg *model.RunConfig) (*Summary, error) {
	if cfg == nil {
		return nil, fmt.Errorf("run config cannot be nil")
	}

	builder, err := command.NewBuilder(cfg)
	if err != nil {
		return nil, err
	}
	expander := expand.NewExpander(cfg.Options, cfg.Limits.WithDefaults().MaxCombinations)

	render := func(c expand.Combination) (model.Invocation, error) {
		inv, err := builder.Build(c.Index, c.Values)
		if err != nil {
			return model.Invocation{}, fmt.Errorf("combination %d: %w", c.Index+1, err)
		}
		return inv, nil
	}

	// Preflight: render only
	if err := expander.Walk(func(c expand.Combination) error {
		_, err := render(c)
		return err
	}); err != nil {
		return nil, err
	}

	summary := &Summary{}
	err = expander.Walk(func(c expand.Combination) error {
		inv, err := render(c)
		if err != nil {
			return err
		}
		return r.invoke(ctx, inv, summary)
	})
	return summary, err
}

// RunPlan executes the invocations of a saved plan in order
func (r *Runner) RunPlan(ctx context.Context, plan *model.Plan) (*Summary, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan cannot be nil")
	}

	summary := &Summary{}
	for _, inv := range plan.Invocations {
		if len(inv.Args) == 0 {
			return summary, fmt.Errorf("invocation %d has no arguments", inv.Index)
		}
		if err := r.invoke(ctx, inv, summary); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

func (r *Runner) invoke(ctx context.Context, inv model.Invocation, summary *Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	fmt.Fprintf(r.Stdout, "Executing... %s\n", inv.CommandLine)
	summary.Invocations++
	if r.DryRun {
		return nil
	}

	log := ctxlog.FromContext(ctx)

	status, err := r.Invoker.Invoke(ctx, inv.Args)
	if err != nil {
		log.Warn("backend could not be started", "index", inv.Index, "program", inv.Args[0], "error", err)
		status = StatusNotStarted
	}

	if status != 0 {
		summary.Failed++
		log.Warn("backend exited with non-zero status", "index", inv.Index, "status", status, "output", inv.OutputFile)
		return nil
	}

	log.Debug("backend finished", "index", inv.Index, "output", inv.OutputFile)
	return nil
}
