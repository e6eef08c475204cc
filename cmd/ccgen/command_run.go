package main

import (
	"fmt"

	"github.com/sourceplane/ccgen/internal/loader"
	"github.com/sourceplane/ccgen/internal/runner"
	"github.com/spf13/cobra"
)

func registerRunFlags(root *cobra.Command, a *app) {
	root.Flags().StringVar(&a.flags.runPlan, "run-plan", "", "Execute the invocations of a plan file written with --plan-file")
}

// runSavedPlan executes a plan file in order
func (a *app) runSavedPlan(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("--run-plan takes no arguments, got %q", args)
	}

	plan, err := loader.LoadPlan(a.flags.runPlan)
	if err != nil {
		return err
	}

	r := runner.NewRunner(a.stdout, a.newInvoker(a.stdout, a.stderr), a.flags.dryRun)
	summary, err := r.RunPlan(a.context(cmd), plan)
	if err != nil {
		return fmt.Errorf("failed to run plan %s: %w", a.flags.runPlan, err)
	}

	a.logger.Info("plan complete", "invocations", summary.Invocations, "failed", summary.Failed)
	return nil
}
