package main

import (
	"fmt"

	"github.com/sourceplane/ccgen/internal/render"
	"github.com/spf13/cobra"
)

func registerPlanFlags(root *cobra.Command, a *app) {
	root.Flags().StringVar(&a.flags.planFile, "plan-file", "", "Write every invocation to this plan file (.json or .yaml) instead of running the backend")
	root.Flags().StringVar(&a.flags.view, "view", "", "View the written plan (tree/list/dump)")
}

// writePlan renders every invocation into a plan file without running the
// backend
func (a *app) writePlan(args []string) error {
	switch a.flags.view {
	case "", "tree", "list", "dump":
	default:
		return fmt.Errorf("unknown view %q (want tree, list or dump)", a.flags.view)
	}

	cfg, metadata, err := a.loadConfig(args)
	if err != nil {
		return err
	}

	renderer := render.NewRenderer()
	plan, err := renderer.RenderPlan(metadata, cfg)
	if err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	if err := renderer.WritePlan(plan, a.flags.planFile); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	fmt.Fprintf(a.stdout, "✓ Plan generated with %d invocations (%d named outputs)\n", len(plan.Invocations), len(render.Filenames(plan)))
	fmt.Fprintf(a.stdout, "✓ Saved to: %s\n", a.flags.planFile)

	viewer := render.NewPlanViewer(cfg, plan)
	switch a.flags.view {
	case "tree":
		fmt.Fprint(a.stdout, "\n"+viewer.ViewTree())
	case "list":
		fmt.Fprint(a.stdout, "\n"+viewer.ViewList())
	case "dump":
		fmt.Fprintln(a.stdout, "\n"+renderer.DebugDump(plan))
	}

	return nil
}
