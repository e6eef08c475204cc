package main

import (
	"fmt"

	"github.com/sourceplane/ccgen/internal/render"
	"github.com/spf13/cobra"
)

func registerValidateFlags(root *cobra.Command, a *app) {
	root.Flags().BoolVar(&a.flags.validate, "validate", false, "Validate the matrix file and the commands it renders, then exit")
}

func (a *app) validateMatrix(args []string) error {
	if a.flags.matrixFile == "" {
		return fmt.Errorf("--matrix is required")
	}

	fmt.Fprintln(a.stdout, "□ Validating matrix...")
	cfg, metadata, err := a.loadConfig(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "✓ Matrix is valid")

	fmt.Fprintln(a.stdout, "□ Rendering invocations...")
	plan, err := render.NewRenderer().RenderPlan(metadata, cfg)
	if err != nil {
		return fmt.Errorf("rendering failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "✓ All validation passed (%d invocations)\n", len(plan.Invocations))
	return nil
}
