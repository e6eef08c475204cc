package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sourceplane/ccgen/internal/command"
	"github.com/sourceplane/ccgen/internal/expand"
	"github.com/sourceplane/ccgen/internal/model"
	"gopkg.in/yaml.v3"
)

// Renderer materializes a run configuration into a Plan
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderPlan renders every invocation of cfg in enumeration order
func (r *Renderer) RenderPlan(metadata model.Metadata, cfg *model.RunConfig) (*model.Plan, error) {
	builder, err := command.NewBuilder(cfg)
	if err != nil {
		return nil, err
	}

	expander := expand.NewExpander(cfg.Options, cfg.Limits.WithDefaults().MaxCombinations)
	count, err := expander.Count()
	if err != nil {
		return nil, err
	}

	plan := &model.Plan{
		APIVersion: model.APIVersion,
		Kind:       model.KindPlan,
		Metadata:   metadata,
		Spec: model.PlanSpec{
			Backend:   cfg.Backend,
			Base:      cfg.OutputBase,
			Extension: cfg.Extension,
			Options:   cfg.Options,
			Args:      cfg.Args,
		},
		Invocations: make([]model.Invocation, 0, count),
	}

	err = expander.Walk(func(c expand.Combination) error {
		inv, err := builder.Build(c.Index, c.Values)
		if err != nil {
			return fmt.Errorf("combination %d: %w", c.Index+1, err)
		}
		plan.Invocations = append(plan.Invocations, inv)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return plan, nil
}

// RenderJSON renders plan as JSON
func (r *Renderer) RenderJSON(plan *model.Plan) ([]byte, error) {
	return json.MarshalIndent(plan, "", "  ")
}

// RenderYAML renders plan as YAML
func (r *Renderer) RenderYAML(plan *model.Plan) ([]byte, error) {
	return yaml.Marshal(plan)
}

// WritePlan writes plan to file (JSON or YAML based on extension)
func (r *Renderer) WritePlan(plan *model.Plan, path string) error {
	var data []byte
	var err error

	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = r.RenderYAML(plan)
	default:
		data, err = r.RenderJSON(plan)
	}
	if err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan to %s: %w", path, err)
	}

	return nil
}

// DebugDump outputs debug information about the plan
func (r *Renderer) DebugDump(plan *model.Plan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Plan: %s\n", plan.Metadata.Name)
	fmt.Fprintf(&sb, "Backend: %s\n", plan.Spec.Backend)
	fmt.Fprintf(&sb, "Options: %d\n", len(plan.Spec.Options))
	fmt.Fprintf(&sb, "Invocations: %d\n\n", len(plan.Invocations))

	for _, inv := range plan.Invocations {
		fmt.Fprintf(&sb, "Invocation: %d\n", inv.Index)
		fmt.Fprintf(&sb, "  Args: %q\n", inv.Args)
		if inv.OutputFile != "" {
			fmt.Fprintf(&sb, "  Output: %s\n", inv.OutputFile)
		}
	}

	return sb.String()
}
