package render

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/sourceplane/ccgen/internal/model"
)

// PlanViewer provides human-readable views of a run
type PlanViewer struct {
	cfg  *model.RunConfig
	plan *model.Plan
}

// NewPlanViewer creates a viewer for a configuration and the plan rendered from it
func NewPlanViewer(cfg *model.RunConfig, plan *model.Plan) *PlanViewer {
	return &PlanViewer{cfg: cfg, plan: plan}
}

// ViewTree returns the choice tree: one level per option, one leaf per
// invocation, in enumeration order
func (pv *PlanViewer) ViewTree() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%d invocations)\n", pv.cfg.Backend, len(pv.plan.Invocations))

	leaf := 0
	var walk func(axis int, prefix string)
	walk = func(axis int, prefix string) {
		if axis == len(pv.cfg.Options) {
			if leaf < len(pv.plan.Invocations) {
				fmt.Fprintf(&sb, "%s└─ %s\n", prefix, pv.plan.Invocations[leaf].CommandLine)
			}
			leaf++
			return
		}

		opt := pv.cfg.Options[axis]
		for i, value := range opt.Values {
			isLast := i == len(opt.Values)-1
			branch, indent := "├─ ", "│  "
			if isLast {
				branch, indent = "└─ ", "   "
			}
			fmt.Fprintf(&sb, "%s%s%s: %s\n", prefix, branch, optionLabel(opt, axis), valueLabel(value))
			walk(axis+1, prefix+indent)
		}
	}
	walk(0, "")

	return sb.String()
}

// ViewList returns one line per invocation: index, output file and command
func (pv *PlanViewer) ViewList() string {
	if len(pv.plan.Invocations) == 0 {
		return "No invocations in plan"
	}

	width := lo.Max(lo.Map(pv.plan.Invocations, func(inv model.Invocation, _ int) int {
		return len(inv.OutputFile)
	}))
	if width == 0 {
		width = len("-")
	}

	var sb strings.Builder
	for _, inv := range pv.plan.Invocations {
		out := lo.Ternary(inv.OutputFile == "", "-", inv.OutputFile)
		fmt.Fprintf(&sb, "%3d  %-*s  %s\n", inv.Index+1, width, out, inv.CommandLine)
	}
	return sb.String()
}

func optionLabel(opt model.Option, axis int) string {
	if opt.Name != "" {
		return opt.Name
	}
	return fmt.Sprintf("option %d", axis+1)
}

func valueLabel(value model.OptionValue) string {
	formal := lo.Ternary(value.Formal == "", "(none)", value.Formal)
	if value.Informal == "" {
		return formal
	}
	return fmt.Sprintf("%s [%s]", formal, value.Informal)
}

// Filenames lists the output file of every invocation, skipping unnamed ones
func Filenames(plan *model.Plan) []string {
	return lo.FilterMap(plan.Invocations, func(inv model.Invocation, _ int) (string, bool) {
		return inv.OutputFile, inv.OutputFile != ""
	})
}
