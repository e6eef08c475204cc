package main

import (
	"fmt"

	"github.com/sourceplane/ccgen/internal/expand"
	"github.com/spf13/cobra"
)

func registerDebugFlags(root *cobra.Command, a *app) {
	root.Flags().BoolVar(&a.flags.debugConfig, "debug-config", false, "Show the normalized run configuration and exit")
}

// debugConfig prints the normalized configuration and the combination count
func (a *app) debugConfig(args []string) error {
	cfg, metadata, err := a.loadConfig(args)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Metadata: %+v\n", metadata)
	fmt.Fprintf(a.stdout, "Backend: %s\n", cfg.Backend)
	if cfg.HasOutput() {
		fmt.Fprintf(a.stdout, "Output: base=%s, extension=%q\n", cfg.OutputBase, cfg.Extension)
	} else {
		fmt.Fprintln(a.stdout, "Output: backend default")
	}
	fmt.Fprintf(a.stdout, "Args: %q\n", cfg.Args)
	fmt.Fprintf(a.stdout, "Limits: %+v\n", cfg.Limits)

	fmt.Fprintf(a.stdout, "Options: %d\n", len(cfg.Options))
	for i, opt := range cfg.Options {
		name := opt.Name
		if name == "" {
			name = fmt.Sprintf("option %d", i+1)
		}
		fmt.Fprintf(a.stdout, "  - %s: %d values\n", name, len(opt.Values))
		for _, v := range opt.Values {
			fmt.Fprintf(a.stdout, "      formal=%q informal=%q\n", v.Formal, v.Informal)
		}
	}

	count, err := expand.NewExpander(cfg.Options, cfg.Limits.MaxCombinations).Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Combinations: %d\n", count)

	return nil
}
