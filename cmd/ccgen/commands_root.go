package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sourceplane/ccgen/internal/ctxlog"
	"github.com/sourceplane/ccgen/internal/loader"
	"github.com/sourceplane/ccgen/internal/logger"
	"github.com/sourceplane/ccgen/internal/model"
	"github.com/sourceplane/ccgen/internal/normalize"
	"github.com/sourceplane/ccgen/internal/runner"
	"github.com/spf13/cobra"
)

const version = "1.0"

var (
	errUnknownFlag    = errors.New("unrecognized option")
	errMissingOperand = errors.New("missing operand")
	errNoArguments    = errors.New("no arguments given")
)

type invokerFactory func(stdout, stderr io.Writer) runner.Invoker

// rootFlags holds every flag of the command line
type rootFlags struct {
	base        string
	backend     string
	extension   string
	optionSpecs []string
	logFile     string
	matrixFile  string
	logLevel    string
	logFormat   string
	dryRun      bool
	limits      model.Limits

	planFile    string
	view        string
	runPlan     string
	validate    bool
	debugConfig bool
}

// app wires one command-line execution to its output streams
type app struct {
	flags      rootFlags
	stdout     io.Writer
	stderr     io.Writer
	logFile    *os.File
	logger     *slog.Logger
	newInvoker invokerFactory
}

func newApp(stdout, stderr io.Writer, invoker invokerFactory) *app {
	return &app{
		stdout:     stdout,
		stderr:     stderr,
		newInvoker: invoker,
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	root := a.newRootCommand()
	if len(args) == 0 {
		root.SetOut(a.stderr)
		_ = root.Usage()
		return errNoArguments
	}

	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "ccgen [flags] [--] [args]...",
		Short: "Run a backend once per combination of option values",
		Long: `ccgen is a frontend to a customizable backend, usually a compiler.
Every -o flag declares one option as comma-separated formal/informal name
pairs. The backend is run once for every combination of option values, and
the output file of each run is named after the informal names chosen.
Every positional argument is passed to the backend unchanged.

  ccgen -b source -e o -o -c -o "-g,debug,,nodebug" -o "-m32,32,-m64,64" source.c

Formal names are split on whitespace into backend arguments. Quotes and
backslashes are passed through as ordinary characters.`,
		Version:           version,
		Args:              cobra.ArbitraryArgs,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.dispatch,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	root.SetFlagErrorFunc(flagError)
	root.CompletionOptions.DisableDefaultCmd = true

	pf := root.PersistentFlags()
	pf.StringVarP(&a.flags.base, "base", "b", "", "Output file base name (default: backend's own output naming)")
	pf.StringVarP(&a.flags.backend, "backend", "x", "", "Backend program to run (default \"cc\")")
	pf.StringVarP(&a.flags.extension, "ext", "e", "", "Output file extension, used together with --base")
	pf.StringArrayVarP(&a.flags.optionSpecs, "option", "o", nil, "Option specification: formal[,informal[,formal[,informal]...]] (repeatable)")
	pf.StringVarP(&a.flags.logFile, "log-file", "l", "", "Send all output to this file")
	pf.StringVarP(&a.flags.matrixFile, "matrix", "m", "", "Matrix YAML file declaring backend, options and arguments")
	pf.StringVar(&a.flags.logLevel, "log-level", "warn", "Diagnostic log level (debug/info/warn/error)")
	pf.StringVar(&a.flags.logFormat, "log-format", "text", "Diagnostic log format (text/json)")
	pf.IntVar(&a.flags.limits.MaxCombinations, "max-combinations", 0, "Maximum number of backend invocations (default 10000)")
	pf.IntVar(&a.flags.limits.MaxCommandLength, "max-command-len", 0, "Maximum length of a rendered command line (default 999)")
	pf.IntVar(&a.flags.limits.MaxFilenameLength, "max-filename-len", 0, "Maximum length of a rendered output filename (default 49)")

	root.Flags().BoolVarP(&a.flags.dryRun, "dry-run", "n", false, "Print the commands without running the backend")

	registerPlanFlags(root, a)
	registerRunFlags(root, a)
	registerValidateFlags(root, a)
	registerDebugFlags(root, a)
	root.MarkFlagsMutuallyExclusive("plan-file", "run-plan", "validate", "debug-config")

	return root
}

// setup redirects output to the log file and builds the diagnostic logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.flags.logFile != "" {
		f, err := os.Create(a.flags.logFile)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		a.logFile = f
		a.stdout = f
		a.stderr = f
		cmd.SetOut(f)
		cmd.SetErr(f)
	}

	l, err := logger.New(a.flags.logLevel, a.flags.logFormat, a.stderr)
	if err != nil {
		return err
	}
	a.logger = l
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// context attaches the diagnostic logger to the command context
func (a *app) context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxlog.WithLogger(ctx, a.logger)
}

// loadConfig merges the matrix file, flags and positional arguments
func (a *app) loadConfig(args []string) (*model.RunConfig, model.Metadata, error) {
	metadata := model.Metadata{Name: "ccgen"}

	var matrix *model.Matrix
	if a.flags.matrixFile != "" {
		m, err := loader.LoadMatrix(a.flags.matrixFile)
		if err != nil {
			return nil, metadata, fmt.Errorf("failed to load matrix %s: %w", a.flags.matrixFile, err)
		}
		matrix = m
		if m.Metadata.Name != "" {
			metadata = m.Metadata
		}
	}

	cfg, err := normalize.NormalizeConfig(matrix, normalize.Input{
		Backend:     a.flags.backend,
		Base:        a.flags.base,
		Extension:   a.flags.extension,
		OptionSpecs: a.flags.optionSpecs,
		Args:        args,
		LogFile:     a.flags.logFile,
		Limits:      a.flags.limits,
	})
	if err != nil {
		return nil, metadata, err
	}

	return cfg, metadata, nil
}

// dispatch selects the mode requested by the mode flags. Positional
// arguments always belong to the backend.
func (a *app) dispatch(cmd *cobra.Command, args []string) error {
	if a.flags.view != "" && a.flags.planFile == "" {
		return fmt.Errorf("--view requires --plan-file")
	}

	switch {
	case a.flags.planFile != "":
		return a.writePlan(args)
	case a.flags.runPlan != "":
		return a.runSavedPlan(cmd, args)
	case a.flags.validate:
		return a.validateMatrix(args)
	case a.flags.debugConfig:
		return a.debugConfig(args)
	default:
		return a.runCombinations(cmd, args)
	}
}

func (a *app) runCombinations(cmd *cobra.Command, args []string) error {
	cfg, _, err := a.loadConfig(args)
	if err != nil {
		return err
	}

	r := runner.NewRunner(a.stdout, a.newInvoker(a.stdout, a.stderr), a.flags.dryRun)
	summary, err := r.Run(a.context(cmd), cfg)
	if err != nil {
		return err
	}

	a.logger.Info("run complete", "invocations", summary.Invocations, "failed", summary.Failed)
	return nil
}

// flagError classifies pflag parse errors. The prefixes are the messages of
// pflag v1.0.5 (flag.go failf calls).
func flagError(cmd *cobra.Command, err error) error {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "unknown flag"), strings.HasPrefix(msg, "unknown shorthand flag"):
		return fmt.Errorf("%w: %s", errUnknownFlag, msg)
	case strings.HasPrefix(msg, "flag needs an argument"):
		return fmt.Errorf("%w: %s", errMissingOperand, msg)
	default:
		return err
	}
}
