package normalize

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/sourceplane/ccgen/internal/model"
	"github.com/sourceplane/ccgen/internal/optspec"
)

var (
	// ErrTooManyOptions is returned when more options are declared than the limit allows
	ErrTooManyOptions = errors.New("too many options")
	// ErrTooManyArgs is returned when more positional arguments are given than the limit allows
	ErrTooManyArgs = errors.New("too many arguments")
)

// Input is the command-line side of a run. Empty strings and zero limits
// mean "not given".
type Input struct {
	Backend     string
	Base        string
	Extension   string
	OptionSpecs []string // Raw -o values, in order
	Args        []string
	LogFile     string
	Limits      model.Limits
}

// NormalizeConfig merges an optional matrix file with command-line input into
// the run configuration. Command-line scalars win, command-line options and
// arguments are appended after the matrix ones.
func NormalizeConfig(matrix *model.Matrix, in Input) (*model.RunConfig, error) {
	var spec model.MatrixSpec
	if matrix != nil {
		spec = matrix.Spec
	}

	cfg := &model.RunConfig{
		Backend:    lo.CoalesceOrEmpty(in.Backend, spec.Backend, model.DefaultBackend),
		OutputBase: lo.CoalesceOrEmpty(in.Base, spec.Base),
		Extension:  lo.CoalesceOrEmpty(in.Extension, spec.Extension),
		LogFile:    in.LogFile,
		Limits:     mergeLimits(in.Limits, spec.Limits),
	}

	options := make([]model.Option, 0, len(spec.Options)+len(in.OptionSpecs))

	// Matrix options come first
	for i, mo := range spec.Options {
		opt, err := matrixOption(mo)
		if err != nil {
			return nil, fmt.Errorf("matrix option %d: %w", i+1, err)
		}
		options = append(options, opt)
	}

	for i, raw := range in.OptionSpecs {
		opt, err := optspec.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("option %d: %w", i+1, err)
		}
		options = append(options, opt)
	}

	if len(options) > cfg.Limits.MaxOptions {
		return nil, fmt.Errorf("%w: %d declared, limit is %d", ErrTooManyOptions, len(options), cfg.Limits.MaxOptions)
	}

	args := make([]string, 0, len(spec.Args)+len(in.Args))
	args = append(args, spec.Args...)
	args = append(args, in.Args...)
	if len(args) > cfg.Limits.MaxArgs {
		return nil, fmt.Errorf("%w: %d given, limit is %d", ErrTooManyArgs, len(args), cfg.Limits.MaxArgs)
	}

	cfg.Options = options
	cfg.Args = args

	return cfg, nil
}

// matrixOption converts a matrix file option into an Option
func matrixOption(mo model.MatrixOption) (model.Option, error) {
	if mo.Spec != nil {
		opt, err := optspec.Parse(*mo.Spec)
		if err != nil {
			return model.Option{}, err
		}
		opt.Name = mo.Name
		return opt, nil
	}

	opt := model.Option{Name: mo.Name, Values: mo.Values}
	if err := optspec.Validate(opt); err != nil {
		return model.Option{}, err
	}
	return opt, nil
}

// mergeLimits prefers command-line limits, then matrix limits, then defaults
func mergeLimits(flags, file model.Limits) model.Limits {
	return model.Limits{
		MaxOptions:        lo.CoalesceOrEmpty(flags.MaxOptions, file.MaxOptions),
		MaxArgs:           lo.CoalesceOrEmpty(flags.MaxArgs, file.MaxArgs),
		MaxCombinations:   lo.CoalesceOrEmpty(flags.MaxCombinations, file.MaxCombinations),
		MaxCommandLength:  lo.CoalesceOrEmpty(flags.MaxCommandLength, file.MaxCommandLength),
		MaxFilenameLength: lo.CoalesceOrEmpty(flags.MaxFilenameLength, file.MaxFilenameLength),
	}.WithDefaults()
}
