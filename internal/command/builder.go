// Package command renders backend command lines and output filenames for
// individual combinations.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/sourceplane/ccgen/internal/model"
)

// ErrRenderOverflow is returned when a rendered command line or filename
// exceeds its configured length
var ErrRenderOverflow = errors.New("render overflow")

// OverflowError reports which rendered string exceeded its limit
type OverflowError struct {
	What   string // "command line" or "output filename"
	Length int
	Limit  int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s is %d characters long, limit is %d", e.What, e.Length, e.Limit)
}

func (e *OverflowError) Is(target error) bool {
	return target == ErrRenderOverflow
}

// Builder renders invocations for one run configuration
type Builder struct {
	cfg     *model.RunConfig
	limits  model.Limits
	backend []string
}

// NewBuilder creates a builder. The backend name may carry several words,
// e.g. "ccache gcc".
func NewBuilder(cfg *model.RunConfig) (*Builder, error) {
	if cfg == nil {
		return nil, fmt.Errorf("run config cannot be nil")
	}

	backend, err := shellquote.Split(cfg.Backend)
	if err != nil {
		return nil, fmt.Errorf("failed to split backend %q: %w", cfg.Backend, err)
	}
	if len(backend) == 0 {
		return nil, fmt.Errorf("backend cannot be empty")
	}

	return &Builder{
		cfg:     cfg,
		limits:  cfg.Limits.WithDefaults(),
		backend: backend,
	}, nil
}

// Build renders the invocation for the selected values, one per option in
// declared order. A formal name is split on whitespace into argv words. The
// command line is the shell-quoted form of the argv that is executed.
func (b *Builder) Build(index int, selection []model.OptionValue) (model.Invocation, error) {
	inv := model.Invocation{Index: index}

	argv := append([]string{}, b.backend...)
	for _, value := range selection {
		argv = append(argv, strings.Fields(value.Formal)...)
	}

	if b.cfg.HasOutput() {
		file, err := b.Filename(selection)
		if err != nil {
			return model.Invocation{}, err
		}
		inv.OutputFile = file
		argv = append(argv, "-o", file)
	}

	argv = append(argv, b.cfg.Args...)

	line := shellquote.Join(argv...)
	if len(line) > b.limits.MaxCommandLength {
		return model.Invocation{}, &OverflowError{What: "command line", Length: len(line), Limit: b.limits.MaxCommandLength}
	}

	inv.CommandLine = line
	inv.Args = argv
	return inv, nil
}

// Filename renders the output filename: base, then "_" + informal name for
// every labelled value, then "." + extension. It returns an empty name when
// no output base is configured.
func (b *Builder) Filename(selection []model.OptionValue) (string, error) {
	if !b.cfg.HasOutput() {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(b.cfg.OutputBase)
	for _, value := range selection {
		if value.Informal != "" {
			sb.WriteString("_")
			sb.WriteString(value.Informal)
		}
	}
	if b.cfg.Extension != "" {
		sb.WriteString(".")
		sb.WriteString(b.cfg.Extension)
	}

	name := sb.String()
	if len(name) > b.limits.MaxFilenameLength {
		return "", &OverflowError{What: "output filename", Length: len(name), Limit: b.limits.MaxFilenameLength}
	}
	return name, nil
}
