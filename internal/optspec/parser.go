// Package optspec parses comma-separated option specifications.
//
// A spec lists formal/informal name pairs: "-g,debug,,nodebug" declares two
// values, "-g" labelled "debug" and an empty formal name labelled "nodebug".
// Fields are never trimmed, quoted or escaped, so a literal comma cannot
// appear inside a field. Quote characters and backslashes are ordinary text.
package optspec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sourceplane/ccgen/internal/model"
)

// ErrMalformedSpec is returned for option specs that cannot be parsed
var ErrMalformedSpec = errors.New("malformed option spec")

// SpecError describes why a raw spec was rejected
type SpecError struct {
	Raw    string
	Reason string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("malformed option spec %q: %s", e.Raw, e.Reason)
}

func (e *SpecError) Is(target error) bool {
	return target == ErrMalformedSpec
}

// Parse converts one raw spec into an Option
func Parse(raw string) (model.Option, error) {
	if raw == "" {
		return model.Option{}, &SpecError{Raw: raw, Reason: "option must declare at least one value"}
	}

	fields := strings.Split(raw, ",")
	values := make([]model.OptionValue, 0, (len(fields)+1)/2)

	for i := 0; i < len(fields); i += 2 {
		value := model.OptionValue{Formal: fields[i]}
		if i+1 < len(fields) {
			value.Informal = fields[i+1]
		}
		values = append(values, value)
	}

	return model.Option{Values: values}, nil
}

// Validate checks an already structured option, e.g. one declared in a
// matrix file
func Validate(opt model.Option) error {
	if len(opt.Values) == 0 {
		return fmt.Errorf("%w: option %q must declare at least one value", ErrMalformedSpec, opt.Name)
	}
	return nil
}
