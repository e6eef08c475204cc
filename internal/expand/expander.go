package expand

import (
	"errors"
	"fmt"
	"math"

	"github.com/sourceplane/ccgen/internal/model"
)

// ErrTooManyCombinations is returned when the Cartesian product exceeds the
// configured ceiling
var ErrTooManyCombinations = errors.New("too many combinations")

// Combination selects exactly one value per option
type Combination struct {
	Index   int                 // Position in enumeration order
	Choices []int               // Selected value index per option
	Values  []model.OptionValue // Selected value per option
}

// Expander enumerates option × option × ... combinations
type Expander struct {
	options []model.Option
	max     int
}

// NewExpander creates a new expander. maxCombinations <= 0 disables the ceiling.
func NewExpander(options []model.Option, maxCombinations int) *Expander {
	return &Expander{
		options: options,
		max:     maxCombinations,
	}
}

// Count returns the number of combinations, failing if it exceeds the ceiling
func (e *Expander) Count() (int, error) {
	total := 1
	for i, opt := range e.options {
		n := len(opt.Values)
		if n == 0 {
			return 0, fmt.Errorf("option %d declares no values", i)
		}
		if total > math.MaxInt/n {
			return 0, fmt.Errorf("%w: product of %d options overflows", ErrTooManyCombinations, len(e.options))
		}
		total *= n
		if e.max > 0 && total > e.max {
			return 0, fmt.Errorf("%w: product exceeds limit of %d", ErrTooManyCombinations, e.max)
		}
	}
	return total, nil
}

// Walk visits every combination depth-first: option 0 varies slowest and the
// last option varies fastest. With no options exactly one empty combination
// is visited. A visitor error stops the walk and is returned.
func (e *Expander) Walk(visit func(Combination) error) error {
	if _, err := e.Count(); err != nil {
		return err
	}

	w := &walker{
		options: e.options,
		current: make([]int, len(e.options)),
		visit:   visit,
	}
	return w.walk(0)
}

// walker owns the selection vector for a single Walk
type walker struct {
	options []model.Option
	current []int
	index   int
	visit   func(Combination) error
}

func (w *walker) walk(axis int) error {
	if axis == len(w.options) {
		combo := w.snapshot()
		w.index++
		return w.visit(combo)
	}

	for i := range w.options[axis].Values {
		w.current[axis] = i
		if err := w.walk(axis + 1); err != nil {
			return err
		}
	}
	return nil
}

// snapshot copies the selection so visitors never see later mutations
func (w *walker) snapshot() Combination {
	choices := make([]int, len(w.current))
	copy(choices, w.current)

	values := make([]model.OptionValue, len(w.current))
	for axis, choice := range choices {
		values[axis] = w.options[axis].Values[choice]
	}

	return Combination{
		Index:   w.index,
		Choices: choices,
		Values:  values,
	}
}
