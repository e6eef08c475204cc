package model

// DefaultBackend is the backend program used when none is configured
const DefaultBackend = "cc"

// OptionValue is one alternative an option may take
type OptionValue struct {
	Formal   string `yaml:"formal" json:"formal"`                         // Passed to the backend; empty contributes nothing
	Informal string `yaml:"informal,omitempty" json:"informal,omitempty"` // Output filename segment; empty contributes nothing
}

// Option is one configurable axis of backend behavior.
// Value order is the enumeration order.
type Option struct {
	Name   string        `yaml:"name,omitempty" json:"name,omitempty"`
	Values []OptionValue `yaml:"values" json:"values"`
}

// Limits bounds the size of a run. A zero field selects the default.
// Lengths are inclusive character counts.
type Limits struct {
	MaxOptions        int `yaml:"maxOptions,omitempty" json:"maxOptions,omitempty"`
	MaxArgs           int `yaml:"maxArgs,omitempty" json:"maxArgs,omitempty"`
	MaxCombinations   int `yaml:"maxCombinations,omitempty" json:"maxCombinations,omitempty"`
	MaxCommandLength  int `yaml:"maxCommandLength,omitempty" json:"maxCommandLength,omitempty"`
	MaxFilenameLength int `yaml:"maxFilenameLength,omitempty" json:"maxFilenameLength,omitempty"`
}

// DefaultLimits returns the limits applied when nothing else is configured
func DefaultLimits() Limits {
	return Limits{
		MaxOptions:        100,
		MaxArgs:           100,
		MaxCombinations:   10000,
		MaxCommandLength:  999,
		MaxFilenameLength: 49,
	}
}

// WithDefaults fills every zero field from DefaultLimits
func (l Limits) WithDefaults() Limits {
	def := DefaultLimits()
	if l.MaxOptions <= 0 {
		l.MaxOptions = def.MaxOptions
	}
	if l.MaxArgs <= 0 {
		l.MaxArgs = def.MaxArgs
	}
	if l.MaxCombinations <= 0 {
		l.MaxCombinations = def.MaxCombinations
	}
	if l.MaxCommandLength <= 0 {
		l.MaxCommandLength = def.MaxCommandLength
	}
	if l.MaxFilenameLength <= 0 {
		l.MaxFilenameLength = def.MaxFilenameLength
	}
	return l
}

// RunConfig holds the run-global settings. It is built once and not
// modified afterwards.
type RunConfig struct {
	Backend    string
	OutputBase string // Empty means no -o flag is emitted
	Extension  string // Only used together with OutputBase
	Options    []Option
	Args       []string // Forwarded verbatim to every invocation
	LogFile    string
	Limits     Limits
}

// HasOutput reports whether invocations name their output file explicitly
func (c *RunConfig) HasOutput() bool {
	return c.OutputBase != ""
}
