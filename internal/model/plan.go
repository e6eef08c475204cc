package model

const (
	APIVersion = "ccgen.sourceplane.io/v1"
	KindMatrix = "Matrix"
	KindPlan   = "Plan"
)

// Plan is the rendered list of every invocation of a run
type Plan struct {
	APIVersion  string       `yaml:"apiVersion" json:"apiVersion"`
	Kind        string       `yaml:"kind" json:"kind"`
	Metadata    Metadata     `yaml:"metadata" json:"metadata"`
	Spec        PlanSpec     `yaml:"spec" json:"spec"`
	Invocations []Invocation `yaml:"invocations" json:"invocations"`
}

// PlanSpec records the configuration a plan was rendered from
type PlanSpec struct {
	Backend   string   `yaml:"backend" json:"backend"`
	Base      string   `yaml:"base,omitempty" json:"base,omitempty"`
	Extension string   `yaml:"extension,omitempty" json:"extension,omitempty"`
	Options   []Option `yaml:"options" json:"options"`
	Args      []string `yaml:"args" json:"args"`
}

// Invocation is one fully rendered backend call
type Invocation struct {
	Index       int      `yaml:"index" json:"index"`
	Args        []string `yaml:"args" json:"args"`               // argv, program first
	CommandLine string   `yaml:"commandLine" json:"commandLine"` // Space-joined form used for logging
	OutputFile  string   `yaml:"outputFile,omitempty" json:"outputFile,omitempty"`
}
