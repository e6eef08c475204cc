package model

// Metadata holds standard object metadata
type Metadata struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Matrix is the declarative file form of a run
type Matrix struct {
	APIVersion string     `yaml:"apiVersion" json:"apiVersion"`
	Kind       string     `yaml:"kind" json:"kind"`
	Metadata   Metadata   `yaml:"metadata" json:"metadata"`
	Spec       MatrixSpec `yaml:"spec" json:"spec"`
}

// MatrixSpec declares the backend, output naming and options of a matrix
type MatrixSpec struct {
	Backend   string         `yaml:"backend" json:"backend"`
	Base      string         `yaml:"base" json:"base"`
	Extension string         `yaml:"extension" json:"extension"`
	Args      []string       `yaml:"args" json:"args"`
	Options   []MatrixOption `yaml:"options" json:"options"`
	Limits    Limits         `yaml:"limits" json:"limits"`
}

// MatrixOption declares an option either as explicit values or as a raw
// comma-separated spec string
type MatrixOption struct {
	Name   string        `yaml:"name" json:"name"`
	Spec   *string       `yaml:"spec" json:"spec"`
	Values []OptionValue `yaml:"values" json:"values"`
}
