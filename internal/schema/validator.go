package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.schema.yaml
var schemaFS embed.FS

// Validator handles JSON schema validation of matrix and plan documents
type Validator struct {
	matrixSchema *jsonschema.Schema
	planSchema   *jsonschema.Schema
}

// NewValidator compiles the embedded schemas
func NewValidator() (*Validator, error) {
	v := &Validator{}

	matrixSchema, err := loadSchema("matrix")
	if err != nil {
		return nil, fmt.Errorf("failed to load matrix schema: %w", err)
	}
	v.matrixSchema = matrixSchema

	planSchema, err := loadSchema("plan")
	if err != nil {
		return nil, fmt.Errorf("failed to load plan schema: %w", err)
	}
	v.planSchema = planSchema

	return v, nil
}

// ValidateMatrix validates a raw matrix document (YAML or JSON)
func (v *Validator) ValidateMatrix(data []byte) error {
	if v.matrixSchema == nil {
		return fmt.Errorf("matrix schema not loaded")
	}
	return validate(v.matrixSchema, data)
}

// ValidatePlan validates a raw plan document (YAML or JSON)
func (v *Validator) ValidatePlan(data []byte) error {
	if v.planSchema == nil {
		return fmt.Errorf("plan schema not loaded")
	}
	return validate(v.planSchema, data)
}

func validate(schema *jsonschema.Schema, data []byte) error {
	doc, err := toJSONValue(data)
	if err != nil {
		return err
	}
	return schema.Validate(doc)
}

// toJSONValue parses YAML (a superset of JSON) and round-trips it through
// encoding/json so the validator sees plain JSON values
func toJSONValue(data []byte) (interface{}, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// loadSchema compiles one embedded schema file
func loadSchema(name string) (*jsonschema.Schema, error) {
	data, err := schemaFS.ReadFile(fmt.Sprintf("schemas/%s.schema.yaml", name))
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	// Parse YAML to interface{} (supports both YAML and JSON)
	var schemaData interface{}
	if err := yaml.Unmarshal(data, &schemaData); err != nil {
		return nil, fmt.Errorf("failed to parse schema file: %w", err)
	}

	// Convert to JSON for schema compiler
	jsonData, err := json.Marshal(schemaData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	url := fmt.Sprintf("ccgen://schemas/%s.schema.json", name)
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(string(jsonData))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return schema, nil
}
