package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sourceplane/ccgen/internal/model"
	"github.com/sourceplane/ccgen/internal/schema"
	"gopkg.in/yaml.v3"
)

var validator = sync.OnceValues(schema.NewValidator)

// LoadMatrix loads, validates and parses a matrix YAML file
func LoadMatrix(path string) (*model.Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read matrix file: %w", err)
	}
	return ParseMatrix(data)
}

// ParseMatrix validates and parses matrix file contents
func ParseMatrix(data []byte) (*model.Matrix, error) {
	v, err := validator()
	if err != nil {
		return nil, err
	}
	if err := v.ValidateMatrix(data); err != nil {
		return nil, fmt.Errorf("matrix failed schema validation: %w", err)
	}

	var matrix model.Matrix
	if err := yaml.Unmarshal(data, &matrix); err != nil {
		return nil, fmt.Errorf("failed to parse matrix YAML: %w", err)
	}

	return &matrix, nil
}

// LoadPlan loads a plan file written by the plan command (JSON or YAML)
func LoadPlan(path string) (*model.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %s: %w", path, err)
	}

	v, err := validator()
	if err != nil {
		return nil, err
	}
	if err := v.ValidatePlan(data); err != nil {
		return nil, fmt.Errorf("plan %s failed schema validation: %w", path, err)
	}

	var plan model.Plan
	ext := filepath.Ext(path)
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse YAML plan: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &plan); err != nil {
			if yamlErr := yaml.Unmarshal(data, &plan); yamlErr != nil {
				return nil, fmt.Errorf("failed to parse plan file as JSON or YAML: %w", err)
			}
		}
	}

	return &plan, nil
}
