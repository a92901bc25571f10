package loader

import (
	"fmt"
	"os"

	"github.com/EdBehn/sunraster/internal/model"
	"gopkg.in/yaml.v3"
)

// LoadPipeline loads and parses a pipeline descriptor YAML file
func LoadPipeline(path string) (*model.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline file: %w", err)
	}
	return ParsePipeline(data)
}

// ParsePipeline parses descriptor YAML content
func ParsePipeline(data []byte) (*model.Pipeline, error) {
	var pipeline model.Pipeline
	if err := yaml.Unmarshal(data, &pipeline); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline YAML: %w", err)
	}
	return &pipeline, nil
}

// LoadDocument loads a YAML file into a generic document for schema validation
func LoadDocument(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return doc, nil
}

// LoadEvent loads build-event metadata from a YAML file
func LoadEvent(path string) (*model.BuildEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event file: %w", err)
	}

	var event model.BuildEvent
	if err := yaml.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("failed to parse event YAML: %w", err)
	}

	return &event, nil
}
