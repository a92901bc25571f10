package schema

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.schema.yaml
var schemaFS embed.FS

// Validator handles JSON schema validation of descriptor documents
type Validator struct {
	pipelineSchema *jsonschema.Schema
	eventSchema    *jsonschema.Schema
}

// NewValidator compiles the embedded schemas
func NewValidator() (*Validator, error) {
	v := &Validator{}

	pipelineSchema, err := loadSchema("schemas/pipeline.schema.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline schema: %w", err)
	}
	v.pipelineSchema = pipelineSchema

	eventSchema, err := loadSchema("schemas/event.schema.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load event schema: %w", err)
	}
	v.eventSchema = eventSchema

	return v, nil
}

// ValidatePipeline validates a pipeline descriptor document against the schema
func (v *Validator) ValidatePipeline(data interface{}) error {
	if v.pipelineSchema == nil {
		return fmt.Errorf("pipeline schema not loaded")
	}
	return v.pipelineSchema.Validate(data)
}

// ValidateEvent validates a build-event document
func (v *Validator) ValidateEvent(data interface{}) error {
	if v.eventSchema == nil {
		return fmt.Errorf("event schema not loaded")
	}
	return v.eventSchema.Validate(data)
}

// loadSchema reads and compiles an embedded schema file (JSON or YAML)
func loadSchema(path string) (*jsonschema.Schema, error) {
	data, err := schemaFS.ReadFile(path)
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

	schema, err := jsonschema.CompileString(fmt.Sprintf("sunraster://%s", path), string(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return schema, nil
}
