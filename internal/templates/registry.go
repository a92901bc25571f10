package templates

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/EdBehn/sunraster/internal/model"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Definition describes one external job template
type Definition struct {
	Name        string                 `yaml:"name" json:"name"`
	Description string                 `yaml:"description" json:"description"`
	Defaults    map[string]interface{} `yaml:"defaults" json:"defaults"`
}

// Template pairs a loaded definition with its compiled parameter schema
type Template struct {
	Name       string
	Definition *Definition
	Schema     *jsonschema.Schema
}

// Registry holds all known external job templates
type Registry struct {
	Types map[string]*Template
}

// LoadFromDir loads template definitions and parameter schemas from a config
// directory. Each immediate subdirectory holds a template.yaml and a
// schema.yaml; the directory name is the template name referenced by stages.
func LoadFromDir(configDir string) (*Registry, error) {
	info, err := os.Stat(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to access template directory %s: %w", configDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template path is not a directory: %s", configDir)
	}

	entries, err := os.ReadDir(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", configDir, err)
	}

	registry := &Registry{Types: make(map[string]*Template)}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		typeName := entry.Name()
		typeDir := filepath.Join(configDir, typeName)

		defPath := filepath.Join(typeDir, "template.yaml")
		if _, err := os.Stat(defPath); err != nil {
			continue
		}

		schemaPath := filepath.Join(typeDir, "schema.yaml")
		if _, err := os.Stat(schemaPath); err != nil {
			return nil, fmt.Errorf("missing schema.yaml for template %s (definition at %s)", typeName, defPath)
		}

		tmpl, err := loadTemplate(typeName, defPath, schemaPath)
		if err != nil {
			return nil, err
		}
		registry.Types[typeName] = tmpl
	}

	if len(registry.Types) == 0 {
		return nil, fmt.Errorf("no template definitions found in config path: %s", configDir)
	}

	return registry, nil
}

func loadTemplate(typeName, defPath, schemaPath string) (*Template, error) {
	defData, err := os.ReadFile(defPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template definition for %s: %w", typeName, err)
	}

	var def Definition
	if err := yaml.Unmarshal(defData, &def); err != nil {
		return nil, fmt.Errorf("failed to parse template definition for %s: %w", typeName, err)
	}
	if def.Name == "" {
		def.Name = typeName
	}

	schemaData, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema definition for %s: %w", typeName, err)
	}

	// Parse YAML to interface{} (supports both YAML and JSON)
	var schemaObj interface{}
	if err := yaml.Unmarshal(schemaData, &schemaObj); err != nil {
		return nil, fmt.Errorf("failed to parse schema file for %s: %w", typeName, err)
	}

	jsonData, err := json.Marshal(schemaObj)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema for %s: %w", typeName, err)
	}

	schemaURI := fmt.Sprintf("templates://%s/schema.json", typeName)
	compiler := jsonschema.NewCompiler()
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		if url == schemaURI {
			return io.NopCloser(strings.NewReader(string(jsonData))), nil
		}
		return nil, fmt.Errorf("external schema reference not supported: %s", url)
	}

	schema, err := compiler.Compile(schemaURI)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema for template %s: %w", typeName, err)
	}

	return &Template{
		Name:       typeName,
		Definition: &def,
		Schema:     schema,
	}, nil
}

// ValidateStage checks a stage's template reference and parameter bindings
// against the referenced template's schema. Template defaults fill parameters
// the stage leaves unset.
func (reg *Registry) ValidateStage(stage *model.Stage) error {
	tmpl, exists := reg.Types[stage.Template.Name]
	if !exists {
		return fmt.Errorf("stage %s references unknown template: %s", stage.Name, stage.Template.Name)
	}

	if tmpl.Schema == nil {
		return fmt.Errorf("schema not loaded for template: %s", stage.Template.Name)
	}

	params := make(map[string]interface{}, len(tmpl.Definition.Defaults)+len(stage.Template.Parameters))
	for k, v := range tmpl.Definition.Defaults {
		params[k] = v
	}
	for k, v := range stage.Template.Parameters {
		params[k] = v
	}

	if err := tmpl.Schema.Validate(params); err != nil {
		return fmt.Errorf("stage %s failed validation against template %s: %w", stage.Name, stage.Template.Name, err)
	}

	return nil
}

// ValidateAllStages validates every stage of a normalized pipeline
func (reg *Registry) ValidateAllStages(p *model.NormalizedPipeline) error {
	for i := range p.Stages {
		if err := reg.ValidateStage(&p.Stages[i]); err != nil {
			return err
		}
	}
	return nil
}
