package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/EdBehn/sunraster/internal/model"
	"gopkg.in/yaml.v3"
)

// Renderer serializes plans to files and debug output
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON renders a plan as JSON
func (r *Renderer) RenderJSON(plan *model.Plan) ([]byte, error) {
	return json.MarshalIndent(plan, "", "  ")
}

// RenderYAML renders a plan as YAML
func (r *Renderer) RenderYAML(plan *model.Plan) ([]byte, error) {
	return yaml.Marshal(plan)
}

// WritePlan writes a plan to file (JSON or YAML based on extension)
func (r *Renderer) WritePlan(plan *model.Plan, path string) error {
	var data []byte
	var err error

	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = r.RenderYAML(plan)
	default:
		data, err = r.RenderJSON(plan)
	}

	if err != nil {
		return fmt.Errorf("failed to render plan: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write plan to %s: %w", path, err)
	}

	return nil
}

// DebugDump outputs debug information about a plan
func (r *Renderer) DebugDump(plan *model.Plan) string {
	output := fmt.Sprintf("Plan: %s (event %s, reason %s)\n", plan.Name, plan.Event.Ref, plan.Event.Reason)
	output += fmt.Sprintf("Stages: %d\n\n", len(plan.Stages))

	for _, stage := range plan.Stages {
		output += fmt.Sprintf("Stage: %s\n", stage.Name)
		output += fmt.Sprintf("  DependsOn: %v\n", stage.DependsOn)
		output += fmt.Sprintf("  Cron: %v\n", stage.Cron)
		output += fmt.Sprintf("  Jobs: %d\n", len(stage.Jobs))
		for _, job := range stage.Jobs {
			output += fmt.Sprintf("    %s (%d steps)\n", job.ID, len(job.Steps))
		}
		output += "\n"
	}

	return output
}
