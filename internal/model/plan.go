package model

// Plan is the concrete job graph handed to the orchestrator
type Plan struct {
	APIVersion string      `json:"apiVersion" yaml:"apiVersion"`
	Kind       string      `json:"kind" yaml:"kind"`
	Name       string      `json:"name" yaml:"name"`
	Event      BuildEvent  `json:"event" yaml:"event"`
	Spec       PlanSpec    `json:"spec" yaml:"spec"`
	Stages     []PlanStage `json:"stages" yaml:"stages"`
}

// PlanSpec carries pipeline-level policy the orchestrator enforces
type PlanSpec struct {
	CancelInProgress bool              `json:"cancelInProgress" yaml:"cancelInProgress"`
	Variables        map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`
}

// PlanStage is one activated stage with its expanded jobs
type PlanStage struct {
	Name      string    `json:"name" yaml:"name"`
	DependsOn []string  `json:"dependsOn" yaml:"dependsOn"`
	Cron      bool      `json:"cron,omitempty" yaml:"cron,omitempty"`
	Jobs      []PlanJob `json:"jobs" yaml:"jobs"`
}

// PlanJob is the execution unit in the final plan
type PlanJob struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Stage      string     `json:"stage" yaml:"stage"`
	Template   string     `json:"template" yaml:"template"`
	OS         string     `json:"os,omitempty" yaml:"os,omitempty"`
	Python     string     `json:"python,omitempty" yaml:"python,omitempty"`
	Steps      []PlanStep `json:"steps" yaml:"steps"`
	Libraries  Libraries  `json:"libraries,omitempty" yaml:"libraries,omitempty"`
	Submodules bool       `json:"submodules,omitempty" yaml:"submodules,omitempty"`
	Coverage   string     `json:"coverage,omitempty" yaml:"coverage,omitempty"`
}

// PlanStep is a single command within a plan job
type PlanStep struct {
	Name string   `json:"name" yaml:"name"`
	Run  []string `json:"run" yaml:"run"`
}
