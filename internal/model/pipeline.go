package model

// Pipeline is the top-level CI descriptor for the package
type Pipeline struct {
	Name      string            `yaml:"name" json:"name"`
	Trigger   TriggerSpec       `yaml:"trigger" json:"trigger"`
	Schedules []Schedule        `yaml:"schedules" json:"schedules"`
	Variables map[string]string `yaml:"variables" json:"variables"`
	Defaults  Defaults          `yaml:"defaults" json:"defaults"`
	Stages    []Stage           `yaml:"stages" json:"stages"`
}

// TriggerSpec declares which refs instantiate the pipeline
type TriggerSpec struct {
	Branches FilterSet `yaml:"branches" json:"branches"`
	Tags     FilterSet `yaml:"tags" json:"tags"`
	PR       PRPolicy  `yaml:"pr" json:"pr"`
}

// FilterSet is an include/exclude wildcard pattern pair
type FilterSet struct {
	Include []string `yaml:"include" json:"include"`
	Exclude []string `yaml:"exclude" json:"exclude"`
}

// PRPolicy holds pull-request behavior declared for the orchestrator
type PRPolicy struct {
	CancelInProgress bool `yaml:"cancelInProgress" json:"cancelInProgress"` // supersede builds on newer commits
}

// Schedule declares a timed pipeline run
type Schedule struct {
	Cron        string    `yaml:"cron" json:"cron"`
	DisplayName string    `yaml:"displayName" json:"displayName"`
	Branches    FilterSet `yaml:"branches" json:"branches"`
}

// Defaults are shared settings every matrix entry inherits
type Defaults struct {
	Python     string `yaml:"python" json:"python"`         // default interpreter version
	Submodules bool   `yaml:"submodules" json:"submodules"` // checkout submodules
	Coverage   string `yaml:"coverage" json:"coverage"`     // coverage reporting backend
	Toxdeps    string `yaml:"toxdeps" json:"toxdeps"`       // dependency-resolution filter tool
	Posargs    string `yaml:"posargs" json:"posargs"`       // extra test-runner arguments (e.g. -n=4)
}

// Stage is a named group of jobs with explicit dependencies
type Stage struct {
	Name      string        `yaml:"name" json:"name"`
	DependsOn []string      `yaml:"dependsOn" json:"dependsOn"`
	Cron      bool          `yaml:"cron" json:"cron"` // only instantiated on scheduled runs
	Template  TemplateRef   `yaml:"template" json:"template"`
	Jobs      []MatrixEntry `yaml:"jobs" json:"jobs"`
	Release   *ReleaseSpec  `yaml:"release,omitempty" json:"release,omitempty"`
}

// TemplateRef names an external job template and its parameter bindings
type TemplateRef struct {
	Name       string                 `yaml:"name" json:"name"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"`
}

// MatrixEntry is one (platform, interpreter version, flags) combination
type MatrixEntry struct {
	OS        string    `yaml:"os" json:"os"`
	Python    string    `yaml:"python,omitempty" json:"python,omitempty"`
	Toxenv    string    `yaml:"toxenv" json:"toxenv"`
	Posargs   string    `yaml:"posargs,omitempty" json:"posargs,omitempty"`
	Libraries Libraries `yaml:"libraries,omitempty" json:"libraries,omitempty"`
	Docs      bool      `yaml:"docs,omitempty" json:"docs,omitempty"` // build documentation instead of running tests
	Pin       string    `yaml:"pin,omitempty" json:"pin,omitempty"`   // default, oldest, dev
}

// Libraries are extra system packages grouped by package manager
type Libraries struct {
	Apt []string `yaml:"apt,omitempty" json:"apt,omitempty"`
	Yum []string `yaml:"yum,omitempty" json:"yum,omitempty"`
}

// ReleaseSpec configures artifact building and the upload target
type ReleaseSpec struct {
	Artifacts      []string `yaml:"artifacts" json:"artifacts"` // wheel, sdist
	PyPIConnection string   `yaml:"pypiConnection" json:"pypiConnection"`
}

// NormalizedPipeline is the canonical internal representation
type NormalizedPipeline struct {
	Name       string
	Trigger    TriggerSpec
	Schedules  []Schedule
	Variables  map[string]string
	Defaults   Defaults
	Stages     []Stage
	StageIndex map[string]*Stage // for fast lookup by name
}

// PinStrategy selects how package dependencies are resolved
type PinStrategy string

const (
	PinDefault PinStrategy = "default"
	PinOldest  PinStrategy = "oldest" // lowest supported versions
	PinDev     PinStrategy = "dev"    // pre-release versions
)

// Job is the expanded form of a MatrixEntry for a specific stage
type Job struct {
	ID         string
	Stage      string
	Template   string
	OS         string
	Python     string
	Toxenv     string
	Command    []string // resolved test-runner argv
	Posargs    []string
	Coverage   string
	Toxdeps    string
	Submodules bool
	Libraries  Libraries
	Docs       bool
	Pin        PinStrategy
}
