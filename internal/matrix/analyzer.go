package matrix

import (
	"fmt"
	"sort"

	"github.com/EdBehn/sunraster/internal/model"
)

// Analyzer provides merged views of the expanded matrix for inspection
type Analyzer struct {
	pipeline *model.NormalizedPipeline
	expander *Expander
	byStage  map[string][]model.Job
}

// NewAnalyzer creates an analyzer over a normalized pipeline
func NewAnalyzer(p *model.NormalizedPipeline) *Analyzer {
	return &Analyzer{
		pipeline: p,
		expander: NewExpander(p),
	}
}

// StageMatrix is the expanded matrix of one stage
type StageMatrix struct {
	Stage     string
	DependsOn []string
	Cron      bool
	Jobs      []model.Job
}

// AnalyzeAll expands every stage's matrix, caching the result
func (a *Analyzer) AnalyzeAll() (map[string][]model.Job, error) {
	if a.byStage != nil {
		return a.byStage, nil
	}

	byStage := make(map[string][]model.Job)
	for i := range a.pipeline.Stages {
		stage := &a.pipeline.Stages[i]
		jobs, err := a.expander.Expand(stage)
		if err != nil {
			return nil, err
		}
		byStage[stage.Name] = jobs
	}

	a.byStage = byStage
	return a.byStage, nil
}

// ListAll returns the expanded matrix per stage in descriptor order
func (a *Analyzer) ListAll() ([]*StageMatrix, error) {
	byStage, err := a.AnalyzeAll()
	if err != nil {
		return nil, err
	}

	matrices := make([]*StageMatrix, 0, len(a.pipeline.Stages))
	for i := range a.pipeline.Stages {
		stage := &a.pipeline.Stages[i]
		matrices = append(matrices, &StageMatrix{
			Stage:     stage.Name,
			DependsOn: stage.DependsOn,
			Cron:      stage.Cron,
			Jobs:      byStage[stage.Name],
		})
	}
	return matrices, nil
}

// GetStageMatrix returns the expanded matrix for a single stage
func (a *Analyzer) GetStageMatrix(stageName string) (*StageMatrix, error) {
	stage, exists := a.pipeline.StageIndex[stageName]
	if !exists {
		return nil, fmt.Errorf("stage not found: %s", stageName)
	}

	byStage, err := a.AnalyzeAll()
	if err != nil {
		return nil, err
	}

	return &StageMatrix{
		Stage:     stage.Name,
		DependsOn: stage.DependsOn,
		Cron:      stage.Cron,
		Jobs:      byStage[stage.Name],
	}, nil
}

// Environments returns the distinct tox envs across the whole matrix, sorted
func (a *Analyzer) Environments() ([]string, error) {
	byStage, err := a.AnalyzeAll()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, jobs := range byStage {
		for _, job := range jobs {
			seen[job.Toxenv] = true
		}
	}

	envs := make([]string, 0, len(seen))
	for env := range seen {
		envs = append(envs, env)
	}
	sort.Strings(envs)
	return envs, nil
}
