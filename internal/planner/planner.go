package planner

import (
	"fmt"

	"github.com/EdBehn/sunraster/internal/matrix"
	"github.com/EdBehn/sunraster/internal/model"
	"github.com/EdBehn/sunraster/internal/release"
	"github.com/EdBehn/sunraster/internal/trigger"
)

// Planner compiles an activated pipeline into a concrete plan
type Planner struct {
	pipeline *model.NormalizedPipeline
	expander *matrix.Expander
}

// NewPlanner creates a planner for a normalized pipeline
func NewPlanner(p *model.NormalizedPipeline) *Planner {
	return &Planner{
		pipeline: p,
		expander: matrix.NewExpander(p),
	}
}

// Plan resolves the event against the trigger rules and materializes the
// activated stages into an execution plan
func (p *Planner) Plan(event model.BuildEvent) (*model.Plan, error) {
	resolver := trigger.NewResolver(p.pipeline)
	decision, err := resolver.Resolve(event)
	if err != nil {
		return nil, err
	}
	return p.PlanWithDecision(event, decision)
}

// PlanWithDecision materializes the plan for a pre-resolved trigger decision
func (p *Planner) PlanWithDecision(event model.BuildEvent, decision trigger.Decision) (*model.Plan, error) {
	active := make(map[string]bool, len(p.pipeline.Stages))
	for i := range p.pipeline.Stages {
		stage := &p.pipeline.Stages[i]
		active[stage.Name] = decision.StageActive(stage)
	}

	stages := make([]model.PlanStage, 0, len(p.pipeline.Stages))
	for i := range p.pipeline.Stages {
		stage := &p.pipeline.Stages[i]
		if !active[stage.Name] {
			continue
		}

		planStage, err := p.materializeStage(stage, decision)
		if err != nil {
			return nil, err
		}

		// Dependencies on dropped stages are pruned; a skipped stage must not
		// block the ones the event did activate.
		planStage.DependsOn = pruneInactive(stage.DependsOn, active)

		stages = append(stages, planStage)
	}

	graph := NewStageGraph(stages)
	if err := graph.DetectCycles(); err != nil {
		return nil, err
	}
	ordered, err := graph.TopologicalSort()
	if err != nil {
		return nil, err
	}
	stages = reorder(stages, ordered)

	plan := &model.Plan{
		APIVersion: "sunraster.dev/v1",
		Kind:       "BuildPlan",
		Name:       p.pipeline.Name,
		Event:      event,
		Spec: model.PlanSpec{
			CancelInProgress: p.pipeline.Trigger.PR.CancelInProgress,
			Variables:        p.pipeline.Variables,
		},
		Stages: stages,
	}

	return plan, nil
}

func (p *Planner) materializeStage(stage *model.Stage, decision trigger.Decision) (model.PlanStage, error) {
	planStage := model.PlanStage{
		Name:      stage.Name,
		DependsOn: stage.DependsOn,
		Cron:      stage.Cron,
	}

	if stage.Release != nil {
		publisher := release.NewPublisher(stage.Release)
		job, err := publisher.Job(stage, decision.Upload)
		if err != nil {
			return model.PlanStage{}, err
		}
		planStage.Jobs = []model.PlanJob{job}
		return planStage, nil
	}

	jobs, err := p.expander.Expand(stage)
	if err != nil {
		return model.PlanStage{}, err
	}

	planStage.Jobs = make([]model.PlanJob, 0, len(jobs))
	for _, job := range jobs {
		planStage.Jobs = append(planStage.Jobs, materializeJob(job))
	}

	return planStage, nil
}

// materializeJob turns an expanded matrix job into plan steps
func materializeJob(job model.Job) model.PlanJob {
	steps := make([]model.PlanStep, 0, 4)

	if len(job.Libraries.Apt) > 0 {
		steps = append(steps, model.PlanStep{
			Name: "install apt packages",
			Run:  append([]string{"apt-get", "install", "-y"}, job.Libraries.Apt...),
		})
	}
	if len(job.Libraries.Yum) > 0 {
		steps = append(steps, model.PlanStep{
			Name: "install yum packages",
			Run:  append([]string{"yum", "install", "-y"}, job.Libraries.Yum...),
		})
	}

	steps = append(steps, model.PlanStep{
		Name: "install tox",
		Run:  []string{"python", "-m", "pip", "install", "tox", job.Toxdeps},
	})

	runName := "run tests"
	if job.Docs {
		runName = "build docs"
	}
	steps = append(steps, model.PlanStep{
		Name: runName,
		Run:  job.Command,
	})

	if job.Coverage != "" {
		steps = append(steps, model.PlanStep{
			Name: "report coverage",
			Run:  []string{job.Coverage, "--file", "coverage.xml"},
		})
	}

	return model.PlanJob{
		ID:         job.ID,
		Name:       fmt.Sprintf("%s-%s", job.OS, job.Toxenv),
		Stage:      job.Stage,
		Template:   job.Template,
		OS:         job.OS,
		Python:     job.Python,
		Steps:      steps,
		Libraries:  job.Libraries,
		Submodules: job.Submodules,
		Coverage:   job.Coverage,
	}
}

func pruneInactive(deps []string, active map[string]bool) []string {
	pruned := make([]string, 0, len(deps))
	for _, dep := range deps {
		if active[dep] {
			pruned = append(pruned, dep)
		}
	}
	return pruned
}

func reorder(stages []model.PlanStage, order []string) []model.PlanStage {
	byName := make(map[string]model.PlanStage, len(stages))
	for _, stage := range stages {
		byName[stage.Name] = stage
	}

	ordered := make([]model.PlanStage, 0, len(stages))
	for _, name := range order {
		ordered = append(ordered, byName[name])
	}
	return ordered
}
