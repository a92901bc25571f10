package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/EdBehn/sunraster/internal/model"
)

// PlanViewer provides human-readable visualization of a plan's stage DAG
type PlanViewer struct {
	plan *model.Plan
}

// NewPlanViewer creates a new plan viewer
func NewPlanViewer(plan *model.Plan) *PlanViewer {
	return &PlanViewer{plan: plan}
}

// ViewDAG returns a tree view of stages, jobs, and steps
func (pv *PlanViewer) ViewDAG() string {
	if len(pv.plan.Stages) == 0 {
		return "No stages in plan"
	}

	var sb strings.Builder
	totalJobs := 0

	for i := range pv.plan.Stages {
		stage := &pv.plan.Stages[i]
		isLastStage := i == len(pv.plan.Stages)-1

		stagePrefix := "├─ "
		connector := "│  "
		if isLastStage {
			stagePrefix = "└─ "
			connector = "   "
		}

		header := stage.Name
		if stage.Cron {
			header += " [cron]"
		}
		if len(stage.DependsOn) > 0 {
			header += fmt.Sprintf(" (after %s)", strings.Join(stage.DependsOn, ", "))
		}
		sb.WriteString(stagePrefix + header + "\n")

		for j := range stage.Jobs {
			job := &stage.Jobs[j]
			totalJobs++
			isLastJob := j == len(stage.Jobs)-1

			jobPrefix := connector + "├─ "
			jobConnector := connector + "│  "
			if isLastJob {
				jobPrefix = connector + "└─ "
				jobConnector = connector + "   "
			}

			jobLine := job.Name
			if job.Python != "" {
				jobLine += fmt.Sprintf(" [py%s]", job.Python)
			}
			sb.WriteString(jobPrefix + jobLine + "\n")

			for k, step := range job.Steps {
				stepPrefix := jobConnector + "├─ "
				if k == len(job.Steps)-1 {
					stepPrefix = jobConnector + "└─ "
				}

				run := strings.Join(step.Run, " ")
				if len(run) > 60 {
					run = run[:57] + "..."
				}
				sb.WriteString(fmt.Sprintf("%s%s | %s\n", stepPrefix, step.Name, run))
			}
		}
	}

	sb.WriteString("═══════════════════════════════════════════════════════════\n")
	sb.WriteString(fmt.Sprintf("Summary: %d stages, %d jobs\n", len(pv.plan.Stages), totalJobs))

	return sb.String()
}

// ViewStages shows the stage dependency ordering in a focused way
func (pv *PlanViewer) ViewStages() string {
	if len(pv.plan.Stages) == 0 {
		return "No stages in plan"
	}

	var sb strings.Builder
	sb.WriteString("Stage Dependencies\n")
	sb.WriteString("═══════════════════════════════════════════════════════════\n\n")

	for i := range pv.plan.Stages {
		stage := &pv.plan.Stages[i]
		prefix := "├─ "
		if i == len(pv.plan.Stages)-1 {
			prefix = "└─ "
		}

		sb.WriteString(fmt.Sprintf("%s%s (%d jobs)\n", prefix, stage.Name, len(stage.Jobs)))

		if len(stage.DependsOn) == 0 {
			sb.WriteString("   (no dependencies)\n")
		} else {
			deps := append([]string(nil), stage.DependsOn...)
			sort.Strings(deps)
			for j, dep := range deps {
				depPrefix := "  ├─ "
				if j == len(deps)-1 {
					depPrefix = "  └─ "
				}
				sb.WriteString(fmt.Sprintf("%s(depends on) %s\n", depPrefix, dep))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// ViewByStage shows a single stage with full job detail
func (pv *PlanViewer) ViewByStage(stageName string) string {
	var stage *model.PlanStage
	for i := range pv.plan.Stages {
		if pv.plan.Stages[i].Name == stageName {
			stage = &pv.plan.Stages[i]
			break
		}
	}

	if stage == nil {
		return fmt.Sprintf("No stage found: %s", stageName)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d jobs)\n", stage.Name, len(stage.Jobs)))
	sb.WriteString("═══════════════════════════════════════════════════════════\n\n")

	for i := range stage.Jobs {
		job := &stage.Jobs[i]
		prefix := "├─ "
		connector := "│  "
		if i == len(stage.Jobs)-1 {
			prefix = "└─ "
			connector = "   "
		}

		sb.WriteString(prefix + job.Name + "\n")
		if job.OS != "" {
			sb.WriteString(fmt.Sprintf("%s  OS: %s\n", connector, job.OS))
		}
		if job.Python != "" {
			sb.WriteString(fmt.Sprintf("%s  Python: %s\n", connector, job.Python))
		}
		if job.Coverage != "" {
			sb.WriteString(fmt.Sprintf("%s  Coverage: %s\n", connector, job.Coverage))
		}
		if len(job.Steps) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Steps:\n", connector))
			for j, step := range job.Steps {
				stepPrefix := "├─ "
				if j == len(job.Steps)-1 {
					stepPrefix = "└─ "
				}
				sb.WriteString(fmt.Sprintf("%s    %s%s | %s\n", connector, stepPrefix, step.Name, strings.Join(step.Run, " ")))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
