package runner

import (
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/EdBehn/sunraster/internal/model"
	"github.com/hashicorp/go-hclog"
)

// Runner walks a compiled plan stage by stage in dependency order. Real
// scheduling belongs to the orchestrator; this is the local equivalent used
// for dry runs and debugging a descriptor on a developer machine.
type Runner struct {
	WorkDir string
	Stdout  io.Writer
	Stderr  io.Writer
	DryRun  bool
	Logger  hclog.Logger
}

func NewRunner(workDir string, stdout, stderr io.Writer, dryRun bool, logger hclog.Logger) *Runner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Runner{
		WorkDir: workDir,
		Stdout:  stdout,
		Stderr:  stderr,
		DryRun:  dryRun,
		Logger:  logger,
	}
}

// Run executes the plan's stages in order. A stage does not start if a stage
// it depends on has failed; independent stages after a failure still run.
func (r *Runner) Run(plan *model.Plan) error {
	if plan == nil {
		return fmt.Errorf("plan cannot be nil")
	}

	failed := make(map[string]bool)
	var firstErr error

	for i := range plan.Stages {
		stage := &plan.Stages[i]

		if blocked, dep := blockedBy(stage, failed); blocked {
			r.Logger.Warn("skipping stage", "stage", stage.Name, "failed dependency", dep)
			fmt.Fprintf(r.Stdout, "⊘ Stage %s skipped (%s failed)\n", stage.Name, dep)
			failed[stage.Name] = true
			continue
		}

		if err := r.runStage(stage); err != nil {
			r.Logger.Error("stage failed", "stage", stage.Name, "error", err)
			failed[stage.Name] = true
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

func (r *Runner) runStage(stage *model.PlanStage) error {
	fmt.Fprintf(r.Stdout, "→ Stage %s\n", stage.Name)

	for i := range stage.Jobs {
		job := &stage.Jobs[i]
		r.Logger.Debug("starting job", "job", job.ID, "os", job.OS, "python", job.Python)
		fmt.Fprintf(r.Stdout, "  → Job %s\n", job.ID)

		for _, step := range job.Steps {
			fmt.Fprintf(r.Stdout, "    - Step %s\n", step.Name)
			if r.DryRun {
				fmt.Fprintf(r.Stdout, "      %s\n", strings.Join(step.Run, " "))
				continue
			}
			if len(step.Run) == 0 {
				continue
			}

			cmd := exec.Command(step.Run[0], step.Run[1:]...)
			cmd.Dir = r.WorkDir
			cmd.Stdout = r.Stdout
			cmd.Stderr = r.Stderr

			if err := cmd.Run(); err != nil {
				return fmt.Errorf("stage %s job %s step %s failed: %w", stage.Name, job.ID, step.Name, err)
			}
		}
	}

	return nil
}

func blockedBy(stage *model.PlanStage, failed map[string]bool) (bool, string) {
	for _, dep := range stage.DependsOn {
		if failed[dep] {
			return true, dep
		}
	}
	return false, ""
}
