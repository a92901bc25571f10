package matrix

import (
	"fmt"
	"strings"

	"github.com/EdBehn/sunraster/internal/model"
	"github.com/google/shlex"
)

// Expander turns matrix entries into concrete jobs with shared defaults applied
type Expander struct {
	defaults model.Defaults
}

// NewExpander creates an expander for a pipeline's shared defaults
func NewExpander(p *model.NormalizedPipeline) *Expander {
	return &Expander{defaults: p.Defaults}
}

// Expand produces one Job per matrix entry of the stage
func (e *Expander) Expand(stage *model.Stage) ([]model.Job, error) {
	jobs := make([]model.Job, 0, len(stage.Jobs))

	for i, entry := range stage.Jobs {
		job, err := e.expandEntry(stage, entry)
		if err != nil {
			return nil, fmt.Errorf("stage %s entry %d: %w", stage.Name, i, err)
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

// expandEntry merges the shared defaults into one entry. Entry values win;
// unset entry fields inherit the defaults unchanged.
func (e *Expander) expandEntry(stage *model.Stage, entry model.MatrixEntry) (model.Job, error) {
	python := entry.Python
	if python == "" {
		python = e.defaults.Python
	}

	posargs := entry.Posargs
	if posargs == "" {
		posargs = e.defaults.Posargs
	}
	args, err := shlex.Split(posargs)
	if err != nil {
		return model.Job{}, fmt.Errorf("invalid posargs %q: %w", posargs, err)
	}

	job := model.Job{
		ID:         fmt.Sprintf("%s/%s-%s", stage.Name, entry.OS, entry.Toxenv),
		Stage:      stage.Name,
		Template:   stage.Template.Name,
		OS:         entry.OS,
		Python:     python,
		Toxenv:     entry.Toxenv,
		Posargs:    args,
		Coverage:   e.defaults.Coverage,
		Toxdeps:    e.defaults.Toxdeps,
		Submodules: e.defaults.Submodules,
		Libraries:  entry.Libraries,
		Docs:       entry.Docs,
		Pin:        pinStrategy(entry),
	}

	if job.Docs {
		// Docs legs build documentation instead of running the test suite,
		// so they skip posargs and coverage upload.
		job.Posargs = nil
		job.Coverage = ""
	}

	job.Command = testCommand(job)

	return job, nil
}

// pinStrategy derives the dependency-resolution policy for an entry. An
// explicit pin wins over the tox env name convention.
func pinStrategy(entry model.MatrixEntry) model.PinStrategy {
	if entry.Pin != "" {
		return model.PinStrategy(entry.Pin)
	}
	switch {
	case strings.HasSuffix(entry.Toxenv, "-oldestdeps"):
		return model.PinOldest
	case strings.HasSuffix(entry.Toxenv, "-devdeps"):
		return model.PinDev
	}
	return model.PinDefault
}

// testCommand builds the resolved test-runner argv for a job
func testCommand(job model.Job) []string {
	cmd := []string{"tox", "-e", job.Toxenv}
	if len(job.Posargs) > 0 {
		cmd = append(cmd, "--")
		cmd = append(cmd, job.Posargs...)
	}
	return cmd
}
