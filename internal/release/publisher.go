package release

import (
	"fmt"

	"github.com/EdBehn/sunraster/internal/model"
)

// Publisher materializes the release stage into build and upload steps
type Publisher struct {
	spec *model.ReleaseSpec
}

// NewPublisher creates a publisher for a release stage's spec
func NewPublisher(spec *model.ReleaseSpec) *Publisher {
	return &Publisher{spec: spec}
}

// Steps builds the release step list. Artifacts are always built when the
// stage is active; the upload step is appended only when upload is true, so
// non-tag builds validate packaging without side effects.
func (p *Publisher) Steps(upload bool) ([]model.PlanStep, error) {
	if p.spec == nil {
		return nil, fmt.Errorf("release spec cannot be nil")
	}

	steps := make([]model.PlanStep, 0, len(p.spec.Artifacts)+1)
	for _, kind := range p.spec.Artifacts {
		step, err := buildStep(kind)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	if upload {
		steps = append(steps, model.PlanStep{
			Name: "upload " + p.spec.PyPIConnection,
			Run:  []string{"twine", "upload", "--non-interactive", "dist/*"},
		})
	}

	return steps, nil
}

func buildStep(kind string) (model.PlanStep, error) {
	switch kind {
	case "wheel":
		return model.PlanStep{
			Name: "build wheel",
			Run:  []string{"python", "-m", "build", "--wheel", "--outdir", "dist"},
		}, nil
	case "sdist":
		return model.PlanStep{
			Name: "build sdist",
			Run:  []string{"python", "-m", "build", "--sdist", "--outdir", "dist"},
		}, nil
	default:
		return model.PlanStep{}, fmt.Errorf("unknown artifact kind: %s", kind)
	}
}

// Job wraps the release steps into a single plan job for the stage
func (p *Publisher) Job(stage *model.Stage, upload bool) (model.PlanJob, error) {
	steps, err := p.Steps(upload)
	if err != nil {
		return model.PlanJob{}, err
	}

	return model.PlanJob{
		ID:       fmt.Sprintf("%s/package", stage.Name),
		Name:     "package",
		Stage:    stage.Name,
		Template: stage.Template.Name,
		OS:       "linux",
		Steps:    steps,
	}, nil
}
