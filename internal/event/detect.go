package event

import (
	"os"
	"os/exec"
	"strings"

	"github.com/EdBehn/sunraster/internal/model"
)

// Environment variables consumed from the orchestrator's event context.
// Detection falls back to probing the local git checkout when unset.
const (
	EnvRef           = "BUILD_SOURCE_REF"
	EnvReason        = "BUILD_REASON"
	EnvDefaultBranch = "BUILD_DEFAULT_BRANCH"
)

// Detector derives build-event metadata from the environment
type Detector struct {
	defaultBranch string // fallback when the orchestrator does not provide one
}

// NewDetector creates a detector with a fallback default branch
func NewDetector(defaultBranch string) *Detector {
	if defaultBranch == "" {
		defaultBranch = "main"
	}
	return &Detector{defaultBranch: defaultBranch}
}

// Detect builds a BuildEvent from orchestrator env vars, probing git for
// whatever the environment does not provide
func (d *Detector) Detect() (model.BuildEvent, error) {
	event := model.BuildEvent{
		Ref:           os.Getenv(EnvRef),
		Reason:        model.Reason(os.Getenv(EnvReason)),
		DefaultBranch: os.Getenv(EnvDefaultBranch),
	}

	if event.DefaultBranch == "" {
		event.DefaultBranch = d.defaultBranch
	}

	if event.Reason == "" {
		// Outside an orchestrator context this is a manual run.
		event.Reason = model.ReasonManual
	}

	if event.Ref == "" {
		ref, err := currentGitRef()
		if err != nil {
			return model.BuildEvent{}, err
		}
		event.Ref = ref
	}

	return event, nil
}

// currentGitRef resolves the checked-out ref: an exact tag wins over the
// branch name, matching how tag builds appear in the orchestrator's context
func currentGitRef() (string, error) {
	cmd := exec.Command("git", "describe", "--tags", "--exact-match")
	output, err := cmd.Output()
	if err == nil {
		tag := strings.TrimSpace(string(output))
		if tag != "" {
			return model.TagRefPrefix + tag, nil
		}
	}

	cmd = exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	output, err = cmd.Output()
	if err != nil {
		return "", err
	}

	branch := strings.TrimSpace(string(output))
	if branch == "" || branch == "HEAD" {
		// Detached HEAD without a tag; treat as a manual build off main.
		branch = "main"
	}
	return model.BranchRefPrefix + branch, nil
}
