package model

import "strings"

// Reason is the orchestrator's trigger reason for a build
type Reason string

const (
	ReasonPush        Reason = "push"
	ReasonPullRequest Reason = "pull_request"
	ReasonSchedule    Reason = "schedule"
	ReasonManual      Reason = "manual"
)

// Ref prefixes used by the orchestrator's event context
const (
	BranchRefPrefix = "refs/heads/"
	TagRefPrefix    = "refs/tags/"
)

// BuildEvent is the trigger metadata a single build is resolved against
type BuildEvent struct {
	Ref           string `yaml:"ref" json:"ref"` // full source ref, e.g. refs/heads/main or refs/tags/v1.0.2
	Reason        Reason `yaml:"reason" json:"reason"`
	DefaultBranch string `yaml:"defaultBranch" json:"defaultBranch"`
}

// IsTag reports whether the event ref is a tag reference
func (e BuildEvent) IsTag() bool {
	return strings.HasPrefix(e.Ref, TagRefPrefix)
}

// Branch returns the branch name, or "" for tag refs
func (e BuildEvent) Branch() string {
	if e.IsTag() {
		return ""
	}
	return strings.TrimPrefix(e.Ref, BranchRefPrefix)
}

// Tag returns the tag name, or "" for branch refs
func (e BuildEvent) Tag() string {
	if !e.IsTag() {
		return ""
	}
	return strings.TrimPrefix(e.Ref, TagRefPrefix)
}

// OnDefaultBranch reports whether the event ref is the default branch
func (e BuildEvent) OnDefaultBranch() bool {
	return !e.IsTag() && e.Branch() == e.DefaultBranch
}

// ValidReason reports whether the reason is one of the fixed trigger reasons
func ValidReason(r Reason) bool {
	switch r {
	case ReasonPush, ReasonPullRequest, ReasonSchedule, ReasonManual:
		return true
	}
	return false
}
