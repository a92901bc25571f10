package trigger

import (
	"fmt"

	"github.com/EdBehn/sunraster/internal/model"
)

// Decision records which stage classes a build event activates
type Decision struct {
	Tests   bool // standard test stages
	Cron    bool // cron-labeled stages
	Release bool // release-packaging stage
	Upload  bool // publish artifacts to the package index
	Reasons []string
}

// Resolver decides stage activation from build-event metadata
type Resolver struct {
	trigger   model.TriggerSpec
	schedules []model.Schedule
}

// NewResolver creates a resolver for a pipeline's trigger rules
func NewResolver(p *model.NormalizedPipeline) *Resolver {
	return &Resolver{
		trigger:   p.Trigger,
		schedules: p.Schedules,
	}
}

// Resolve evaluates the trigger rules against a build event
func (r *Resolver) Resolve(event model.BuildEvent) (Decision, error) {
	if !model.ValidReason(event.Reason) {
		return Decision{}, fmt.Errorf("unknown trigger reason: %q", event.Reason)
	}

	d := Decision{}

	refIncluded := r.refIncluded(event)
	if refIncluded {
		d.Tests = true
		d.note("ref %s matches trigger filters: test stages activate", event.Ref)
	} else {
		d.note("ref %s is excluded from triggers: test stages skipped", event.Ref)
	}

	if event.Reason == model.ReasonSchedule && r.scheduleMatches(event) {
		d.Cron = true
		d.note("scheduled run: cron stages activate")
	}

	// Pull requests never release. Otherwise the release stage runs for
	// scheduled and manual builds and for any push off the default branch
	// (which includes tag pushes).
	if refIncluded && event.Reason != model.ReasonPullRequest {
		if !event.OnDefaultBranch() || event.Reason == model.ReasonSchedule || event.Reason == model.ReasonManual {
			d.Release = true
			d.note("non-PR %s build: release stage activates", event.Reason)
		}
	}

	if d.Release && event.IsTag() {
		d.Upload = true
		d.note("release tag %s: artifacts will be uploaded", event.Tag())
	} else if d.Release {
		d.note("not a tag ref: artifacts are built but not uploaded")
	}

	return d, nil
}

// refIncluded applies the branch or tag filter set, depending on the ref kind
func (r *Resolver) refIncluded(event model.BuildEvent) bool {
	if event.IsTag() {
		return Match(r.trigger.Tags, event.Tag())
	}
	return Match(r.trigger.Branches, event.Branch())
}

// scheduleMatches reports whether any schedule covers the event's branch
func (r *Resolver) scheduleMatches(event model.BuildEvent) bool {
	if len(r.schedules) == 0 {
		return false
	}
	for _, s := range r.schedules {
		if Match(s.Branches, event.Branch()) {
			return true
		}
	}
	return false
}

// StageActive reports whether a single stage is instantiated under a decision
func (d Decision) StageActive(stage *model.Stage) bool {
	if stage.Cron {
		return d.Cron
	}
	if stage.Release != nil {
		return d.Release
	}
	return d.Tests
}

func (d *Decision) note(format string, args ...interface{}) {
	d.Reasons = append(d.Reasons, fmt.Sprintf(format, args...))
}
