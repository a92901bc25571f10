package trigger

import (
	"testing"

	"github.com/EdBehn/sunraster/internal/model"
)

func testPipeline() *model.NormalizedPipeline {
	return &model.NormalizedPipeline{
		Name: "sunraster",
		Trigger: model.TriggerSpec{
			Branches: model.FilterSet{
				Include: []string{"*"},
				Exclude: []string{"*backport*"},
			},
			Tags: model.FilterSet{
				Include: []string{"v*"},
				Exclude: []string{"*dev*", "*pre*", "*post*"},
			},
		},
		Schedules: []model.Schedule{
			{Cron: "0 7 * * 1", Branches: model.FilterSet{Include: []string{"main"}}},
		},
	}
}

func resolve(t *testing.T, event model.BuildEvent) Decision {
	t.Helper()
	d, err := NewResolver(testPipeline()).Resolve(event)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	return d
}

func TestBackportBranchesActivateNothing(t *testing.T) {
	for _, branch := range []string{"backport", "auto-backport-of-pr-12", "3.1-backport"} {
		d := resolve(t, model.BuildEvent{
			Ref:           model.BranchRefPrefix + branch,
			Reason:        model.ReasonPush,
			DefaultBranch: "main",
		})
		if d.Tests || d.Cron || d.Release || d.Upload {
			t.Fatalf("branch %q activated stages: %+v", branch, d)
		}
	}
}

func TestReleaseTagsActivateTestStages(t *testing.T) {
	for _, tag := range []string{"v1.0.2", "v2.0"} {
		d := resolve(t, model.BuildEvent{
			Ref:           model.TagRefPrefix + tag,
			Reason:        model.ReasonPush,
			DefaultBranch: "main",
		})
		if !d.Tests {
			t.Fatalf("tag %q should activate test stages", tag)
		}
	}
}

func TestPrereleaseTagsAreExcluded(t *testing.T) {
	for _, tag := range []string{"v1.0.dev2", "v1.0.pre1", "v1.0.post1"} {
		d := resolve(t, model.BuildEvent{
			Ref:           model.TagRefPrefix + tag,
			Reason:        model.ReasonPush,
			DefaultBranch: "main",
		})
		if d.Tests || d.Release || d.Upload {
			t.Fatalf("tag %q should be excluded, got %+v", tag, d)
		}
	}
}

func TestScheduledRunActivatesCronStages(t *testing.T) {
	d := resolve(t, model.BuildEvent{
		Ref:           model.BranchRefPrefix + "main",
		Reason:        model.ReasonSchedule,
		DefaultBranch: "main",
	})
	if !d.Cron {
		t.Fatalf("scheduled run on the default branch should activate cron stages")
	}
	if !d.Tests {
		t.Fatalf("scheduled run should still activate test stages")
	}
}

func TestPushDoesNotActivateCronStages(t *testing.T) {
	d := resolve(t, model.BuildEvent{
		Ref:           model.BranchRefPrefix + "main",
		Reason:        model.ReasonPush,
		DefaultBranch: "main",
	})
	if d.Cron {
		t.Fatalf("push should not activate cron stages")
	}
}

func TestPullRequestNeverActivatesRelease(t *testing.T) {
	for _, ref := range []string{
		model.BranchRefPrefix + "feature/wcs",
		model.BranchRefPrefix + "main",
		model.TagRefPrefix + "v1.0.2",
	} {
		d := resolve(t, model.BuildEvent{
			Ref:           ref,
			Reason:        model.ReasonPullRequest,
			DefaultBranch: "main",
		})
		if d.Release || d.Upload {
			t.Fatalf("pull request on %q activated the release stage", ref)
		}
	}
}

func TestReleaseActivation(t *testing.T) {
	cases := []struct {
		name        string
		event       model.BuildEvent
		wantRelease bool
	}{
		{
			name:        "push to non-default branch",
			event:       model.BuildEvent{Ref: model.BranchRefPrefix + "feature/wcs", Reason: model.ReasonPush, DefaultBranch: "main"},
			wantRelease: true,
		},
		{
			name:        "push to default branch",
			event:       model.BuildEvent{Ref: model.BranchRefPrefix + "main", Reason: model.ReasonPush, DefaultBranch: "main"},
			wantRelease: false,
		},
		{
			name:        "scheduled run on default branch",
			event:       model.BuildEvent{Ref: model.BranchRefPrefix + "main", Reason: model.ReasonSchedule, DefaultBranch: "main"},
			wantRelease: true,
		},
		{
			name:        "manual run on default branch",
			event:       model.BuildEvent{Ref: model.BranchRefPrefix + "main", Reason: model.ReasonManual, DefaultBranch: "main"},
			wantRelease: true,
		},
		{
			name:        "tag push",
			event:       model.BuildEvent{Ref: model.TagRefPrefix + "v1.0.2", Reason: model.ReasonPush, DefaultBranch: "main"},
			wantRelease: true,
		},
	}

	for _, tc := range cases {
		d := resolve(t, tc.event)
		if d.Release != tc.wantRelease {
			t.Fatalf("%s: release = %v, want %v", tc.name, d.Release, tc.wantRelease)
		}
	}
}

func TestUploadOnlyForTagRefs(t *testing.T) {
	d := resolve(t, model.BuildEvent{
		Ref:           model.TagRefPrefix + "v1.0.2",
		Reason:        model.ReasonPush,
		DefaultBranch: "main",
	})
	if !d.Release || !d.Upload {
		t.Fatalf("tag push should release and upload, got %+v", d)
	}

	d = resolve(t, model.BuildEvent{
		Ref:           model.BranchRefPrefix + "feature/wcs",
		Reason:        model.ReasonPush,
		DefaultBranch: "main",
	})
	if !d.Release {
		t.Fatalf("branch push off default should still build release artifacts")
	}
	if d.Upload {
		t.Fatalf("branch push must not upload")
	}
}

func TestUnknownReasonIsRejected(t *testing.T) {
	_, err := NewResolver(testPipeline()).Resolve(model.BuildEvent{
		Ref:    model.BranchRefPrefix + "main",
		Reason: "webhook",
	})
	if err == nil {
		t.Fatalf("expected error for unknown trigger reason")
	}
}

func TestStageActive(t *testing.T) {
	testStage := &model.Stage{Name: "tests"}
	cronStage := &model.Stage{Name: "cron_tests", Cron: true}
	releaseStage := &model.Stage{Name: "release", Release: &model.ReleaseSpec{PyPIConnection: "pypi"}}

	d := Decision{Tests: true}
	if !d.StageActive(testStage) || d.StageActive(cronStage) || d.StageActive(releaseStage) {
		t.Fatalf("tests-only decision should only activate plain stages")
	}

	d = Decision{Cron: true}
	if !d.StageActive(cronStage) || d.StageActive(testStage) {
		t.Fatalf("cron decision should only activate cron stages")
	}

	d = Decision{Release: true}
	if !d.StageActive(releaseStage) || d.StageActive(testStage) {
		t.Fatalf("release decision should only activate the release stage")
	}
}
