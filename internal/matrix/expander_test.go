package matrix

import (
	"reflect"
	"testing"

	"github.com/EdBehn/sunraster/internal/model"
)

func testPipeline() *model.NormalizedPipeline {
	return &model.NormalizedPipeline{
		Name: "sunraster",
		Defaults: model.Defaults{
			Python:     "3.8",
			Submodules: false,
			Coverage:   "codecov",
			Toxdeps:    "tox-pypi-filter",
			Posargs:    "-n=4",
		},
	}
}

func TestExpand_InheritsSharedDefaults(t *testing.T) {
	stage := &model.Stage{
		Name:     "initial_tests",
		Template: model.TemplateRef{Name: "run-tox"},
		Jobs: []model.MatrixEntry{
			{OS: "linux", Toxenv: "py38"},
		},
	}

	jobs, err := NewExpander(testPipeline()).Expand(stage)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}

	job := jobs[0]
	if job.Python != "3.8" {
		t.Fatalf("expected default python 3.8, got %s", job.Python)
	}
	if job.Coverage != "codecov" {
		t.Fatalf("expected default coverage backend, got %s", job.Coverage)
	}
	if job.Toxdeps != "tox-pypi-filter" {
		t.Fatalf("expected default toxdeps, got %s", job.Toxdeps)
	}
	if job.Pin != model.PinDefault {
		t.Fatalf("expected default pin strategy, got %s", job.Pin)
	}
	want := []string{"tox", "-e", "py38", "--", "-n=4"}
	if !reflect.DeepEqual(job.Command, want) {
		t.Fatalf("unexpected command: %v, want %v", job.Command, want)
	}
}

func TestExpand_EntryOverridesWin(t *testing.T) {
	stage := &model.Stage{
		Name:     "comprehensive_tests",
		Template: model.TemplateRef{Name: "run-tox"},
		Jobs: []model.MatrixEntry{
			{OS: "windows", Python: "3.9", Toxenv: "py39", Posargs: "--timeout 120"},
		},
	}

	jobs, err := NewExpander(testPipeline()).Expand(stage)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	job := jobs[0]
	if job.Python != "3.9" {
		t.Fatalf("entry python override lost: %s", job.Python)
	}
	if job.OS != "windows" {
		t.Fatalf("entry os lost: %s", job.OS)
	}
	want := []string{"tox", "-e", "py39", "--", "--timeout", "120"}
	if !reflect.DeepEqual(job.Command, want) {
		t.Fatalf("posargs override not shlex-split into command: %v", job.Command)
	}
	// Overriding posargs must not disturb the other shared defaults.
	if job.Coverage != "codecov" || job.Toxdeps != "tox-pypi-filter" {
		t.Fatalf("shared defaults dropped on override: %+v", job)
	}
}

func TestExpand_PinStrategyFromToxenvSuffix(t *testing.T) {
	stage := &model.Stage{
		Name:     "comprehensive_tests",
		Template: model.TemplateRef{Name: "run-tox"},
		Jobs: []model.MatrixEntry{
			{OS: "linux", Toxenv: "py37-oldestdeps"},
			{OS: "linux", Toxenv: "py38-devdeps"},
			{OS: "linux", Toxenv: "py38"},
			{OS: "linux", Toxenv: "py38-devdeps", Pin: "default"},
		},
	}

	jobs, err := NewExpander(testPipeline()).Expand(stage)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	want := []model.PinStrategy{model.PinOldest, model.PinDev, model.PinDefault, model.PinDefault}
	for i, job := range jobs {
		if job.Pin != want[i] {
			t.Fatalf("job %d: pin = %s, want %s", i, job.Pin, want[i])
		}
	}
}

func TestExpand_DocsEntrySuppressesTestsAndCoverage(t *testing.T) {
	stage := &model.Stage{
		Name:     "comprehensive_tests",
		Template: model.TemplateRef{Name: "run-tox"},
		Jobs: []model.MatrixEntry{
			{OS: "linux", Toxenv: "build_docs", Docs: true, Libraries: model.Libraries{Apt: []string{"graphviz"}}},
		},
	}

	jobs, err := NewExpander(testPipeline()).Expand(stage)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	job := jobs[0]
	if !job.Docs {
		t.Fatalf("docs flag lost")
	}
	if job.Coverage != "" {
		t.Fatalf("docs job should not report coverage")
	}
	if len(job.Posargs) != 0 {
		t.Fatalf("docs job should not carry posargs: %v", job.Posargs)
	}
	want := []string{"tox", "-e", "build_docs"}
	if !reflect.DeepEqual(job.Command, want) {
		t.Fatalf("unexpected docs command: %v", job.Command)
	}
	if len(job.Libraries.Apt) != 1 || job.Libraries.Apt[0] != "graphviz" {
		t.Fatalf("apt libraries lost: %+v", job.Libraries)
	}
}

func TestExpand_InvalidPosargs(t *testing.T) {
	stage := &model.Stage{
		Name:     "initial_tests",
		Template: model.TemplateRef{Name: "run-tox"},
		Jobs: []model.MatrixEntry{
			{OS: "linux", Toxenv: "py38", Posargs: `--mark "unterminated`},
		},
	}

	if _, err := NewExpander(testPipeline()).Expand(stage); err == nil {
		t.Fatalf("expected error for unterminated posargs quoting")
	}
}

func TestAnalyzer_ListAllKeepsDescriptorOrder(t *testing.T) {
	p := testPipeline()
	p.Stages = []model.Stage{
		{Name: "initial_tests", Template: model.TemplateRef{Name: "run-tox"}, Jobs: []model.MatrixEntry{{OS: "linux", Toxenv: "py38"}}},
		{Name: "comprehensive_tests", DependsOn: []string{"initial_tests"}, Template: model.TemplateRef{Name: "run-tox"}, Jobs: []model.MatrixEntry{
			{OS: "macos", Toxenv: "py37"},
			{OS: "linux", Toxenv: "py38-devdeps"},
		}},
	}
	p.StageIndex = map[string]*model.Stage{
		"initial_tests":       &p.Stages[0],
		"comprehensive_tests": &p.Stages[1],
	}

	matrices, err := NewAnalyzer(p).ListAll()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(matrices) != 2 {
		t.Fatalf("expected 2 stage matrices, got %d", len(matrices))
	}
	if matrices[0].Stage != "initial_tests" || matrices[1].Stage != "comprehensive_tests" {
		t.Fatalf("matrices out of order: %s, %s", matrices[0].Stage, matrices[1].Stage)
	}
	if len(matrices[1].Jobs) != 2 {
		t.Fatalf("expected 2 jobs in second stage, got %d", len(matrices[1].Jobs))
	}
}

func TestAnalyzer_Environments(t *testing.T) {
	p := testPipeline()
	p.Stages = []model.Stage{
		{Name: "a", Template: model.TemplateRef{Name: "run-tox"}, Jobs: []model.MatrixEntry{{OS: "linux", Toxenv: "py38"}}},
		{Name: "b", Template: model.TemplateRef{Name: "run-tox"}, Jobs: []model.MatrixEntry{{OS: "macos", Toxenv: "py38"}, {OS: "linux", Toxenv: "build_docs"}}},
	}
	p.StageIndex = map[string]*model.Stage{"a": &p.Stages[0], "b": &p.Stages[1]}

	envs, err := NewAnalyzer(p).Environments()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	want := []string{"build_docs", "py38"}
	if !reflect.DeepEqual(envs, want) {
		t.Fatalf("environments = %v, want %v", envs, want)
	}
}
