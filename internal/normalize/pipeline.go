package normalize

import (
	"fmt"
	"strings"

	"github.com/EdBehn/sunraster/internal/model"
)

const (
	defaultPython   = "3.8"
	defaultCoverage = "codecov"
	defaultToxdeps  = "tox-pypi-filter"
)

// NormalizePipeline transforms a raw descriptor into canonical form
func NormalizePipeline(p *model.Pipeline) (*model.NormalizedPipeline, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline cannot be nil")
	}
	if p.Name == "" {
		return nil, fmt.Errorf("pipeline must have a name")
	}

	normalized := &model.NormalizedPipeline{
		Name:       p.Name,
		Trigger:    p.Trigger,
		Schedules:  p.Schedules,
		Variables:  p.Variables,
		Defaults:   applyDefaultSettings(p.Defaults),
		Stages:     make([]model.Stage, len(p.Stages)),
		StageIndex: make(map[string]*model.Stage),
	}

	releaseStages := 0
	for i, stage := range p.Stages {
		if stage.Name == "" {
			return nil, fmt.Errorf("stage %d must have a name", i)
		}
		if _, exists := normalized.StageIndex[stage.Name]; exists {
			return nil, fmt.Errorf("duplicate stage name: %s", stage.Name)
		}
		if stage.Template.Name == "" {
			return nil, fmt.Errorf("stage %s must reference a job template", stage.Name)
		}
		if stage.Cron && len(stage.DependsOn) > 0 {
			return nil, fmt.Errorf("cron stage %s must not declare dependencies", stage.Name)
		}
		if stage.Release != nil {
			releaseStages++
			if err := normalizeRelease(&stage); err != nil {
				return nil, err
			}
		}
		for j := range stage.Jobs {
			if err := normalizeEntry(&stage.Jobs[j], stage.Name, j); err != nil {
				return nil, err
			}
		}

		normalized.Stages[i] = stage
		normalized.StageIndex[stage.Name] = &normalized.Stages[i]
	}

	if releaseStages > 1 {
		return nil, fmt.Errorf("pipeline declares %d release stages, at most one is allowed", releaseStages)
	}

	// Dependency references must name stages defined in this pipeline.
	for _, stage := range normalized.Stages {
		for _, dep := range stage.DependsOn {
			if _, exists := normalized.StageIndex[dep]; !exists {
				return nil, fmt.Errorf("stage %s depends on undefined stage %s", stage.Name, dep)
			}
			if dep == stage.Name {
				return nil, fmt.Errorf("stage %s depends on itself", stage.Name)
			}
		}
	}

	return normalized, nil
}

func applyDefaultSettings(d model.Defaults) model.Defaults {
	if d.Python == "" {
		d.Python = defaultPython
	}
	if d.Coverage == "" {
		d.Coverage = defaultCoverage
	}
	if d.Toxdeps == "" {
		d.Toxdeps = defaultToxdeps
	}
	return d
}

func normalizeRelease(stage *model.Stage) error {
	if len(stage.Release.Artifacts) == 0 {
		stage.Release.Artifacts = []string{"wheel", "sdist"}
	}
	for _, kind := range stage.Release.Artifacts {
		if kind != "wheel" && kind != "sdist" {
			return fmt.Errorf("stage %s: unknown artifact kind %q", stage.Name, kind)
		}
	}
	if stage.Release.PyPIConnection == "" {
		return fmt.Errorf("stage %s: release stage must name a package-index connection", stage.Name)
	}
	return nil
}

func normalizeEntry(entry *model.MatrixEntry, stageName string, index int) error {
	if entry.Toxenv == "" {
		return fmt.Errorf("stage %s: matrix entry %d must name a tox env", stageName, index)
	}
	if entry.OS == "" {
		entry.OS = "linux"
	}
	// Docs legs are recognized by env name when not flagged explicitly.
	if strings.Contains(entry.Toxenv, "build_docs") {
		entry.Docs = true
	}
	if entry.Pin != "" {
		switch model.PinStrategy(entry.Pin) {
		case model.PinDefault, model.PinOldest, model.PinDev:
		default:
			return fmt.Errorf("stage %s: matrix entry %d has unknown pin strategy %q", stageName, index, entry.Pin)
		}
	}
	return nil
}
