package schema

import (
	"testing"

	"gopkg.in/yaml.v3"
)

const validDescriptor = `
name: sunraster
trigger:
  branches:
    include: ['*']
    exclude: ['*backport*']
  tags:
    include: ['v*']
stages:
  - name: initial_tests
    template:
      name: run-tox
    jobs:
      - os: linux
        toxenv: py38
`

func parseDoc(t *testing.T, text string) interface{} {
	t.Helper()
	var doc interface{}
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		t.Fatalf("failed to parse test document: %v", err)
	}
	return doc
}

func TestValidatePipeline_Valid(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	if err := v.ValidatePipeline(parseDoc(t, validDescriptor)); err != nil {
		t.Fatalf("valid descriptor rejected: %v", err)
	}
}

func TestValidatePipeline_MissingStages(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	doc := parseDoc(t, "name: sunraster\n")
	if err := v.ValidatePipeline(doc); err == nil {
		t.Fatalf("descriptor without stages must fail validation")
	}
}

func TestValidatePipeline_UnknownOS(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	doc := parseDoc(t, `
name: sunraster
stages:
  - name: initial_tests
    template:
      name: run-tox
    jobs:
      - os: solaris
        toxenv: py38
`)
	if err := v.ValidatePipeline(doc); err == nil {
		t.Fatalf("unknown os must fail validation")
	}
}

func TestValidatePipeline_UnknownField(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	doc := parseDoc(t, `
name: sunraster
agentPool: large
stages:
  - name: initial_tests
    template:
      name: run-tox
`)
	if err := v.ValidatePipeline(doc); err == nil {
		t.Fatalf("unknown top-level field must fail validation")
	}
}

func TestValidateEvent(t *testing.T) {
	v, err := NewValidator()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	good := parseDoc(t, "ref: refs/tags/v1.0.2\nreason: push\n")
	if err := v.ValidateEvent(good); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}

	badRef := parseDoc(t, "ref: v1.0.2\nreason: push\n")
	if err := v.ValidateEvent(badRef); err == nil {
		t.Fatalf("bare ref must fail validation")
	}

	badReason := parseDoc(t, "ref: refs/heads/main\nreason: webhook\n")
	if err := v.ValidateEvent(badReason); err == nil {
		t.Fatalf("unknown reason must fail validation")
	}
}
