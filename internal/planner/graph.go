package planner

import (
	"fmt"
	"sort"

	"github.com/EdBehn/sunraster/internal/model"
)

// StageGraph represents the DAG of activated stages with cycle detection and
// topological sorting
type StageGraph struct {
	stages map[string]*model.PlanStage
}

// NewStageGraph creates a stage graph from plan stages
func NewStageGraph(stages []model.PlanStage) *StageGraph {
	g := &StageGraph{stages: make(map[string]*model.PlanStage, len(stages))}
	for i := range stages {
		g.stages[stages[i].Name] = &stages[i]
	}
	return g
}

// DetectCycles performs cycle detection on the stage dependency graph using DFS
func (g *StageGraph) DetectCycles() error {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	for name := range g.stages {
		if !visited[name] {
			if g.hasCycleDFS(name, visited, recStack) {
				return fmt.Errorf("cycle detected in stage dependencies")
			}
		}
	}

	return nil
}

func (g *StageGraph) hasCycleDFS(node string, visited, recStack map[string]bool) bool {
	visited[node] = true
	recStack[node] = true

	stage, exists := g.stages[node]
	if !exists {
		return false
	}

	for _, dep := range stage.DependsOn {
		if !visited[dep] {
			if g.hasCycleDFS(dep, visited, recStack) {
				return true
			}
		} else if recStack[dep] {
			return true
		}
	}

	recStack[node] = false
	return false
}

// TopologicalSort orders stage names so every stage follows its dependencies,
// using Kahn's algorithm with a sorted queue for deterministic output
func (g *StageGraph) TopologicalSort() ([]string, error) {
	dependents := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range g.stages {
		inDegree[name] = 0
		dependents[name] = make([]string, 0)
	}

	for name, stage := range g.stages {
		for _, dep := range stage.DependsOn {
			if _, exists := g.stages[dep]; !exists {
				return nil, fmt.Errorf("stage %s depends on unknown stage %s", name, dep)
			}
			dependents[dep] = append(dependents[dep], name)
			inDegree[name]++
		}
	}

	queue := make([]string, 0)
	for name, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	ordered := make([]string, 0, len(g.stages))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		ordered = append(ordered, current)

		for _, dep := range dependents[current] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
		sort.Strings(queue)
	}

	if len(ordered) != len(g.stages) {
		return nil, fmt.Errorf("cycle detected in stage dependencies")
	}

	return ordered, nil
}
