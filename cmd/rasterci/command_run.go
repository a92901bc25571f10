package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/EdBehn/sunraster/internal/model"
	"github.com/EdBehn/sunraster/internal/runner"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	runPlanFile string
	runExecute  bool
	runWorkDir  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk a compiled plan locally",
	Long:  "Walk the stages and jobs of a generated plan in dependency order. Dry-run by default; --execute runs the commands.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan()
	},
}

func registerRunCommand(root *cobra.Command) {
	root.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runPlanFile, "plan", "plan.json", "Path to plan file (json or yaml)")
	runCmd.Flags().BoolVarP(&runExecute, "execute", "x", false, "Actually execute commands (default is dry-run)")
	runCmd.Flags().StringVar(&runWorkDir, "workdir", ".", "Working directory for job commands")
}

func runPlan() error {
	plan, err := loadPlan(runPlanFile)
	if err != nil {
		return err
	}

	if len(plan.Stages) == 0 {
		fmt.Println("✓ Plan has no stages, nothing to run")
		return nil
	}

	dryRun := !runExecute
	if dryRun {
		fmt.Println("□ Dry-run mode enabled. Use --execute to run commands.")
	}

	r := runner.NewRunner(runWorkDir, os.Stdout, os.Stderr, dryRun, logger)
	if err := r.Run(plan); err != nil {
		return err
	}

	if dryRun {
		fmt.Println("✓ Dry-run complete")
	} else {
		fmt.Println("✓ Run complete")
	}

	return nil
}

func loadPlan(path string) (*model.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan file %s: %w", path, err)
	}

	var plan model.Plan
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("failed to parse YAML plan: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &plan); err != nil {
			if yamlErr := yaml.Unmarshal(data, &plan); yamlErr != nil {
				return nil, fmt.Errorf("failed to parse plan file as JSON or YAML: %w", err)
			}
		}
	}

	return &plan, nil
}
