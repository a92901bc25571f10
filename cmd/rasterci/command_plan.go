package main

import (
	"fmt"
	"strings"

	"github.com/EdBehn/sunraster/internal/planner"
	"github.com/EdBehn/sunraster/internal/render"
	"github.com/EdBehn/sunraster/internal/templates"
	"github.com/EdBehn/sunraster/internal/trigger"
	"github.com/spf13/cobra"
)

var planTemplatesDir string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compile the descriptor into a build plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		return generatePlan()
	},
}

func registerPlanCommand(root *cobra.Command) {
	root.AddCommand(planCmd)

	planCmd.Flags().StringVarP(&outputFile, "output", "o", "plan.json", "Output plan file path")
	planCmd.Flags().StringVarP(&planTemplatesDir, "templates-dir", "t", "", "Template registry directory (skips template validation when empty)")
	planCmd.Flags().StringVarP(&viewPlan, "view", "v", "", "View plan (dag, stages, or stage=NAME)")
	addEventFlags(planCmd)
}

func generatePlan() error {
	fmt.Println("□ Loading pipeline...")
	normalized, err := loadNormalized()
	if err != nil {
		return err
	}

	if planTemplatesDir != "" {
		fmt.Println("□ Validating template parameters...")
		registry, err := templates.LoadFromDir(planTemplatesDir)
		if err != nil {
			return fmt.Errorf("failed to load templates from %s: %w", planTemplatesDir, err)
		}
		if err := registry.ValidateAllStages(normalized); err != nil {
			return fmt.Errorf("template validation failed: %w", err)
		}
	}

	ev, err := resolveEvent()
	if err != nil {
		return err
	}

	fmt.Println("□ Resolving triggers...")
	resolver := trigger.NewResolver(normalized)
	decision, err := resolver.Resolve(ev)
	if err != nil {
		return err
	}
	for _, reason := range decision.Reasons {
		logger.Debug(reason)
	}

	fmt.Println("□ Expanding matrix and assembling stages...")
	p := planner.NewPlanner(normalized)
	plan, err := p.PlanWithDecision(ev, decision)
	if err != nil {
		return fmt.Errorf("failed to plan: %w", err)
	}

	renderer := render.NewRenderer()
	if debugMode {
		fmt.Println("\n" + renderer.DebugDump(plan))
	}

	if err := renderer.WritePlan(plan, outputFile); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}

	fmt.Printf("✓ Plan generated with %d stages\n", len(plan.Stages))
	fmt.Printf("✓ Saved to: %s\n", outputFile)

	if viewPlan != "" {
		viewer := render.NewPlanViewer(plan)
		var output string
		switch {
		case viewPlan == "stages":
			output = viewer.ViewStages()
		case strings.HasPrefix(viewPlan, "stage="):
			output = viewer.ViewByStage(strings.TrimPrefix(viewPlan, "stage="))
		default:
			output = viewer.ViewDAG()
		}
		fmt.Println("\n" + output)
	}

	return nil
}
