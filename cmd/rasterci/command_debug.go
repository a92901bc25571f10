package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dump the normalized descriptor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return debugPipeline()
	},
}

func registerDebugCommand(root *cobra.Command) {
	root.AddCommand(debugCmd)
}

func debugPipeline() error {
	normalized, err := loadNormalized()
	if err != nil {
		return err
	}

	fmt.Printf("Pipeline: %s\n", normalized.Name)
	fmt.Printf("Defaults: python=%s coverage=%s toxdeps=%s posargs=%q\n",
		normalized.Defaults.Python, normalized.Defaults.Coverage, normalized.Defaults.Toxdeps, normalized.Defaults.Posargs)

	fmt.Printf("Trigger branches: include=%v exclude=%v\n",
		normalized.Trigger.Branches.Include, normalized.Trigger.Branches.Exclude)
	fmt.Printf("Trigger tags:     include=%v exclude=%v\n",
		normalized.Trigger.Tags.Include, normalized.Trigger.Tags.Exclude)

	fmt.Printf("Schedules: %d\n", len(normalized.Schedules))
	for _, s := range normalized.Schedules {
		fmt.Printf("  - %q (%s) branches=%v\n", s.Cron, s.DisplayName, s.Branches.Include)
	}

	fmt.Printf("Stages: %d\n", len(normalized.Stages))
	for i := range normalized.Stages {
		stage := &normalized.Stages[i]
		kind := "test"
		if stage.Cron {
			kind = "cron"
		}
		if stage.Release != nil {
			kind = "release"
		}
		fmt.Printf("  - %s: kind=%s template=%s deps=[%s] jobs=%d\n",
			stage.Name, kind, stage.Template.Name, strings.Join(stage.DependsOn, ", "), len(stage.Jobs))
	}

	return nil
}
