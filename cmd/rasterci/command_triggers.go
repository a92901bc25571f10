package main

import (
	"fmt"

	"github.com/EdBehn/sunraster/internal/trigger"
	"github.com/spf13/cobra"
)

var triggersCmd = &cobra.Command{
	Use:   "triggers",
	Short: "Explain which stages a build event activates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return explainTriggers()
	},
}

func registerTriggersCommand(root *cobra.Command) {
	root.AddCommand(triggersCmd)
	addEventFlags(triggersCmd)
}

func explainTriggers() error {
	normalized, err := loadNormalized()
	if err != nil {
		return err
	}

	ev, err := resolveEvent()
	if err != nil {
		return err
	}

	resolver := trigger.NewResolver(normalized)
	decision, err := resolver.Resolve(ev)
	if err != nil {
		return err
	}

	fmt.Printf("Event: %s (%s)\n\n", ev.Ref, ev.Reason)
	for _, reason := range decision.Reasons {
		fmt.Printf("  %s\n", reason)
	}

	fmt.Println("\nStages:")
	for i := range normalized.Stages {
		stage := &normalized.Stages[i]
		state := "skipped"
		if decision.StageActive(stage) {
			state = "active"
		}
		fmt.Printf("  %-20s %s\n", stage.Name, state)
	}

	if decision.Release {
		if decision.Upload {
			fmt.Println("\nRelease artifacts will be built and uploaded")
		} else {
			fmt.Println("\nRelease artifacts will be built but not uploaded")
		}
	}

	return nil
}
