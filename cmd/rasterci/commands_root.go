package main

import (
	"fmt"

	"github.com/EdBehn/sunraster/internal/event"
	"github.com/EdBehn/sunraster/internal/loader"
	"github.com/EdBehn/sunraster/internal/model"
	"github.com/EdBehn/sunraster/internal/normalize"
	"github.com/EdBehn/sunraster/internal/schema"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	pipelineFile  string
	outputFile    string
	debugMode     bool
	eventRef      string
	eventReason   string
	defaultBranch string
	viewPlan      string
)

var logger = hclog.NewNullLogger()

var rootCmd = &cobra.Command{
	Use:   "rasterci",
	Short: "Pipeline compiler: descriptor → build plan",
	Long:  "rasterci compiles the sunraster CI descriptor into a concrete job plan: it resolves trigger rules against a build event, expands the test matrix, and gates the release stage.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := hclog.Warn
		if debugMode {
			level = hclog.Debug
		}
		logger = hclog.New(&hclog.LoggerOptions{
			Name:  "rasterci",
			Level: level,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&pipelineFile, "pipeline", "p", "pipeline.yaml", "Pipeline descriptor file path")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug output")

	registerPlanCommand(rootCmd)
	registerValidateCommand(rootCmd)
	registerTriggersCommand(rootCmd)
	registerMatrixCommand(rootCmd)
	registerTemplatesCommand(rootCmd)
	registerDebugCommand(rootCmd)
	registerRunCommand(rootCmd)
}

// loadNormalized loads the descriptor, validates it against the schema, and
// returns the canonical form
func loadNormalized() (*model.NormalizedPipeline, error) {
	validator, err := schema.NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to build validator: %w", err)
	}

	doc, err := loader.LoadDocument(pipelineFile)
	if err != nil {
		return nil, err
	}
	if err := validator.ValidatePipeline(doc); err != nil {
		return nil, fmt.Errorf("descriptor failed schema validation: %w", err)
	}

	pipeline, err := loader.LoadPipeline(pipelineFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline: %w", err)
	}

	normalized, err := normalize.NormalizePipeline(pipeline)
	if err != nil {
		return nil, fmt.Errorf("normalization failed: %w", err)
	}

	return normalized, nil
}

// resolveEvent builds the event from flags, falling back to environment and
// git detection when no ref was given
func resolveEvent() (model.BuildEvent, error) {
	if eventRef != "" {
		ev := model.BuildEvent{
			Ref:           eventRef,
			Reason:        model.Reason(eventReason),
			DefaultBranch: defaultBranch,
		}
		if ev.Reason == "" {
			ev.Reason = model.ReasonPush
		}
		if ev.DefaultBranch == "" {
			ev.DefaultBranch = "main"
		}
		return ev, nil
	}

	detector := event.NewDetector(defaultBranch)
	ev, err := detector.Detect()
	if err != nil {
		return model.BuildEvent{}, fmt.Errorf("failed to detect build event: %w", err)
	}
	if eventReason != "" {
		ev.Reason = model.Reason(eventReason)
	}

	logger.Debug("detected build event", "ref", ev.Ref, "reason", ev.Reason)
	return ev, nil
}

func addEventFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&eventRef, "ref", "", "Source ref (e.g. refs/heads/main, refs/tags/v1.0.2); detected when empty")
	cmd.Flags().StringVar(&eventReason, "reason", "", "Trigger reason (push/pull_request/schedule/manual)")
	cmd.Flags().StringVar(&defaultBranch, "default-branch", "main", "Default branch name")
}
