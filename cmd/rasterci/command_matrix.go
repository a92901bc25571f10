package main

import (
	"fmt"
	"strings"

	"github.com/EdBehn/sunraster/internal/matrix"
	"github.com/spf13/cobra"
)

var matrixLong bool

var matrixCmd = &cobra.Command{
	Use:     "matrix [stage]",
	Aliases: []string{"jobs"},
	Short:   "List the expanded test matrix",
	Long:    "List expanded matrix jobs per stage with inherited defaults. Use 'rasterci matrix <stage>' for a single stage.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listMatrix(args)
	},
}

func registerMatrixCommand(root *cobra.Command) {
	root.AddCommand(matrixCmd)

	matrixCmd.Flags().BoolVarP(&matrixLong, "long", "l", false, "Show detailed information")
}

func listMatrix(args []string) error {
	normalized, err := loadNormalized()
	if err != nil {
		return err
	}

	analyzer := matrix.NewAnalyzer(normalized)

	if len(args) > 0 {
		sm, err := analyzer.GetStageMatrix(args[0])
		if err != nil {
			return err
		}
		printStageMatrix(sm)
		return nil
	}

	matrices, err := analyzer.ListAll()
	if err != nil {
		return fmt.Errorf("failed to expand matrix: %w", err)
	}

	for _, sm := range matrices {
		if matrixLong {
			printStageMatrix(sm)
			continue
		}
		fmt.Printf("  %s (%d jobs", sm.Stage, len(sm.Jobs))
		if sm.Cron {
			fmt.Printf(", cron")
		}
		fmt.Println(")")
	}

	if !matrixLong {
		fmt.Println("\nRun 'rasterci matrix <stage>' for detailed information")
	}

	return nil
}

func printStageMatrix(sm *matrix.StageMatrix) {
	fmt.Printf("\n[Stage] %s\n", sm.Stage)
	if len(sm.DependsOn) > 0 {
		fmt.Printf("  DependsOn: %s\n", strings.Join(sm.DependsOn, ", "))
	}
	if sm.Cron {
		fmt.Println("  Cron:      true")
	}

	fmt.Printf("  Jobs (%d):\n", len(sm.Jobs))
	for _, job := range sm.Jobs {
		fmt.Printf("    [%s] python=%s toxenv=%s pin=%s\n", job.OS, job.Python, job.Toxenv, job.Pin)
		fmt.Printf("      Command: %s\n", strings.Join(job.Command, " "))
		if len(job.Libraries.Apt) > 0 {
			fmt.Printf("      Apt: %s\n", strings.Join(job.Libraries.Apt, ", "))
		}
		if len(job.Libraries.Yum) > 0 {
			fmt.Printf("      Yum: %s\n", strings.Join(job.Libraries.Yum, ", "))
		}
		if job.Docs {
			fmt.Println("      Docs build (tests suppressed)")
		}
	}
}
