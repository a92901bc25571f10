package main

import (
	"fmt"

	"github.com/EdBehn/sunraster/internal/templates"
	"github.com/spf13/cobra"
)

var validateTemplatesDir string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the pipeline descriptor",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateFiles()
	},
}

func registerValidateCommand(root *cobra.Command) {
	root.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateTemplatesDir, "templates-dir", "t", "", "Template registry directory (skips template validation when empty)")
}

func validateFiles() error {
	fmt.Println("□ Validating descriptor...")
	normalized, err := loadNormalized()
	if err != nil {
		return err
	}
	fmt.Println("✓ Descriptor is valid")

	if validateTemplatesDir != "" {
		fmt.Println("□ Validating template parameters...")
		registry, err := templates.LoadFromDir(validateTemplatesDir)
		if err != nil {
			return fmt.Errorf("failed to load templates from %s: %w", validateTemplatesDir, err)
		}
		if err := registry.ValidateAllStages(normalized); err != nil {
			return fmt.Errorf("template validation failed: %w", err)
		}
		fmt.Println("✓ Template parameters are valid")
	}

	fmt.Println("✓ All validation passed")
	return nil
}
