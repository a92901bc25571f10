package main

import (
	"fmt"
	"sort"

	"github.com/EdBehn/sunraster/internal/templates"
	"github.com/spf13/cobra"
)

var listTemplatesDir string

var templatesCmd = &cobra.Command{
	Use:     "templates [template]",
	Aliases: []string{"template"},
	Short:   "List known external job templates",
	Long:    "List external job templates and their parameter defaults. Use 'rasterci templates <name>' for details.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTemplates(args)
	},
}

func registerTemplatesCommand(root *cobra.Command) {
	root.AddCommand(templatesCmd)

	templatesCmd.Flags().StringVarP(&listTemplatesDir, "templates-dir", "t", "templates", "Template registry directory")
}

func listTemplates(args []string) error {
	registry, err := templates.LoadFromDir(listTemplatesDir)
	if err != nil {
		return fmt.Errorf("failed to load templates from %s: %w", listTemplatesDir, err)
	}

	if len(args) > 0 {
		tmpl, exists := registry.Types[args[0]]
		if !exists {
			return fmt.Errorf("template not found: %s", args[0])
		}
		printTemplate(tmpl)
		return nil
	}

	fmt.Println("Available Templates:")

	names := make([]string, 0, len(registry.Types))
	for name := range registry.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		tmpl := registry.Types[name]
		if tmpl.Definition.Description != "" {
			fmt.Printf("  %-16s %s\n", name, tmpl.Definition.Description)
		} else {
			fmt.Printf("  %s\n", name)
		}
	}

	fmt.Println("\nRun 'rasterci templates <name>' for detailed information")
	return nil
}

func printTemplate(tmpl *templates.Template) {
	fmt.Printf("\n[Template] %s\n", tmpl.Name)
	if tmpl.Definition.Description != "" {
		fmt.Printf("  Description: %s\n", tmpl.Definition.Description)
	}

	if len(tmpl.Definition.Defaults) > 0 {
		fmt.Println("  Parameter defaults:")
		keys := make([]string, 0, len(tmpl.Definition.Defaults))
		for k := range tmpl.Definition.Defaults {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("    %s: %v\n", k, tmpl.Definition.Defaults[k])
		}
	}
}
