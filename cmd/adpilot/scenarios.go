package main

import (
	"fmt"

	"adpilot/internal/collector"

	"github.com/spf13/cobra"
)

// scenariosCmd lists the built-in demo scenarios
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the built-in demo scenarios",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(titleStyle.Render("Demo Scenarios"))
		fmt.Println()
		for _, s := range collector.Scenarios() {
			fmt.Printf("  %-24s %s\n", s.Name, s.Title)
			fmt.Printf("  %-24s %s\n", "", dimStyle.Render(s.Summary))
			fmt.Printf("  %-24s %s\n\n", "", dimStyle.Render("expected: "+s.ExpectedWorkflow))
		}
		fmt.Println("Run one with: adpilot analyze --scenario <name>")
		return nil
	},
}
