package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrewcho-dev/opsconductor-flow/internal/codec"
	"github.com/andrewcho-dev/opsconductor-flow/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workflow.json>",
	Short: "Validate a workflow document against the node catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	g, err := codec.Deserialize(data)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	result := validation.NewGraphValidator(reg).Validate(g)

	out := cmd.OutOrStdout()
	if len(result.Errors) > 0 {
		fmt.Fprintf(out, "%d error(s):\n", len(result.Errors))
		for _, line := range issueLines(result.Errors) {
			fmt.Fprintln(out, line)
		}
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintf(out, "%d warning(s):\n", len(result.Warnings))
		for _, line := range issueLines(result.Warnings) {
			fmt.Fprintln(out, line)
		}
	}
	if !result.Valid() {
		return fmt.Errorf("workflow %q is invalid", g.ID)
	}

	fmt.Fprintf(out, "workflow %q is valid (%d nodes, %d edges)\n", g.ID, len(g.Nodes), len(g.Edges))
	return nil
}
