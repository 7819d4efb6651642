package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrewcho-dev/opsconductor-flow/internal/codec"
	"github.com/andrewcho-dev/opsconductor-flow/internal/store"
	"github.com/andrewcho-dev/opsconductor-flow/internal/validation"
)

var saveFlags struct {
	force bool
}

var saveCmd = &cobra.Command{
	Use:   "save <workflow.json>",
	Short: "Validate a workflow document and persist it to the store",
	Args:  cobra.ExactArgs(1),
	RunE:  runSave,
}

func init() {
	saveCmd.Flags().BoolVar(&saveFlags.force, "force", false, "Save even if the document has validation errors")
}

func runSave(cmd *cobra.Command, args []string) error {
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
	if !result.Valid() {
		for _, line := range issueLines(result.Errors) {
			fmt.Fprintln(out, line)
		}
		if !saveFlags.force {
			return fmt.Errorf("workflow %q has %d validation error(s); use --force to save anyway", g.ID, len(result.Errors))
		}
		fmt.Fprintln(out, "saving despite validation errors (--force)")
	}

	doc, err := codec.Serialize(g)
	if err != nil {
		return fmt.Errorf("serialize workflow: %w", err)
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	now := time.Now().UTC()
	rec := &store.WorkflowRecord{
		ID:        g.ID,
		Name:      g.Name,
		Document:  doc,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := st.SaveWorkflow(ctx, rec); err != nil {
		return fmt.Errorf("save workflow: %w", err)
	}

	fmt.Fprintf(out, "saved workflow %q (%d warnings)\n", g.ID, len(result.Warnings))
	return nil
}
