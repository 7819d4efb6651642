package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [workflow-id]",
	Short: "Print a stored workflow document, or list all stored workflows",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	ctx := cmd.Context()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		recs, err := st.ListWorkflows(ctx)
		if err != nil {
			return err
		}
		for _, rec := range recs {
			fmt.Fprintf(out, "%s  %-30s updated %s\n", rec.ID, rec.Name, rec.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	}

	rec, err := st.GetWorkflow(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(rec.Document))
	return nil
}
