package main

import (
	"github.com/spf13/cobra"

	"github.com/andrewcho-dev/opsconductor-flow/internal/registry"
	"github.com/andrewcho-dev/opsconductor-flow/pkg/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog and workflow store over MCP on stdio",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	logger := newLogger(cfg.LogLevel)

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := mcp.NewFlowServer(mcp.FlowServerDeps{
		Registry:    registry.NewShared(reg),
		Store:       st,
		ManifestDir: cfg.ManifestDir,
		Logger:      logger,
	})
	logger.InfoContext(ctx, "serving MCP on stdio", "node_types", reg.Count())
	return srv.Serve(ctx)
}
