package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/andrewcho-dev/opsconductor-flow/internal/packages"
	"github.com/andrewcho-dev/opsconductor-flow/internal/registry"
	"github.com/andrewcho-dev/opsconductor-flow/internal/store"
	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// buildRegistry assembles the node catalog from the builtin packages plus
// any manifests found in the configured manifest directory.
func buildRegistry(cfg Config) (*registry.Registry, error) {
	pkgs := packages.Builtin()
	if cfg.ManifestDir != "" {
		loaded, err := registry.LoadManifestDir(cfg.ManifestDir)
		if err != nil {
			return nil, fmt.Errorf("load manifests: %w", err)
		}
		pkgs = append(pkgs, loaded...)
	}
	reg, err := registry.Build(pkgs...)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return reg, nil
}

// openStore opens the workflow store, creating the parent directory and
// running migrations on first use.
func openStore(ctx context.Context, cfg Config) (store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	st, err := store.NewLibSQLStore("file:" + cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	return st, nil
}

// issueLines renders validation issues one per line for terminal output.
func issueLines(issues []schema.ValidationIssue) []string {
	lines := make([]string, 0, len(issues))
	for _, iss := range issues {
		lines = append(lines, fmt.Sprintf("  %s: [%s] %s", iss.Path, iss.Code, iss.Message))
	}
	return lines
}
