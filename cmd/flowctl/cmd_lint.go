package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrewcho-dev/opsconductor-flow/internal/packages"
	"github.com/andrewcho-dev/opsconductor-flow/internal/registry"
)

var lintCmd = &cobra.Command{
	Use:   "lint <manifest.yaml> [more manifests...]",
	Short: "Check package manifests without installing them",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLint,
}

func runLint(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0

	for _, path := range args {
		pkg, err := registry.LoadManifestFile(path)
		if err != nil {
			fmt.Fprintf(out, "FAIL %s\n  %v\n", path, err)
			failed++
			continue
		}

		// A manifest must also build cleanly against the builtin packages,
		// which catches node type ID collisions with the core catalog.
		pkgs := append(packages.Builtin(), pkg)
		if _, err := registry.Build(pkgs...); err != nil {
			fmt.Fprintf(out, "FAIL %s\n  %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "OK   %s (%s %s, %d node types)\n", path, pkg.ID, pkg.Version, len(pkg.Nodes))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d manifests failed", failed, len(args))
	}
	return nil
}
