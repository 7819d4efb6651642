package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var packagesFlags struct {
	platform string
	nodes    bool
}

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List node packages in the catalog",
	RunE:  runPackages,
}

func init() {
	f := packagesCmd.Flags()
	f.StringVar(&packagesFlags.platform, "platform", "", "Only show packages usable on this platform")
	f.BoolVar(&packagesFlags.nodes, "nodes", false, "Also list the node types of each package")
}

func runPackages(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	var pkgs = reg.ListEnabled()
	if packagesFlags.platform != "" {
		pkgs = reg.ListEnabled(packagesFlags.platform)
	}

	out := cmd.OutOrStdout()
	for _, pkg := range pkgs {
		fmt.Fprintf(out, "%s %s (%d node types)\n", pkg.ID, pkg.Version, len(pkg.Nodes))
		if !packagesFlags.nodes {
			continue
		}
		ids := make([]string, 0, len(pkg.Nodes))
		for id := range pkg.Nodes {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			def := pkg.Nodes[id]
			fmt.Fprintf(out, "  %-28s %s\n", id, def.Name)
		}
	}
	return nil
}
