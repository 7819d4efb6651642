package schema

// Category groups node types in the palette UI.
type Category struct {
	Label string `json:"label" yaml:"label"`
	Icon  string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Order int    `json:"order,omitempty" yaml:"order,omitempty"`
}

// NodePackage is a named, versioned bundle of related node type definitions
// plus category metadata for palette grouping. Packages are immutable and
// loaded in full or not at all; there is no partial activation.
type NodePackage struct {
	ID         string                        `json:"id" yaml:"id"`
	Name       string                        `json:"name" yaml:"name"`
	Version    string                        `json:"version" yaml:"version"`
	Nodes      map[string]NodeTypeDefinition `json:"nodes" yaml:"nodes"`
	Categories map[string]Category           `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// Platforms returns the union of platform constraints declared by the
// package's node types. An empty result means the package is unconstrained
// and enabled everywhere.
func (p *NodePackage) Platforms() []string {
	seen := make(map[string]bool)
	var out []string
	for _, def := range p.Nodes {
		for _, plat := range def.Execution.Platforms {
			if !seen[plat] {
				seen[plat] = true
				out = append(out, plat)
			}
		}
	}
	return out
}
