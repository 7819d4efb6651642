// Package registry builds and serves the process-wide catalog of enabled
// node packages. A Registry is immutable once built; enabling or disabling
// packages means building a new Registry and swapping it in atomically.
package registry

import (
	"sort"
	"sync/atomic"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// Registry is a flat lookup from node type ID to definition across all
// enabled packages. Construction is all-or-nothing: one malformed package or
// one cross-package node type collision fails the whole build.
type Registry struct {
	packages map[string]*schema.NodePackage
	nodes    map[string]*schema.NodeTypeDefinition
	owner    map[string]string // node type ID -> package ID
}

// Build validates every package and assembles the registry.
func Build(pkgs ...*schema.NodePackage) (*Registry, error) {
	r := &Registry{
		packages: make(map[string]*schema.NodePackage, len(pkgs)),
		nodes:    make(map[string]*schema.NodeTypeDefinition),
		owner:    make(map[string]string),
	}

	for _, pkg := range pkgs {
		if err := r.register(pkg); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(pkg *schema.NodePackage) error {
	if pkg == nil {
		return schema.NewError(schema.ErrCodeValidation, "node package is nil")
	}
	if err := ValidatePackage(pkg); err != nil {
		return err
	}
	if _, exists := r.packages[pkg.ID]; exists {
		return schema.NewErrorf(schema.ErrCodeConflict, "package %q already registered", pkg.ID)
	}

	// Reject cross-package collisions before touching the maps so a failed
	// package leaves no partial node set behind.
	for id := range pkg.Nodes {
		if owner, exists := r.owner[id]; exists {
			return schema.NewErrorf(schema.ErrCodeConflict,
				"node type %q declared by both %q and %q", id, owner, pkg.ID).
				WithDetails(map[string]any{"node_type_id": id})
		}
	}

	r.packages[pkg.ID] = pkg
	for id := range pkg.Nodes {
		def := pkg.Nodes[id]
		r.nodes[id] = &def
		r.owner[id] = pkg.ID
	}
	return nil
}

// Resolve looks up a node type definition by its namespaced ID.
// Pure lookup, no side effects.
func (r *Registry) Resolve(nodeTypeID string) (*schema.NodeTypeDefinition, error) {
	def, ok := r.nodes[nodeTypeID]
	if !ok {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "unknown node type %q", nodeTypeID)
	}
	return def, nil
}

// Has reports whether a node type is registered.
func (r *Registry) Has(nodeTypeID string) bool {
	_, ok := r.nodes[nodeTypeID]
	return ok
}

// ListEnabled returns the packages whose declared platform constraints
// intersect platformFilter, sorted by package ID. With no filter, all
// packages are returned. A package with no platform constraints is enabled
// everywhere. Used to build the palette.
func (r *Registry) ListEnabled(platformFilter ...string) []*schema.NodePackage {
	var out []*schema.NodePackage
	for _, pkg := range r.packages {
		if len(platformFilter) == 0 || platformsIntersect(pkg.Platforms(), platformFilter) {
			out = append(out, pkg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NodeTypes returns all registered definitions sorted by ID.
func (r *Registry) NodeTypes() []*schema.NodeTypeDefinition {
	out := make([]*schema.NodeTypeDefinition, 0, len(r.nodes))
	for _, def := range r.nodes {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of registered node types.
func (r *Registry) Count() int {
	return len(r.nodes)
}

func platformsIntersect(declared, filter []string) bool {
	if len(declared) == 0 {
		return true
	}
	for _, d := range declared {
		for _, f := range filter {
			if d == f {
				return true
			}
		}
	}
	return false
}

// Shared is a process-wide registry slot. Rebuilding (package enable or
// disable) replaces the whole registry in one atomic swap; readers never
// observe a partially updated catalog.
type Shared struct {
	ptr atomic.Pointer[Registry]
}

// NewShared creates a Shared slot holding r.
func NewShared(r *Registry) *Shared {
	s := &Shared{}
	s.ptr.Store(r)
	return s
}

// Current returns the registry currently in effect.
func (s *Shared) Current() *Registry {
	return s.ptr.Load()
}

// Replace swaps in a newly built registry.
func (s *Shared) Replace(r *Registry) {
	s.ptr.Store(r)
}
