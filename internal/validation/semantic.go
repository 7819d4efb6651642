package validation

import (
	"fmt"

	"github.com/andrewcho-dev/opsconductor-flow/internal/params"
	"github.com/andrewcho-dev/opsconductor-flow/internal/registry"
	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// validateSemantic checks node instances and edges against the registry:
// unique instance IDs, resolvable node types, required-and-visible
// parameters present, present values well-typed, edge endpoints and port
// kinds valid.
func validateSemantic(g *schema.WorkflowGraph, reg *registry.Registry) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	seen := make(map[string]bool, len(g.Nodes))
	for i := range g.Nodes {
		inst := &g.Nodes[i]
		path := fmt.Sprintf("nodes[%s]", inst.ID)

		if inst.ID == "" {
			result.AddError(fmt.Sprintf("nodes[%d]", i), schema.ErrCodeValidation, "instance id is empty")
			continue
		}
		if seen[inst.ID] {
			result.AddError(path, schema.ErrCodeValidation,
				fmt.Sprintf("duplicate instance id %q", inst.ID))
			continue
		}
		seen[inst.ID] = true

		def, err := reg.Resolve(inst.TypeID)
		if err != nil {
			result.AddError(path, schema.ErrCodeNotFound,
				fmt.Sprintf("unknown node type %q", inst.TypeID))
			continue
		}

		validateInstanceParams(inst, def, path, result)
	}

	for _, edge := range g.Edges {
		validateEdge(g, edge, reg, result)
	}

	return result
}

// validateInstanceParams applies the same pure functions the editor uses, so
// the save-time verdict can never disagree with the live UI.
func validateInstanceParams(inst *schema.NodeInstance, def *schema.NodeTypeDefinition, path string, result *schema.ValidationResult) {
	for i := range def.Parameters {
		p := &def.Parameters[i]
		pPath := fmt.Sprintf("%s.parameters.%s", path, p.ID)

		value, has := inst.Params[p.ID]
		if has {
			if _, err := params.ValidateValue(p, value); err != nil {
				code := schema.ErrCodeValidation
				if fe, ok := err.(*schema.FlowError); ok {
					code = fe.Code
				}
				result.AddError(pPath, code, err.Error())
				continue
			}
		}

		// Required applies only to parameters visible under current values;
		// a field hidden by its visibility rule cannot be demanded.
		if p.Required && params.IsVisible(def.Parameters, p.ID, inst.Params) {
			if !has || params.IsEmpty(p, value) {
				if p.Default == nil {
					result.AddError(pPath, schema.ErrCodeMissingParameter,
						fmt.Sprintf("required parameter %q has no value", p.ID))
				}
			}
		}
	}

	// Stale keys from an older package version are tolerated but surfaced.
	for key := range inst.Params {
		if def.Parameter(key) == nil {
			result.AddWarning(fmt.Sprintf("%s.parameters.%s", path, key),
				schema.ErrCodeValidation,
				fmt.Sprintf("value for undeclared parameter %q", key))
		}
	}
}

func validateEdge(g *schema.WorkflowGraph, edge schema.Edge, reg *registry.Registry, result *schema.ValidationResult) {
	path := fmt.Sprintf("edges[%s]", edge.ID)

	src := g.Node(edge.SourceNode)
	if src == nil {
		result.AddError(path, schema.ErrCodeNotFound,
			fmt.Sprintf("source instance %q does not exist", edge.SourceNode))
		return
	}
	dst := g.Node(edge.TargetNode)
	if dst == nil {
		result.AddError(path, schema.ErrCodeNotFound,
			fmt.Sprintf("target instance %q does not exist", edge.TargetNode))
		return
	}

	srcDef, err := reg.Resolve(src.TypeID)
	if err != nil {
		return // unknown node type already reported per instance
	}
	dstDef, err := reg.Resolve(dst.TypeID)
	if err != nil {
		return
	}

	srcPort := srcDef.OutputPort(edge.SourcePort)
	if srcPort == nil {
		result.AddError(path, schema.ErrCodeUnknownPort,
			fmt.Sprintf("%q is not an output port of %q", edge.SourcePort, srcDef.ID))
		return
	}
	dstPort := dstDef.InputPort(edge.TargetPort)
	if dstPort == nil {
		result.AddError(path, schema.ErrCodeUnknownPort,
			fmt.Sprintf("%q is not an input port of %q", edge.TargetPort, dstDef.ID))
		return
	}

	if srcPort.Kind != dstPort.Kind {
		result.AddError(path, schema.ErrCodePortTypeMismatch,
			fmt.Sprintf("%s port %q connected to %s port %q",
				srcPort.Kind, edge.SourcePort, dstPort.Kind, edge.TargetPort))
	}
}
