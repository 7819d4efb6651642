// Package graph implements the mutable workflow composition the canvas
// drives: node instances bound to registry types, directed edges between
// typed ports, and parameter edits. One Editor belongs to one interactive
// session; all operations are synchronous and atomic: on any failure the
// graph is left exactly as it was before the call.
package graph

import (
	"github.com/google/uuid"

	"github.com/andrewcho-dev/opsconductor-flow/internal/params"
	"github.com/andrewcho-dev/opsconductor-flow/internal/registry"
	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// Editor wraps a WorkflowGraph with registry-checked mutation operations.
type Editor struct {
	reg *registry.Registry
	g   *schema.WorkflowGraph
}

// NewEditor starts an empty graph with a fresh workflow ID.
func NewEditor(reg *registry.Registry, name string) *Editor {
	return &Editor{
		reg: reg,
		g: &schema.WorkflowGraph{
			ID:   uuid.New().String(),
			Name: name,
		},
	}
}

// Open wraps an existing graph (typically reloaded from storage) for
// editing. The graph is cloned; the caller's copy is not mutated.
func Open(reg *registry.Registry, g *schema.WorkflowGraph) *Editor {
	return &Editor{reg: reg, g: g.Clone()}
}

// Graph returns a deep copy of the current composition, safe to hand to the
// codec or validator while editing continues.
func (e *Editor) Graph() *schema.WorkflowGraph {
	return e.g.Clone()
}

// AddNode places a new instance of the given node type, seeding its
// parameter values with each parameter's declared default.
func (e *Editor) AddNode(nodeTypeID string, position []byte) (schema.NodeInstance, error) {
	def, err := e.reg.Resolve(nodeTypeID)
	if err != nil {
		return schema.NodeInstance{}, err
	}

	inst := schema.NodeInstance{
		ID:       uuid.New().String(),
		TypeID:   def.ID,
		Params:   params.Defaults(def),
		Position: position,
	}
	e.g.Nodes = append(e.g.Nodes, inst)
	return inst, nil
}

// RemoveNode removes an instance that has no edges touching it. If edges
// still reference the instance the call fails with DANGLING_EDGE and nothing
// changes; use RemoveNodeCascade to delete the node and its edges together.
func (e *Editor) RemoveNode(instanceID string) error {
	if e.g.Node(instanceID) == nil {
		return schema.NewErrorf(schema.ErrCodeNotFound, "unknown node instance %q", instanceID)
	}
	if touching := e.g.EdgesTouching(instanceID); len(touching) > 0 {
		return schema.NewErrorf(schema.ErrCodeDanglingEdge,
			"%d edge(s) still reference instance %q", len(touching), instanceID).
			WithNode(instanceID).
			WithDetails(map[string]any{"edge_ids": touching})
	}
	e.deleteNode(instanceID)
	return nil
}

// RemoveNodeCascade removes an instance and every edge touching it as one
// operation. This is the model's cascade-delete policy; callers never have
// to sequence edge removal themselves.
func (e *Editor) RemoveNodeCascade(instanceID string) error {
	if e.g.Node(instanceID) == nil {
		return schema.NewErrorf(schema.ErrCodeNotFound, "unknown node instance %q", instanceID)
	}
	kept := e.g.Edges[:0]
	for _, edge := range e.g.Edges {
		if edge.SourceNode != instanceID && edge.TargetNode != instanceID {
			kept = append(kept, edge)
		}
	}
	e.g.Edges = kept
	e.deleteNode(instanceID)
	return nil
}

func (e *Editor) deleteNode(instanceID string) {
	for i := range e.g.Nodes {
		if e.g.Nodes[i].ID == instanceID {
			e.g.Nodes = append(e.g.Nodes[:i], e.g.Nodes[i+1:]...)
			return
		}
	}
}

// Connect wires an output port of one instance to an input port of another.
// Port kinds must match (trigger to trigger, data to data) and the edge must
// not duplicate an existing one. Self-loops are allowed: source and target
// port live in distinct port sets, so port identity always differs.
func (e *Editor) Connect(sourceInstanceID, sourcePortID, targetInstanceID, targetPortID string) (schema.Edge, error) {
	srcDef, err := e.resolveInstanceType(sourceInstanceID)
	if err != nil {
		return schema.Edge{}, err
	}
	dstDef, err := e.resolveInstanceType(targetInstanceID)
	if err != nil {
		return schema.Edge{}, err
	}

	srcPort := srcDef.OutputPort(sourcePortID)
	if srcPort == nil {
		return schema.Edge{}, schema.NewErrorf(schema.ErrCodeUnknownPort,
			"%q is not an output port of %q", sourcePortID, srcDef.ID).WithNode(sourceInstanceID)
	}
	dstPort := dstDef.InputPort(targetPortID)
	if dstPort == nil {
		return schema.Edge{}, schema.NewErrorf(schema.ErrCodeUnknownPort,
			"%q is not an input port of %q", targetPortID, dstDef.ID).WithNode(targetInstanceID)
	}
	if srcPort.Kind != dstPort.Kind {
		return schema.Edge{}, schema.NewErrorf(schema.ErrCodePortTypeMismatch,
			"cannot connect %s port %q to %s port %q",
			srcPort.Kind, sourcePortID, dstPort.Kind, targetPortID)
	}

	candidate := schema.Edge{
		ID:         uuid.New().String(),
		SourceNode: sourceInstanceID,
		SourcePort: sourcePortID,
		TargetNode: targetInstanceID,
		TargetPort: targetPortID,
	}
	for _, existing := range e.g.Edges {
		if existing.SameEndpoints(candidate) {
			return schema.Edge{}, schema.NewErrorf(schema.ErrCodeDuplicateEdge,
				"edge %q already connects these ports", existing.ID)
		}
	}

	e.g.Edges = append(e.g.Edges, candidate)
	return candidate, nil
}

// Disconnect removes one edge by ID.
func (e *Editor) Disconnect(edgeID string) error {
	for i := range e.g.Edges {
		if e.g.Edges[i].ID == edgeID {
			e.g.Edges = append(e.g.Edges[:i], e.g.Edges[i+1:]...)
			return nil
		}
	}
	return schema.NewErrorf(schema.ErrCodeNotFound, "unknown edge %q", edgeID)
}

// SetParameter validates value against the parameter's schema and stores its
// normalized form. On validation failure the instance is unchanged.
func (e *Editor) SetParameter(instanceID, parameterID string, value any) error {
	def, err := e.resolveInstanceType(instanceID)
	if err != nil {
		return err
	}
	p := def.Parameter(parameterID)
	if p == nil {
		return schema.NewErrorf(schema.ErrCodeNotFound,
			"node type %q declares no parameter %q", def.ID, parameterID).WithNode(instanceID)
	}

	normalized, err := params.ValidateValue(p, value)
	if err != nil {
		if fe, ok := err.(*schema.FlowError); ok {
			return fe.WithNode(instanceID)
		}
		return err
	}

	inst := e.g.Node(instanceID)
	if inst.Params == nil {
		inst.Params = make(map[string]any)
	}
	inst.Params[parameterID] = normalized
	return nil
}

// MoveNode replaces an instance's opaque layout position.
func (e *Editor) MoveNode(instanceID string, position []byte) error {
	inst := e.g.Node(instanceID)
	if inst == nil {
		return schema.NewErrorf(schema.ErrCodeNotFound, "unknown node instance %q", instanceID)
	}
	inst.Position = append([]byte(nil), position...)
	return nil
}

func (e *Editor) resolveInstanceType(instanceID string) (*schema.NodeTypeDefinition, error) {
	inst := e.g.Node(instanceID)
	if inst == nil {
		return nil, schema.NewErrorf(schema.ErrCodeNotFound, "unknown node instance %q", instanceID)
	}
	return e.reg.Resolve(inst.TypeID)
}
