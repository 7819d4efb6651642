package schema

import "encoding/json"

// NodeInstance is a concrete placement of a node type within one workflow
// graph, holding user-filled parameter values. Position is opaque layout data
// owned by the canvas; it round-trips through serialization untouched and is
// ignored by validation.
type NodeInstance struct {
	ID       string          `json:"instance_id"`
	TypeID   string          `json:"node_type_id"`
	Params   map[string]any  `json:"parameter_values"`
	Position json.RawMessage `json:"position,omitempty"`
}

// Edge connects an output port of one node instance to an input port of
// another (or the same) instance. Trigger ports connect only to trigger
// ports, data only to data.
type Edge struct {
	ID         string `json:"edge_id"`
	SourceNode string `json:"source_instance_id"`
	SourcePort string `json:"source_port_id"`
	TargetNode string `json:"target_instance_id"`
	TargetPort string `json:"target_port_id"`
}

// SameEndpoints reports whether two edges connect the same ports of the same
// instances, regardless of edge ID.
func (e Edge) SameEndpoints(other Edge) bool {
	return e.SourceNode == other.SourceNode &&
		e.SourcePort == other.SourcePort &&
		e.TargetNode == other.TargetNode &&
		e.TargetPort == other.TargetPort
}

// WorkflowGraph is the user's composition: node instances plus directed
// edges. It is owned by one editing session until saved and persisted as a
// single document.
type WorkflowGraph struct {
	ID       string         `json:"workflow_id"`
	Name     string         `json:"name"`
	Nodes    []NodeInstance `json:"nodes"`
	Edges    []Edge         `json:"edges"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Node returns the instance with the given ID, or nil.
func (g *WorkflowGraph) Node(instanceID string) *NodeInstance {
	for i := range g.Nodes {
		if g.Nodes[i].ID == instanceID {
			return &g.Nodes[i]
		}
	}
	return nil
}

// EdgesTouching returns the IDs of all edges whose source or target is the
// given instance.
func (g *WorkflowGraph) EdgesTouching(instanceID string) []string {
	var ids []string
	for _, e := range g.Edges {
		if e.SourceNode == instanceID || e.TargetNode == instanceID {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Clone returns a deep copy of the graph. Parameter values and metadata are
// copied one level deep, which is sufficient for the all-or-nothing mutation
// contract of the graph editor.
func (g *WorkflowGraph) Clone() *WorkflowGraph {
	out := &WorkflowGraph{
		ID:    g.ID,
		Name:  g.Name,
		Nodes: make([]NodeInstance, len(g.Nodes)),
		Edges: append([]Edge(nil), g.Edges...),
	}
	for i, n := range g.Nodes {
		cp := n
		cp.Params = make(map[string]any, len(n.Params))
		for k, v := range n.Params {
			cp.Params[k] = v
		}
		cp.Position = append(json.RawMessage(nil), n.Position...)
		out.Nodes[i] = cp
	}
	if g.Metadata != nil {
		out.Metadata = make(map[string]any, len(g.Metadata))
		for k, v := range g.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
