package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/andrewcho-dev/opsconductor-flow/internal/registry"
	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// validateGraph performs structure analysis on a semantically valid graph:
// cycle detection over data-port edges (Kahn's algorithm) and a reachability
// warning for trigger-driven nodes with no incoming trigger edge. Trigger
// chains may loop; only pure data dependencies must form a DAG, because the
// execution backend resolves data flow topologically.
func validateGraph(g *schema.WorkflowGraph, reg *registry.Registry) *schema.ValidationResult {
	result := &schema.ValidationResult{}

	// Split edges by port kind. Semantic validation guarantees both ends
	// resolve, so kind lookup cannot fail here.
	dataOut := make(map[string][]string, len(g.Nodes))
	triggerIn := make(map[string]int, len(g.Nodes))
	for _, edge := range g.Edges {
		src := g.Node(edge.SourceNode)
		srcDef, _ := reg.Resolve(src.TypeID)
		switch srcDef.OutputPort(edge.SourcePort).Kind {
		case schema.PortData:
			dataOut[edge.SourceNode] = append(dataOut[edge.SourceNode], edge.TargetNode)
		case schema.PortTrigger:
			triggerIn[edge.TargetNode]++
		}
	}

	// Kahn's algorithm over data edges only.
	inDegree := make(map[string]int, len(g.Nodes))
	for _, inst := range g.Nodes {
		inDegree[inst.ID] = 0
	}
	for _, targets := range dataOut {
		for _, t := range targets {
			inDegree[t]++
		}
	}

	queue := make([]string, 0, len(g.Nodes))
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	visited := 0
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range dataOut[node] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if visited != len(g.Nodes) {
		var members []string
		for id, deg := range inDegree {
			if deg > 0 {
				members = append(members, id)
			}
		}
		sort.Strings(members)
		result.AddError("edges", schema.ErrCodeCycleDetected,
			fmt.Sprintf("cyclic data dependency through instances %s", strings.Join(members, ", ")))
		return result
	}

	// A node whose inputs are all required trigger ports needs at least one
	// incoming trigger edge. Nodes without inputs (schedule triggers) are
	// valid entry points and never flagged.
	for _, inst := range g.Nodes {
		def, _ := reg.Resolve(inst.TypeID)
		if len(def.Inputs) == 0 || triggerIn[inst.ID] > 0 {
			continue
		}
		allRequiredTriggers := true
		for _, port := range def.Inputs {
			if port.Kind != schema.PortTrigger || !port.Required {
				allRequiredTriggers = false
				break
			}
		}
		if allRequiredTriggers {
			result.AddWarning(fmt.Sprintf("nodes[%s]", inst.ID), schema.ErrCodeUnreachable,
				fmt.Sprintf("instance %q is never triggered", inst.ID))
		}
	}

	return result
}
