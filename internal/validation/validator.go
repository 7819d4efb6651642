// Package validation runs the save-time checks over an entire workflow
// graph. The validator reports a list of severity-tagged issues rather than
// a single verdict: errors block save, warnings render inline and do not.
// It is read-only and deterministic: validating an unchanged graph twice
// yields identical results.
package validation

import (
	"github.com/andrewcho-dev/opsconductor-flow/internal/registry"
	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// GraphValidator checks workflow graphs against a registry.
type GraphValidator struct {
	reg *registry.Registry
}

// NewGraphValidator creates a GraphValidator bound to reg.
func NewGraphValidator(reg *registry.Registry) *GraphValidator {
	return &GraphValidator{reg: reg}
}

// Validate runs the two-stage pipeline: semantic checks (node types,
// parameters, edge endpoints and port typing), then graph analysis (data
// cycles, unreachable trigger chains). Graph analysis is skipped when
// semantic errors exist, since the adjacency may not be meaningful.
func (v *GraphValidator) Validate(g *schema.WorkflowGraph) *schema.ValidationResult {
	if g == nil {
		r := &schema.ValidationResult{}
		r.AddError("/", schema.ErrCodeValidation, "workflow graph is nil")
		return r
	}

	result := validateSemantic(g, v.reg)
	if result.Valid() {
		result.Merge(validateGraph(g, v.reg))
	}
	return result
}
