// Package codec converts workflow graphs to and from their persisted JSON
// document form. Deserialization answers only "can I parse this"; missing
// top-level keys or duplicate identities fail with MALFORMED_DOCUMENT before
// any semantic validation, which the caller runs separately against the
// registry once a graph is reconstructed.
package codec

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// documentSchemaJSON is the JSON Schema for persisted workflow documents.
const documentSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://opsconductor.dev/schemas/workflow-document.json",
  "type": "object",
  "required": ["workflow_id", "name", "nodes", "edges"],
  "properties": {
    "workflow_id": { "type": "string", "minLength": 1 },
    "name": { "type": "string" },
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["instance_id", "node_type_id", "parameter_values"],
        "properties": {
          "instance_id": { "type": "string", "minLength": 1 },
          "node_type_id": { "type": "string", "minLength": 1 },
          "parameter_values": { "type": "object" },
          "position": {}
        },
        "additionalProperties": false
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["edge_id", "source_instance_id", "source_port_id",
                     "target_instance_id", "target_port_id"],
        "properties": {
          "edge_id": { "type": "string", "minLength": 1 },
          "source_instance_id": { "type": "string", "minLength": 1 },
          "source_port_id": { "type": "string", "minLength": 1 },
          "target_instance_id": { "type": "string", "minLength": 1 },
          "target_port_id": { "type": "string", "minLength": 1 }
        },
        "additionalProperties": false
      }
    },
    "metadata": { "type": "object" }
  },
  "additionalProperties": false
}`

var documentSchema = mustCompileDocumentSchema()

func mustCompileDocumentSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.AssertFormat()
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(documentSchemaJSON))
	if err != nil {
		panic(fmt.Sprintf("unmarshal document schema: %v", err))
	}
	if err := c.AddResource("https://opsconductor.dev/schemas/workflow-document.json", doc); err != nil {
		panic(fmt.Sprintf("add document schema resource: %v", err))
	}
	s, err := c.Compile("https://opsconductor.dev/schemas/workflow-document.json")
	if err != nil {
		panic(fmt.Sprintf("compile document schema: %v", err))
	}
	return s
}

// Serialize emits the persistence-ready document for a graph. Identity and
// all field values round-trip exactly; positions and metadata are carried
// verbatim without interpretation.
func Serialize(g *schema.WorkflowGraph) ([]byte, error) {
	if g == nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "workflow graph is nil")
	}
	out := g.Clone()
	if out.Nodes == nil {
		out.Nodes = []schema.NodeInstance{}
	}
	if out.Edges == nil {
		out.Edges = []schema.Edge{}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeValidation, "serialize workflow graph").WithCause(err)
	}
	return data, nil
}

// Deserialize reconstructs a graph from its document form. Structural
// corruption, meaning invalid JSON, missing required keys, duplicate instance or
// edge IDs, fails with MALFORMED_DOCUMENT. The result has not been
// semantically validated.
func Deserialize(data []byte) (*schema.WorkflowGraph, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(data)))
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeMalformedDoc, "document is not valid JSON").WithCause(err)
	}
	if err := documentSchema.Validate(doc); err != nil {
		return nil, documentSchemaError(err)
	}

	var g schema.WorkflowGraph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, schema.NewError(schema.ErrCodeMalformedDoc, "document does not decode into a workflow graph").WithCause(err)
	}

	seenNodes := make(map[string]bool, len(g.Nodes))
	for _, inst := range g.Nodes {
		if seenNodes[inst.ID] {
			return nil, schema.NewErrorf(schema.ErrCodeMalformedDoc,
				"duplicate instance id %q in document", inst.ID)
		}
		seenNodes[inst.ID] = true
	}
	seenEdges := make(map[string]bool, len(g.Edges))
	for _, edge := range g.Edges {
		if seenEdges[edge.ID] {
			return nil, schema.NewErrorf(schema.ErrCodeMalformedDoc,
				"duplicate edge id %q in document", edge.ID)
		}
		seenEdges[edge.ID] = true
	}

	return &g, nil
}

// documentSchemaError converts a jsonschema.ValidationError into a
// MALFORMED_DOCUMENT FlowError listing each violation.
func documentSchemaError(err error) *schema.FlowError {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return schema.NewError(schema.ErrCodeMalformedDoc, err.Error())
	}
	violations := collectViolations(verr)
	msg := "document failed structural validation"
	if len(violations) == 1 {
		msg = violations[0]
	}
	return schema.NewError(schema.ErrCodeMalformedDoc, msg).
		WithDetails(map[string]any{"violations": violations})
}

func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/"
		if len(verr.InstanceLocation) > 0 {
			loc = "/" + strings.Join(verr.InstanceLocation, "/")
		}
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}
	var violations []string
	for _, cause := range verr.Causes {
		violations = append(violations, collectViolations(cause)...)
	}
	return violations
}
