package codec

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

func sampleGraph() *schema.WorkflowGraph {
	return &schema.WorkflowGraph{
		ID:   "wf-42",
		Name: "link watch",
		Nodes: []schema.NodeInstance{
			{
				ID:     "cron",
				TypeID: "core:schedule_cron",
				Params: map[string]any{
					"expression": "*/5 * * * *",
					"timezone":   "UTC",
				},
				Position: json.RawMessage(`{"x":120,"y":40}`),
			},
			{
				ID:     "probe",
				TypeID: "core:http_request",
				Params: map[string]any{
					"method":          "GET",
					"url":             "https://example.com/health",
					"timeout_seconds": float64(30),
					"verify_tls":      true,
					"headers": []any{
						map[string]any{"key": "Accept", "value": "application/json"},
					},
				},
			},
		},
		Edges: []schema.Edge{
			{ID: "e1", SourceNode: "cron", SourcePort: "tick", TargetNode: "probe", TargetPort: "run"},
		},
		Metadata: map[string]any{"created_by": "ops"},
	}
}

func TestRoundTrip_Exact(t *testing.T) {
	g := sampleGraph()

	data, err := Serialize(g)
	require.NoError(t, err)

	got, err := Deserialize(data)
	require.NoError(t, err)

	if diff := cmp.Diff(g, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip_Twice(t *testing.T) {
	first, err := Serialize(sampleGraph())
	require.NoError(t, err)

	g, err := Deserialize(first)
	require.NoError(t, err)

	second, err := Serialize(g)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}

func TestSerialize_EmptyGraphEmitsArrays(t *testing.T) {
	data, err := Serialize(&schema.WorkflowGraph{ID: "wf-0", Name: "empty"})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []any{}, raw["nodes"])
	assert.Equal(t, []any{}, raw["edges"])

	// And the empty document deserializes back.
	_, err = Deserialize(data)
	assert.NoError(t, err)
}

func TestSerialize_DoesNotMutateInput(t *testing.T) {
	g := sampleGraph()
	_, err := Serialize(g)
	require.NoError(t, err)
	assert.Len(t, g.Edges, 1)
	assert.Len(t, g.Nodes, 2)
}

func TestSerialize_Nil(t *testing.T) {
	_, err := Serialize(nil)
	require.Error(t, err)
}

func TestDeserialize_InvalidJSON(t *testing.T) {
	_, err := Deserialize([]byte(`{"workflow_id": `))
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeMalformedDoc, schema.CodeOf(err))
}

func TestDeserialize_MissingRequiredKeys(t *testing.T) {
	_, err := Deserialize([]byte(`{"workflow_id": "wf-1", "name": "x"}`))
	require.Error(t, err)

	var fe *schema.FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, schema.ErrCodeMalformedDoc, fe.Code)
	assert.NotEmpty(t, fe.Details["violations"])
}

func TestDeserialize_UnknownTopLevelKey(t *testing.T) {
	_, err := Deserialize([]byte(`{
		"workflow_id": "wf-1", "name": "x", "nodes": [], "edges": [],
		"schema_version": 2
	}`))
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeMalformedDoc, schema.CodeOf(err))
}

func TestDeserialize_DuplicateInstanceID(t *testing.T) {
	_, err := Deserialize([]byte(`{
		"workflow_id": "wf-1", "name": "x",
		"nodes": [
			{"instance_id": "a", "node_type_id": "core:email", "parameter_values": {}},
			{"instance_id": "a", "node_type_id": "core:email", "parameter_values": {}}
		],
		"edges": []
	}`))
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeMalformedDoc, schema.CodeOf(err))
	assert.Contains(t, err.Error(), "duplicate instance id")
}

func TestDeserialize_DuplicateEdgeID(t *testing.T) {
	_, err := Deserialize([]byte(`{
		"workflow_id": "wf-1", "name": "x",
		"nodes": [
			{"instance_id": "a", "node_type_id": "core:transform", "parameter_values": {}},
			{"instance_id": "b", "node_type_id": "core:transform", "parameter_values": {}}
		],
		"edges": [
			{"edge_id": "e1", "source_instance_id": "a", "source_port_id": "out",
			 "target_instance_id": "b", "target_port_id": "in"},
			{"edge_id": "e1", "source_instance_id": "b", "source_port_id": "out",
			 "target_instance_id": "a", "target_port_id": "in"}
		]
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate edge id")
}

// Unknown node types are a semantic concern, not a structural one: the
// document still parses.
func TestDeserialize_UnknownNodeTypeStillParses(t *testing.T) {
	g, err := Deserialize([]byte(`{
		"workflow_id": "wf-1", "name": "x",
		"nodes": [
			{"instance_id": "a", "node_type_id": "ghost:item", "parameter_values": {}}
		],
		"edges": []
	}`))
	require.NoError(t, err)
	assert.Equal(t, "ghost:item", g.Nodes[0].TypeID)
}

func TestDeserialize_PositionCarriedVerbatim(t *testing.T) {
	g, err := Deserialize([]byte(`{
		"workflow_id": "wf-1", "name": "x",
		"nodes": [
			{"instance_id": "a", "node_type_id": "core:email", "parameter_values": {},
			 "position": {"x": 1.5, "y": -7, "pinned": true}}
		],
		"edges": []
	}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"x": 1.5, "y": -7, "pinned": true}`, string(g.Nodes[0].Position))
}
