package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewcho-dev/opsconductor-flow/internal/packages"
	"github.com/andrewcho-dev/opsconductor-flow/internal/registry"
	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

func newEditor(t *testing.T) *Editor {
	t.Helper()
	reg, err := registry.Build(packages.Builtin()...)
	require.NoError(t, err)
	return NewEditor(reg, "test workflow")
}

func TestAddNode_SeedsDefaults(t *testing.T) {
	e := newEditor(t)

	inst, err := e.AddNode("core:http_request", []byte(`{"x":100,"y":50}`))
	require.NoError(t, err)
	assert.NotEmpty(t, inst.ID)
	assert.Equal(t, "core:http_request", inst.TypeID)
	assert.Equal(t, "GET", inst.Params["method"])
	assert.Equal(t, float64(30), inst.Params["timeout_seconds"])
	// No default declared, so no seeded value.
	assert.NotContains(t, inst.Params, "url")
}

func TestAddNode_UnknownType(t *testing.T) {
	e := newEditor(t)
	_, err := e.AddNode("core:nonexistent", nil)
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeNotFound, schema.CodeOf(err))
}

func TestConnect_TriggerToTrigger(t *testing.T) {
	e := newEditor(t)
	cron, err := e.AddNode("core:schedule_cron", nil)
	require.NoError(t, err)
	http, err := e.AddNode("core:http_request", nil)
	require.NoError(t, err)

	edge, err := e.Connect(cron.ID, "tick", http.ID, "run")
	require.NoError(t, err)
	assert.NotEmpty(t, edge.ID)
	assert.Equal(t, cron.ID, edge.SourceNode)
}

func TestConnect_KindMismatch(t *testing.T) {
	e := newEditor(t)
	http, err := e.AddNode("core:http_request", nil)
	require.NoError(t, err)
	xform, err := e.AddNode("core:transform", nil)
	require.NoError(t, err)

	// success is a trigger output, in is a data input.
	_, err = e.Connect(http.ID, "success", xform.ID, "in")
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodePortTypeMismatch, schema.CodeOf(err))

	// A failed connect leaves the graph unchanged.
	assert.Empty(t, e.Graph().Edges)
}

func TestConnect_UnknownPort(t *testing.T) {
	e := newEditor(t)
	cron, err := e.AddNode("core:schedule_cron", nil)
	require.NoError(t, err)
	http, err := e.AddNode("core:http_request", nil)
	require.NoError(t, err)

	_, err = e.Connect(cron.ID, "bogus", http.ID, "run")
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeUnknownPort, schema.CodeOf(err))

	_, err = e.Connect(cron.ID, "tick", http.ID, "bogus")
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeUnknownPort, schema.CodeOf(err))
}

func TestConnect_DuplicateEdge(t *testing.T) {
	e := newEditor(t)
	cron, err := e.AddNode("core:schedule_cron", nil)
	require.NoError(t, err)
	http, err := e.AddNode("core:http_request", nil)
	require.NoError(t, err)

	_, err = e.Connect(cron.ID, "tick", http.ID, "run")
	require.NoError(t, err)
	_, err = e.Connect(cron.ID, "tick", http.ID, "run")
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeDuplicateEdge, schema.CodeOf(err))
	assert.Len(t, e.Graph().Edges, 1)
}

func TestRemoveNode_StrictRefusesWithEdges(t *testing.T) {
	e := newEditor(t)
	cron, err := e.AddNode("core:schedule_cron", nil)
	require.NoError(t, err)
	http, err := e.AddNode("core:http_request", nil)
	require.NoError(t, err)
	edge, err := e.Connect(cron.ID, "tick", http.ID, "run")
	require.NoError(t, err)

	err = e.RemoveNode(http.ID)
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeDanglingEdge, schema.CodeOf(err))

	var fe *schema.FlowError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{edge.ID}, fe.Details["edge_ids"])

	// Nothing removed.
	g := e.Graph()
	assert.Len(t, g.Nodes, 2)
	assert.Len(t, g.Edges, 1)
}

func TestRemoveNodeCascade_DropsEdges(t *testing.T) {
	e := newEditor(t)
	cron, err := e.AddNode("core:schedule_cron", nil)
	require.NoError(t, err)
	http, err := e.AddNode("core:http_request", nil)
	require.NoError(t, err)
	email, err := e.AddNode("core:email", nil)
	require.NoError(t, err)

	_, err = e.Connect(cron.ID, "tick", http.ID, "run")
	require.NoError(t, err)
	keep, err := e.Connect(http.ID, "success", email.ID, "run")
	require.NoError(t, err)

	require.NoError(t, e.RemoveNodeCascade(cron.ID))

	g := e.Graph()
	assert.Len(t, g.Nodes, 2)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, keep.ID, g.Edges[0].ID)
}

func TestSetParameter_Normalizes(t *testing.T) {
	e := newEditor(t)
	http, err := e.AddNode("core:http_request", nil)
	require.NoError(t, err)

	require.NoError(t, e.SetParameter(http.ID, "timeout_seconds", 60))
	g := e.Graph()
	assert.Equal(t, float64(60), g.Node(http.ID).Params["timeout_seconds"])
}

func TestSetParameter_RejectsInvalid(t *testing.T) {
	e := newEditor(t)
	http, err := e.AddNode("core:http_request", nil)
	require.NoError(t, err)

	err = e.SetParameter(http.ID, "method", "TRACE")
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeValidation, schema.CodeOf(err))
	// Default untouched.
	assert.Equal(t, "GET", e.Graph().Node(http.ID).Params["method"])

	err = e.SetParameter(http.ID, "no_such_param", "x")
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeNotFound, schema.CodeOf(err))
}

func TestGraph_ReturnsIndependentCopy(t *testing.T) {
	e := newEditor(t)
	http, err := e.AddNode("core:http_request", nil)
	require.NoError(t, err)

	snap := e.Graph()
	require.NoError(t, e.SetParameter(http.ID, "url", "https://example.com"))

	assert.NotContains(t, snap.Node(http.ID).Params, "url")
	assert.Equal(t, "https://example.com", e.Graph().Node(http.ID).Params["url"])
}

func TestOpen_DoesNotMutateCaller(t *testing.T) {
	e := newEditor(t)
	_, err := e.AddNode("core:schedule_cron", nil)
	require.NoError(t, err)
	original := e.Graph()

	reg, err := registry.Build(packages.Builtin()...)
	require.NoError(t, err)
	e2 := Open(reg, original)
	_, err = e2.AddNode("core:email", nil)
	require.NoError(t, err)

	assert.Len(t, original.Nodes, 1)
	assert.Len(t, e2.Graph().Nodes, 2)
}
