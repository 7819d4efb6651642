package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

func testPackage(id string, nodeNames ...string) *schema.NodePackage {
	nodes := make(map[string]schema.NodeTypeDefinition, len(nodeNames))
	for _, name := range nodeNames {
		nodeID := id + ":" + name
		nodes[nodeID] = schema.NodeTypeDefinition{
			ID:       nodeID,
			Name:     name,
			Executor: "builtin_" + name,
			Outputs:  []schema.Port{{ID: "out", Kind: schema.PortData}},
		}
	}
	return &schema.NodePackage{ID: id, Name: id, Version: "1.0.0", Nodes: nodes}
}

func TestBuild_ResolveAndCount(t *testing.T) {
	reg, err := Build(testPackage("alpha", "ping", "trace"), testPackage("beta", "scan"))
	require.NoError(t, err)

	assert.Equal(t, 3, reg.Count())
	assert.True(t, reg.Has("alpha:ping"))

	def, err := reg.Resolve("beta:scan")
	require.NoError(t, err)
	assert.Equal(t, "scan", def.Name)
}

func TestBuild_ResolveUnknown(t *testing.T) {
	reg, err := Build(testPackage("alpha", "ping"))
	require.NoError(t, err)

	_, err = reg.Resolve("alpha:missing")
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeNotFound, schema.CodeOf(err))
}

func TestBuild_DuplicatePackageID(t *testing.T) {
	_, err := Build(testPackage("alpha", "ping"), testPackage("alpha", "scan"))
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeConflict, schema.CodeOf(err))
}

func TestBuild_CrossPackageNodeCollision(t *testing.T) {
	a := testPackage("alpha", "ping")
	b := testPackage("beta", "scan")
	// Smuggle alpha's node ID into beta.
	def := a.Nodes["alpha:ping"]
	b.Nodes["alpha:ping"] = def

	_, err := Build(a, b)
	require.Error(t, err)
	// beta fails its own namespace check before the collision is reached,
	// still an all-or-nothing failure.
	assert.Contains(t, []string{schema.ErrCodeConflict, schema.ErrCodeValidation}, schema.CodeOf(err))
}

func TestBuild_AllOrNothing(t *testing.T) {
	bad := testPackage("gamma", "x")
	node := bad.Nodes["gamma:x"]
	node.Executor = ""
	bad.Nodes["gamma:x"] = node

	_, err := Build(testPackage("alpha", "ping"), bad)
	require.Error(t, err)
}

func TestListEnabled_SortedByID(t *testing.T) {
	reg, err := Build(testPackage("zeta", "z"), testPackage("alpha", "a"))
	require.NoError(t, err)

	pkgs := reg.ListEnabled()
	require.Len(t, pkgs, 2)
	assert.Equal(t, "alpha", pkgs[0].ID)
	assert.Equal(t, "zeta", pkgs[1].ID)
}

func TestListEnabled_PlatformFilter(t *testing.T) {
	anywhere := testPackage("alpha", "ping")

	linuxOnly := testPackage("beta", "scan")
	def := linuxOnly.Nodes["beta:scan"]
	def.Execution = schema.ExecutionContext{Platforms: []string{"linux"}}
	linuxOnly.Nodes["beta:scan"] = def

	reg, err := Build(anywhere, linuxOnly)
	require.NoError(t, err)

	// No platform declarations means enabled everywhere.
	all := reg.ListEnabled("windows")
	require.Len(t, all, 1)
	assert.Equal(t, "alpha", all[0].ID)

	linux := reg.ListEnabled("linux")
	assert.Len(t, linux, 2)
}

func TestShared_AtomicSwap(t *testing.T) {
	first, err := Build(testPackage("alpha", "ping"))
	require.NoError(t, err)

	shared := NewShared(first)
	assert.Equal(t, 1, shared.Current().Count())

	second, err := Build(testPackage("alpha", "ping"), testPackage("beta", "scan"))
	require.NoError(t, err)
	shared.Replace(second)
	assert.Equal(t, 2, shared.Current().Count())
}
