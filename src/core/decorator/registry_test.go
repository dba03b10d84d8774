package decorator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noopTool(ctx context.Context, args map[string]any) (any, error) { return nil, nil }

func TestRegisterTool_DuplicateFunctionNameRejected(t *testing.T) {
	store := New(nil)

	err := store.RegisterTool(noopTool, ToolMetadata{FunctionName: "f1", Capability: "cap"})
	require.NoError(t, err)

	err = store.RegisterTool(noopTool, ToolMetadata{FunctionName: "f1", Capability: "cap2"})
	require.Error(t, err)
}

func TestRegisterTool_TriggersCallback(t *testing.T) {
	calls := 0
	store := New(func() { calls++ })

	require.NoError(t, store.RegisterTool(noopTool, ToolMetadata{FunctionName: "f1", Capability: "cap"}))
	require.NoError(t, store.RegisterAgent(AgentMetadata{AgentName: "a1"}))

	assert.Equal(t, 2, calls)
}

func TestRegisterTool_RejectsEmptyCapability(t *testing.T) {
	store := New(nil)
	err := store.RegisterTool(noopTool, ToolMetadata{FunctionName: "f1"})
	require.Error(t, err)
}

func TestRegisterTool_ValidatesVersionConstraint(t *testing.T) {
	store := New(nil)
	err := store.RegisterTool(noopTool, ToolMetadata{
		FunctionName: "f1",
		Capability:   "cap",
		Dependencies: []Dependency{{Capability: "dep", VersionConstraint: "not-a-constraint!!"}},
	})
	require.Error(t, err)
}

func TestRegisterAgent_RejectsOutOfRangePort(t *testing.T) {
	store := New(nil)
	err := store.RegisterAgent(AgentMetadata{AgentName: "a1", HTTPPort: 70000})
	require.Error(t, err)
}

func TestGetTools_ReturnsSnapshotCopy(t *testing.T) {
	store := New(nil)
	require.NoError(t, store.RegisterTool(noopTool, ToolMetadata{FunctionName: "f1", Capability: "cap"}))

	snapshot := store.GetTools()
	delete(snapshot, "f1")

	assert.Len(t, store.GetTools(), 1, "mutating the snapshot must not affect the store")
}

func TestClear_RemovesAllEntries(t *testing.T) {
	store := New(nil)
	require.NoError(t, store.RegisterTool(noopTool, ToolMetadata{FunctionName: "f1", Capability: "cap"}))
	require.NoError(t, store.RegisterAgent(AgentMetadata{AgentName: "a1"}))

	store.Clear()

	assert.Equal(t, map[string]int{"tool": 0, "agent": 0, "total": 0}, store.Stats())
}

func TestStats_CountsByKind(t *testing.T) {
	store := New(nil)
	require.NoError(t, store.RegisterTool(noopTool, ToolMetadata{FunctionName: "f1", Capability: "cap"}))
	require.NoError(t, store.RegisterTool(noopTool, ToolMetadata{FunctionName: "f2", Capability: "cap2"}))
	require.NoError(t, store.RegisterAgent(AgentMetadata{AgentName: "a1"}))

	assert.Equal(t, map[string]int{"tool": 2, "agent": 1, "total": 3}, store.Stats())
}
