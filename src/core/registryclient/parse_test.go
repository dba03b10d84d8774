package registryclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolDependencies_PerFunctionShape(t *testing.T) {
	resolved, err := json.Marshal([]ResolvedFunction{
		{
			FunctionName: "consumer_fn",
			Dependencies: []ResolvedDependency{
				{
					Capability: "cap",
					Status:     "available",
					MCPToolInfo: &MCPToolInfo{
						AgentID:  "agent-2",
						Endpoint: "http://agent-2:8080",
						Name:     "producer_fn",
					},
				},
			},
		},
	})
	require.NoError(t, err)

	resp := &Response{DependenciesResolved: resolved}
	out := ParseToolDependencies(resp)

	require.Contains(t, out, "consumer_fn")
	info := out["consumer_fn"]["cap"]
	assert.Equal(t, "available", info.Status)
	assert.Equal(t, "agent-2", info.AgentID)
	assert.Equal(t, "http://agent-2:8080", info.Endpoint)
	assert.Equal(t, "producer_fn", info.FunctionName)
}

func TestParseToolDependencies_LegacyFlatShape(t *testing.T) {
	resolved, err := json.Marshal(map[string]LegacyFlatEntry{
		"cap": {AgentID: "agent-3", Endpoint: "http://agent-3", FunctionName: "producer_fn", Status: "available"},
	})
	require.NoError(t, err)

	resp := &Response{DependenciesResolved: resolved}
	out := ParseToolDependencies(resp)

	require.Contains(t, out, legacyToolFunctionName)
	info := out[legacyToolFunctionName]["cap"]
	assert.Equal(t, "agent-3", info.AgentID)
	assert.Equal(t, "producer_fn", info.FunctionName)
}

func TestParseToolDependencies_EmptyResponseYieldsEmptyMap(t *testing.T) {
	out := ParseToolDependencies(&Response{})
	assert.Empty(t, out)
}

func TestParseToolDependencies_UnrecognizedShapeYieldsEmptyMap(t *testing.T) {
	resp := &Response{DependenciesResolved: json.RawMessage(`"not an object or array"`)}
	out := ParseToolDependencies(resp)
	assert.Empty(t, out)
}

func TestParseToolDependencies_MissingMCPToolInfoLeavesEndpointEmpty(t *testing.T) {
	resolved, err := json.Marshal([]ResolvedFunction{
		{FunctionName: "fn", Dependencies: []ResolvedDependency{{Capability: "cap", Status: "unavailable"}}},
	})
	require.NoError(t, err)

	out := ParseToolDependencies(&Response{DependenciesResolved: resolved})
	assert.Empty(t, out["fn"]["cap"].Endpoint)
}
