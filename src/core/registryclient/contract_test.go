package registryclient

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// fixtureMCPToolInfo and friends mirror the wire shape with yaml tags,
// kept separate from the json-tagged production types in types.go so
// the fixture file reads as a contract document rather than an
// implementation detail.
type fixtureMCPToolInfo struct {
	AgentID  string `yaml:"agent_id"`
	Endpoint string `yaml:"endpoint"`
	Name     string `yaml:"name"`
}

type fixtureDependency struct {
	Capability  string              `yaml:"capability"`
	Status      string              `yaml:"status"`
	MCPToolInfo *fixtureMCPToolInfo `yaml:"mcp_tool_info"`
}

type fixtureFunction struct {
	FunctionName string              `yaml:"function_name"`
	Dependencies []fixtureDependency `yaml:"dependencies"`
}

type fixtureCase struct {
	Name           string            `yaml:"name"`
	Functions      []fixtureFunction `yaml:"functions"`
	WantFunction   string            `yaml:"want_function"`
	WantCapability string            `yaml:"want_capability"`
	WantAgentID    string            `yaml:"want_agent_id"`
}

type fixtureFile struct {
	Cases []fixtureCase `yaml:"cases"`
}

// TestParseToolDependencies_ContractFixture loads a YAML-documented
// contract for the dependencies_resolved shape and drives
// ParseToolDependencies through its real JSON decode path, so the
// fixture doubles as readable documentation of the wire contract
// (spec §11 domain stack: yaml.v3 backs test fixtures, not runtime
// config parsing).
func TestParseToolDependencies_ContractFixture(t *testing.T) {
	raw, err := os.ReadFile("testdata/dependency_contract.yaml")
	require.NoError(t, err)

	var doc fixtureFile
	require.NoError(t, yaml.Unmarshal(raw, &doc))
	require.NotEmpty(t, doc.Cases)

	for _, tc := range doc.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			functions := make([]ResolvedFunction, 0, len(tc.Functions))
			for _, fn := range tc.Functions {
				deps := make([]ResolvedDependency, 0, len(fn.Dependencies))
				for _, d := range fn.Dependencies {
					rd := ResolvedDependency{Capability: d.Capability, Status: d.Status}
					if d.MCPToolInfo != nil {
						rd.MCPToolInfo = &MCPToolInfo{
							AgentID:  d.MCPToolInfo.AgentID,
							Endpoint: d.MCPToolInfo.Endpoint,
							Name:     d.MCPToolInfo.Name,
						}
					}
					deps = append(deps, rd)
				}
				functions = append(functions, ResolvedFunction{FunctionName: fn.FunctionName, Dependencies: deps})
			}

			encoded, err := json.Marshal(functions)
			require.NoError(t, err)

			out := ParseToolDependencies(&Response{DependenciesResolved: encoded})
			info := out[tc.WantFunction][tc.WantCapability]
			assert.Equal(t, tc.WantAgentID, info.AgentID)
		})
	}
}
