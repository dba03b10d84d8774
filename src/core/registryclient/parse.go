package registryclient

import (
	"encoding/json"

	"mcp-mesh-agent/src/core/logger"
)

var parseLog = logger.New("registryclient")

// ParseToolDependencies normalizes either wire shape of
// dependencies_resolved into function_name -> capability -> DepInfo
// (spec §4.3 "parse_tool_dependencies helper", spec §6).
func ParseToolDependencies(resp *Response) map[string]map[string]DepInfo {
	out := make(map[string]map[string]DepInfo)
	if resp == nil || len(resp.DependenciesResolved) == 0 {
		return out
	}

	raw := resp.DependenciesResolved

	var asList []ResolvedFunction
	if err := json.Unmarshal(raw, &asList); err == nil {
		for _, fn := range asList {
			perCap := make(map[string]DepInfo, len(fn.Dependencies))
			for _, dep := range fn.Dependencies {
				info := DepInfo{Status: dep.Status}
				if dep.MCPToolInfo != nil {
					info.Endpoint = dep.MCPToolInfo.Endpoint
					info.FunctionName = dep.MCPToolInfo.Name
					info.AgentID = dep.MCPToolInfo.AgentID
				}
				perCap[dep.Capability] = info
			}
			out[fn.FunctionName] = perCap
		}
		return out
	}

	var asFlatMap map[string]LegacyFlatEntry
	if err := json.Unmarshal(raw, &asFlatMap); err == nil {
		parseLog.Warning("dependencies_resolved used the legacy flat-map shape; this shape is deprecated")
		perCap := make(map[string]DepInfo, len(asFlatMap))
		for capability, entry := range asFlatMap {
			perCap[capability] = DepInfo{
				Endpoint:     entry.Endpoint,
				FunctionName: entry.FunctionName,
				Status:       entry.Status,
				AgentID:      entry.AgentID,
			}
		}
		out[legacyToolFunctionName] = perCap
		return out
	}

	parseLog.Error("dependencies_resolved matched neither known shape, treating as no resolution")
	return out
}
