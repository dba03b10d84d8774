package registryclient

import "encoding/json"

// DependencyWire is the wire shape of a dependency descriptor inside a
// heartbeat/register request (spec §6): the constraint travels under
// the JSON key "version", distinct from the internal data model's
// "version_constraint" key (spec §3).
type DependencyWire struct {
	Capability string   `json:"capability"`
	Tags       []string `json:"tags,omitempty"`
	Version    string   `json:"version,omitempty"`
}

// DecoratorWire is one tool's entry inside metadata.decorators.
type DecoratorWire struct {
	FunctionName string           `json:"function_name"`
	Capability   string           `json:"capability"`
	Version      string           `json:"version"`
	Tags         []string         `json:"tags"`
	Dependencies []DependencyWire `json:"dependencies"`
}

// RequestMetadata is the metadata object common to register/heartbeat
// requests (spec §6).
type RequestMetadata struct {
	Name          string          `json:"name"`
	AgentType     string          `json:"agent_type"`
	Namespace     string          `json:"namespace"`
	Endpoint      string          `json:"endpoint"`
	Status        string          `json:"status,omitempty"`
	Capabilities  []string        `json:"capabilities,omitempty"`
	UptimeSeconds int64           `json:"uptime_seconds,omitempty"`
	Version       string          `json:"version"`
	Decorators    []DecoratorWire `json:"decorators"`
}

// Request is the shape posted to both /agents/register_with_metadata
// and /heartbeat (spec §6).
type Request struct {
	AgentID   string          `json:"agent_id"`
	Timestamp string          `json:"timestamp"`
	Metadata  RequestMetadata `json:"metadata"`
}

// MCPToolInfo identifies the resolved provider of a dependency.
type MCPToolInfo struct {
	AgentID string `json:"agent_id"`
	Endpoint string `json:"endpoint"`
	Name    string `json:"name"`
}

// ResolvedDependency is one entry in the per-function dependency list
// shape of dependencies_resolved (spec §6).
type ResolvedDependency struct {
	Capability  string       `json:"capability"`
	Status      string       `json:"status"`
	MCPToolInfo *MCPToolInfo `json:"mcp_tool_info,omitempty"`
}

// ResolvedFunction is one function's resolved dependencies.
type ResolvedFunction struct {
	FunctionName string               `json:"function_name"`
	Capability   string               `json:"capability"`
	Dependencies []ResolvedDependency `json:"dependencies"`
}

// LegacyFlatEntry is one entry of the legacy flat-map shape of
// dependencies_resolved (spec §6): capability -> provider info.
type LegacyFlatEntry struct {
	AgentID      string `json:"agent_id"`
	Endpoint     string `json:"endpoint"`
	FunctionName string `json:"function_name"`
	Status       string `json:"status"`
}

// legacyToolFunctionName is the synthetic function key the legacy flat
// shape is normalized under (spec §6).
const legacyToolFunctionName = "legacy_tool"

// Response is the shape returned by both /agents/register_with_metadata
// and /heartbeat. DependenciesResolved is left raw because it may be
// either a JSON array (per-function shape) or a JSON object (legacy flat
// shape); ParseToolDependencies distinguishes the two (spec §6).
type Response struct {
	AgentID              string          `json:"agent_id"`
	Status               string          `json:"status"`
	Message              string          `json:"message,omitempty"`
	Timestamp            string          `json:"timestamp"`
	DependenciesResolved json.RawMessage `json:"dependencies_resolved,omitempty"`
}

// DepInfo is the normalized per-capability resolution record the rest
// of the runtime (the injector) consumes, regardless of which wire
// shape it arrived in.
type DepInfo struct {
	Endpoint     string
	FunctionName string
	Status       string
	AgentID      string
}

// AgentInfo is the diagnostic view returned by GetAgent/ListAgents.
type AgentInfo struct {
	AgentID  string `json:"agent_id"`
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Status   string `json:"status"`
}
