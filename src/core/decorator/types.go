package decorator

import (
	"context"
	"time"
)

// Dependency is the normalized dependency descriptor of spec §3: every
// wire representation — bare string shorthand or full object — collapses
// to this shape before it is stored.
type Dependency struct {
	Capability        string   `json:"capability"`
	Tags              []string `json:"tags"`
	VersionConstraint string   `json:"version_constraint,omitempty"`
}

// ToolMetadata is the metadata bag carried by a tool registration.
type ToolMetadata struct {
	FunctionName string       `json:"function_name"`
	Capability   string       `json:"capability"`
	Version      string       `json:"version"`
	Tags         []string     `json:"tags"`
	Dependencies []Dependency `json:"dependencies"`
}

// ToolSummary is the trimmed view of a tool sent in agent metadata
// (spec §4.1 "Agents carry ... list of tool summaries").
type ToolSummary struct {
	FunctionName string   `json:"function_name"`
	Capability   string   `json:"capability"`
	Tags         []string `json:"tags"`
}

// AgentMetadata is the metadata bag carried by an agent registration.
type AgentMetadata struct {
	AgentName   string        `json:"agent_name"`
	Version     string        `json:"version"`
	Description string        `json:"description"`
	HTTPHost    string        `json:"http_host"`
	HTTPPort    int           `json:"http_port"`
	Tools       []ToolSummary `json:"tools"`
	Tags        []string      `json:"tags"`
}

// Kind distinguishes the two decorator-equivalent registration kinds.
type Kind string

const (
	KindTool  Kind = "tool"
	KindAgent Kind = "agent"
)

// ToolFunc is the shape every registered tool call-site conforms to:
// named keyword-style arguments in, a single result (or error) out. This
// mirrors the Python runtime's **kwargs convention closely enough that
// the injector can inject missing dependencies by name (spec §4.4). It
// carries a context.Context so the same value is directly assignable to
// injector.CallFunc once wrapped, without an adapter shim.
type ToolFunc func(ctx context.Context, args map[string]any) (any, error)

// Entry is a decorator-equivalent registration: keyed by function
// identity, carrying its kind, the callable, a metadata bag, and a
// registration timestamp (spec §3 "Decorator entry").
type Entry struct {
	Kind         Kind
	FunctionName string
	Tool         ToolFunc
	ToolMeta     *ToolMetadata
	AgentMeta    *AgentMetadata
	RegisteredAt time.Time
}
