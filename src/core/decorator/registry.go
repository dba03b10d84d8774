// Package decorator implements C1, the process-wide store of tool and
// agent metadata captured at load time (spec §4.1), grounded on
// original_source/.../mcp_mesh/decorator_registry.py's DecoratorRegistry.
//
// Go has no decorators; a registration call from pkg/mesh stands in for
// what the Python runtime does implicitly when a @mesh.tool-decorated
// function is imported. Each registration still triggers the debounce
// coordinator (spec §4.1 "Side effect").
package decorator

import (
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"

	"mcp-mesh-agent/src/core/meshkind"
)

// Trigger is called after every successful registration, standing in
// for the Python runtime's debounce hook. Tests may swap it out; the
// orchestrator wires it to the real debounce coordinator at startup.
type Trigger func()

// Store is the thread-safe, append-mostly registry of tool and agent
// entries (spec §3 "append-mostly; clearing is only permitted from test
// harnesses").
type Store struct {
	mu      sync.RWMutex
	tools   map[string]*Entry
	agents  map[string]*Entry
	trigger Trigger
}

// New creates an empty store. trigger may be nil, in which case
// registrations are silent (used in unit tests of the store itself).
func New(trigger Trigger) *Store {
	return &Store{
		tools:   make(map[string]*Entry),
		agents:  make(map[string]*Entry),
		trigger: trigger,
	}
}

// SetTrigger wires (or rewires) the debounce hook after construction,
// useful when the store is built before the coordinator exists.
func (s *Store) SetTrigger(t Trigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trigger = t
}

// RegisterTool validates and stores a tool registration. Duplicate
// function names are a hard error (spec §4.1).
func (s *Store) RegisterTool(fn ToolFunc, meta ToolMetadata) error {
	normalized, err := normalizeToolMetadata(meta)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if _, exists := s.tools[normalized.FunctionName]; exists {
		s.mu.Unlock()
		return meshkind.New(meshkind.Validation, "RegisterTool",
			fmt.Sprintf("duplicate function_name %q", normalized.FunctionName))
	}
	s.tools[normalized.FunctionName] = &Entry{
		Kind:         KindTool,
		FunctionName: normalized.FunctionName,
		Tool:         fn,
		ToolMeta:     &normalized,
		RegisteredAt: time.Now().UTC(),
	}
	trigger := s.trigger
	s.mu.Unlock()

	if trigger != nil {
		trigger()
	}
	return nil
}

// RegisterAgent validates and stores an agent registration, keyed by
// agent name (one agent declaration per process in practice, but the
// store permits re-registration to support re-configuration in tests).
func (s *Store) RegisterAgent(meta AgentMetadata) error {
	if err := validateAgentMetadata(meta); err != nil {
		return err
	}

	s.mu.Lock()
	s.agents[meta.AgentName] = &Entry{
		Kind:         KindAgent,
		FunctionName: meta.AgentName,
		AgentMeta:    &meta,
		RegisteredAt: time.Now().UTC(),
	}
	trigger := s.trigger
	s.mu.Unlock()

	if trigger != nil {
		trigger()
	}
	return nil
}

// GetTools returns a snapshot copy of all registered tools.
func (s *Store) GetTools() map[string]*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*Entry, len(s.tools))
	for k, v := range s.tools {
		out[k] = v
	}
	return out
}

// GetAgents returns a snapshot copy of all registered agents.
func (s *Store) GetAgents() map[string]*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*Entry, len(s.agents))
	for k, v := range s.agents {
		out[k] = v
	}
	return out
}

// Clear removes all entries. Sanctioned only from test harnesses
// (spec §3, §5).
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools = make(map[string]*Entry)
	s.agents = make(map[string]*Entry)
}

// Stats returns per-kind counts plus a "total" entry, supplementing
// spec.md with decorator_registry.py's get_stats() behavior.
func (s *Store) Stats() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := map[string]int{
		"tool":  len(s.tools),
		"agent": len(s.agents),
	}
	stats["total"] = stats["tool"] + stats["agent"]
	return stats
}

func normalizeToolMetadata(meta ToolMetadata) (ToolMetadata, error) {
	if meta.FunctionName == "" {
		return meta, meshkind.New(meshkind.Validation, "RegisterTool", "function_name must be non-empty")
	}
	if meta.Capability == "" {
		return meta, meshkind.New(meshkind.Validation, "RegisterTool", "capability must be a non-empty string")
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	deps := make([]Dependency, 0, len(meta.Dependencies))
	for _, d := range meta.Dependencies {
		normalized, err := normalizeDependency(d)
		if err != nil {
			return meta, err
		}
		deps = append(deps, normalized)
	}
	meta.Dependencies = deps
	return meta, nil
}

// normalizeDependency validates a dependency descriptor already in
// object form. String-shorthand normalization (spec §4.1 "string
// shorthand 'cap' becomes {...}") happens in pkg/mesh, the layer that
// accepts either wire shape from agent authors; by the time an entry
// reaches the store it is always an object.
func normalizeDependency(d Dependency) (Dependency, error) {
	if d.Capability == "" {
		return d, meshkind.New(meshkind.Validation, "normalizeDependency", "dependency capability must be non-empty")
	}
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if d.VersionConstraint != "" {
		if _, err := semver.NewConstraint(d.VersionConstraint); err != nil {
			return d, meshkind.Wrap(meshkind.Validation, "normalizeDependency", err)
		}
	}
	return d, nil
}

func validateAgentMetadata(meta AgentMetadata) error {
	if meta.AgentName == "" {
		return meshkind.New(meshkind.Validation, "RegisterAgent", "agent_name must be non-empty")
	}
	if meta.HTTPPort < 0 || meta.HTTPPort > 65535 {
		return meshkind.New(meshkind.Validation, "RegisterAgent",
			fmt.Sprintf("http_port %d out of range [0, 65535]", meta.HTTPPort))
	}
	return nil
}
