// Package mesh is the public surface agent authors import: mesh.Tool
// and mesh.Agent stand in for the Python runtime's @mesh.tool and
// @mesh.agent decorators (spec §4.1), grounded on
// original_source/.../mcp_mesh/decorators.py and
// original_source/.../mcp_mesh/pipeline/orchestrator.py's
// get_global_orchestrator()/start_runtime() pair. Go has no import-time
// decorator side effects, so Tool/Agent are ordinary function calls
// agent authors make from their own init() or main(), each one
// triggering the same debounced startup pipeline the Python decorators
// did implicitly.
package mesh

import (
	"context"
	"sync"
	"time"

	"mcp-mesh-agent/src/core/config"
	"mcp-mesh-agent/src/core/decorator"
	"mcp-mesh-agent/src/core/orchestrator"
)

// ToolFunc is the signature every mesh.Tool registration accepts.
type ToolFunc = decorator.ToolFunc

// Dependency is the object form of a dependency descriptor (spec §3).
// Use plain strings in Dependencies for the common case of "just the
// capability name" — see normalizeDependency.
type Dependency struct {
	Capability string
	Tags       []string
	Version    string
}

// ToolOptions describes a tool registration (spec §3 "Tools carry...").
type ToolOptions struct {
	Capability   string
	Version      string
	Tags         []string
	Dependencies []any // string (shorthand) or Dependency
}

// AgentOptions describes the single agent registration a process makes
// (spec §3 "Agents carry...").
type AgentOptions struct {
	AgentName   string
	Version     string
	Description string
	HTTPHost    string
	HTTPPort    int
	Tags        []string
}

var (
	once    sync.Once
	orch    *orchestrator.Orchestrator
	orchMu  sync.Mutex
)

// defaultOrchestrator returns the process-wide orchestrator, creating
// it on first use (spec §4.10, mirroring get_global_orchestrator()).
func defaultOrchestrator() *orchestrator.Orchestrator {
	once.Do(func() {
		cfg := config.FromEnv()
		orchMu.Lock()
		orch = orchestrator.New(cfg.AgentName, cfg.DebounceDelay)
		orchMu.Unlock()
	})
	return orch
}

// Tool registers functionName as a callable tool with capability
// metadata and declared dependencies (spec §4.1 "register_tool").
// Registration triggers the debounce coordinator (spec §4.1 "Side
// effect"); repeated calls during process startup collapse into a
// single pipeline run (spec §4.9).
func Tool(functionName string, fn ToolFunc, opts ToolOptions) error {
	deps := make([]decorator.Dependency, 0, len(opts.Dependencies))
	for _, d := range opts.Dependencies {
		deps = append(deps, normalizeDependency(d))
	}

	meta := decorator.ToolMetadata{
		FunctionName: functionName,
		Capability:   opts.Capability,
		Version:      opts.Version,
		Tags:         opts.Tags,
		Dependencies: deps,
	}

	return defaultOrchestrator().Store.RegisterTool(fn, meta)
}

// Agent registers the process's single agent identity (spec §4.1
// "register_agent"). Calling it more than once re-registers under the
// same agent name, supporting re-configuration in tests.
func Agent(opts AgentOptions) error {
	meta := decorator.AgentMetadata{
		AgentName:   opts.AgentName,
		Version:     opts.Version,
		Description: opts.Description,
		HTTPHost:    opts.HTTPHost,
		HTTPPort:    opts.HTTPPort,
		Tags:        opts.Tags,
	}
	return defaultOrchestrator().Store.RegisterAgent(meta)
}

// normalizeDependency accepts either a bare capability string or a
// Dependency object (spec §4.1 "string shorthand 'cap' becomes
// {capability: 'cap', tags: [], version_constraint: null}").
func normalizeDependency(d any) decorator.Dependency {
	switch v := d.(type) {
	case string:
		return decorator.Dependency{Capability: v}
	case Dependency:
		return decorator.Dependency{
			Capability:        v.Capability,
			Tags:              v.Tags,
			VersionConstraint: v.Version,
		}
	default:
		return decorator.Dependency{}
	}
}

// Start runs the startup pipeline once immediately (bypassing the
// debounce window) and then serves until ctx is cancelled (spec §4.10
// "start_service"). Agent authors call this from main() after all
// mesh.Tool/mesh.Agent registrations.
func Start(ctx context.Context) error {
	defaultOrchestrator().Debounce.Stop()
	cfg := config.FromEnv()
	return defaultOrchestrator().StartService(ctx, cfg)
}

// StartWithDebounce waits for the debounce window to elapse naturally
// instead of forcing an immediate run, useful when registrations may
// still be arriving from concurrently-initializing packages.
func StartWithDebounce(ctx context.Context, delay time.Duration) error {
	defaultOrchestrator().Debounce.Trigger()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay + 50*time.Millisecond):
	}
	cfg := config.FromEnv()
	return defaultOrchestrator().StartService(ctx, cfg)
}
