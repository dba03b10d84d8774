// Package heartbeat implements C8, the periodic pipeline that sends a
// heartbeat and reconciles dependency wiring (spec §4.8), grounded on
// original_source/.../pipeline/heartbeat/dependency_resolution.py and
// lifespan_integration.py's heartbeat_lifespan_task loop.
package heartbeat

import (
	"context"

	"mcp-mesh-agent/src/core/pipeline"
	"mcp-mesh-agent/src/core/registryclient"
)

const (
	keyClient   = "registry_client"
	keyResponse = "heartbeat_response"
)

// RegistryConnectionStep reuses the client prepared at startup (spec
// §4.8 step 1). If none was ever constructed — the agent started in
// standalone mode — the whole cycle is SKIPPED and current wiring is
// left untouched (spec §3 invariants, resilience rule).
type RegistryConnectionStep struct {
	Client *registryclient.Client
}

func (s *RegistryConnectionStep) Name() string       { return "registry-connection" }
func (s *RegistryConnectionStep) Required() bool      { return false }
func (s *RegistryConnectionStep) Description() string { return "reuse or reconnect the registry client" }

func (s *RegistryConnectionStep) Execute(_ context.Context, pc *pipeline.Context) pipeline.Result {
	result := pipeline.NewResult("registry client available")
	if s.Client == nil {
		result.Status = pipeline.StatusSkipped
		result.Message = "no registry client configured; standalone mode, keeping current wiring"
		return result
	}
	result.AddContext(keyClient, s.Client)
	return result
}
