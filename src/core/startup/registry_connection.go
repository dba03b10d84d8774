package startup

import (
	"context"

	"mcp-mesh-agent/src/core/config"
	"mcp-mesh-agent/src/core/pipeline"
	"mcp-mesh-agent/src/core/registryclient"
)

// RegistryConnectionStep constructs the registry client from
// MCP_MESH_REGISTRY_URL (spec §4.7 step 5). Connection here means
// constructing the client value, not a network round trip — the first
// real contact with the registry is the heartbeat pipeline's
// HeartbeatSend step; a registry that is merely unreachable is
// discovered there; this step only fails on unusable configuration.
type RegistryConnectionStep struct{}

func (s *RegistryConnectionStep) Name() string       { return "registry-connection" }
func (s *RegistryConnectionStep) Required() bool      { return false }
func (s *RegistryConnectionStep) Description() string { return "construct the registry client" }

func (s *RegistryConnectionStep) Execute(_ context.Context, pc *pipeline.Context) pipeline.Result {
	result := pipeline.NewResult("registry client constructed")

	cfgRaw, _ := pc.Get(KeyAgentConfig)
	cfg, ok := cfgRaw.(*config.AgentConfig)
	if !ok || cfg.RegistryURL == "" {
		result.Status = pipeline.StatusSkipped
		result.Message = "no registry URL configured; agent running in standalone mode"
		return result
	}

	client := registryclient.New(cfg.RegistryURL)
	result.AddContext(KeyRegistryClient, client)
	return result
}
