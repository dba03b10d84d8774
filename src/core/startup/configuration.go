package startup

import (
	"context"
	"os"

	"mcp-mesh-agent/src/core/config"
	"mcp-mesh-agent/src/core/decorator"
	"mcp-mesh-agent/src/core/identity"
	"mcp-mesh-agent/src/core/pipeline"
)

// ConfigurationStep derives agent_config from environment and
// decorator-declared agent metadata (spec §4.7 step 2), environment
// taking precedence over decorator values, which take precedence over
// built-in defaults — the exact precedence config.FromEnv already
// applies for env-vs-default; this step layers the decorator values in
// between.
type ConfigurationStep struct{}

func (s *ConfigurationStep) Name() string       { return "configuration" }
func (s *ConfigurationStep) Required() bool      { return true }
func (s *ConfigurationStep) Description() string { return "derive agent_config from environment and decorator metadata" }

func (s *ConfigurationStep) Execute(_ context.Context, pc *pipeline.Context) pipeline.Result {
	cfg := config.FromEnv()
	_, portFromEnv := os.LookupEnv("MCP_MESH_HTTP_PORT")

	if raw, ok := pc.Get("decorated_agents"); ok {
		if agents, ok := raw.(map[string]*decorator.Entry); ok {
			for _, entry := range agents {
				if entry.AgentMeta == nil {
					continue
				}
				meta := entry.AgentMeta
				if cfg.AgentName == "" && meta.AgentName != "" {
					cfg.AgentName = meta.AgentName
				}
				if meta.Version != "" && os.Getenv("MCP_MESH_AGENT_VERSION") == "" {
					cfg.Version = meta.Version
				}
				if len(meta.Tags) > 0 {
					cfg.Tags = meta.Tags
				}
				if meta.HTTPHost != "" && cfg.HTTPHost == "" {
					cfg.HTTPHost = meta.HTTPHost
				}
				if meta.HTTPPort != 0 && !portFromEnv {
					cfg.HTTPPort = meta.HTTPPort
				}
				break // exactly one agent identity per process (spec §3)
			}
		}
	}

	agentID := identity.Current()

	result := pipeline.NewResult("configuration resolved")
	result.AddContext(KeyAgentConfig, cfg)
	result.AddContext(KeyAgentID, agentID)
	return result
}
