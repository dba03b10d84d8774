package startup

import (
	"context"
	"strconv"

	"mcp-mesh-agent/src/core/config"
	"mcp-mesh-agent/src/core/decorator"
	"mcp-mesh-agent/src/core/pipeline"
	"mcp-mesh-agent/src/core/registryclient"
)

// HeartbeatPreparationStep builds the static portion of the heartbeat
// payload — the parts that don't change cycle to cycle — once at
// startup rather than re-deriving it on every tick (spec §4.7 step 3).
type HeartbeatPreparationStep struct{}

func (s *HeartbeatPreparationStep) Name() string       { return "heartbeat-preparation" }
func (s *HeartbeatPreparationStep) Required() bool      { return true }
func (s *HeartbeatPreparationStep) Description() string { return "build the static portion of the heartbeat payload" }

func (s *HeartbeatPreparationStep) Execute(_ context.Context, pc *pipeline.Context) pipeline.Result {
	result := pipeline.NewResult("heartbeat payload prepared")

	agentID, _ := pc.Get(KeyAgentID)
	agentIDStr, _ := agentID.(string)

	cfg, _ := pc.Get(KeyAgentConfig)
	agentCfg, _ := cfg.(*config.AgentConfig)

	var decorators []registryclient.DecoratorWire
	if raw, ok := pc.Get(KeyDecoratedTools); ok {
		if tools, ok := raw.(map[string]*decorator.Entry); ok {
			for _, entry := range tools {
				if entry.ToolMeta == nil {
					continue
				}
				decorators = append(decorators, toDecoratorWire(*entry.ToolMeta))
			}
		}
	}

	metadata := registryclient.RequestMetadata{
		Name:       agentIDStr,
		AgentType:  "mesh-agent",
		Decorators: decorators,
	}
	if agentCfg != nil {
		metadata.Version = agentCfg.Version
		metadata.Capabilities = capabilitiesOf(decorators)
	}

	result.AddContext(KeyHeartbeatPayload, metadata)
	result.Message = "prepared heartbeat payload with " + strconv.Itoa(len(decorators)) + " tool(s)"
	return result
}

func toDecoratorWire(meta decorator.ToolMetadata) registryclient.DecoratorWire {
	deps := make([]registryclient.DependencyWire, 0, len(meta.Dependencies))
	for _, d := range meta.Dependencies {
		deps = append(deps, registryclient.DependencyWire{
			Capability: d.Capability,
			Tags:       d.Tags,
			Version:    d.VersionConstraint,
		})
	}
	return registryclient.DecoratorWire{
		FunctionName: meta.FunctionName,
		Capability:   meta.Capability,
		Version:      meta.Version,
		Tags:         meta.Tags,
		Dependencies: deps,
	}
}

func capabilitiesOf(decorators []registryclient.DecoratorWire) []string {
	caps := make([]string, 0, len(decorators))
	for _, d := range decorators {
		caps = append(caps, d.Capability)
	}
	return caps
}

