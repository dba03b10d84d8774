package heartbeat

import (
	"mcp-mesh-agent/src/core/injector"
	"mcp-mesh-agent/src/core/pipeline"
	"mcp-mesh-agent/src/core/registryclient"
)

// New builds the heartbeat pipeline with its three steps in the order
// spec §4.8 fixes: connect, send, resolve.
func New(client *registryclient.Client, agentID string, payload registryclient.RequestMetadata, status func() string, inj *injector.Injector) *pipeline.Pipeline {
	return pipeline.New("heartbeat-pipeline",
		&RegistryConnectionStep{Client: client},
		&HeartbeatSendStep{AgentID: agentID, Payload: payload, Status: status},
		&DependencyResolutionStep{Injector: inj, CurrentAgentID: agentID},
	)
}
