package startup

import (
	"mcp-mesh-agent/src/core/decorator"
	"mcp-mesh-agent/src/core/injector"
	"mcp-mesh-agent/src/core/pipeline"
)

// New builds the startup pipeline with its six steps in the order
// spec §4.7 fixes: collect, configure, prepare heartbeat, discover
// servers, connect, serve.
func New(store *decorator.Store, inj *injector.Injector) *pipeline.Pipeline {
	return pipeline.New("startup-pipeline",
		&DecoratorCollectionStep{Store: store},
		&ConfigurationStep{},
		&HeartbeatPreparationStep{},
		&ToolServerDiscoveryStep{Injector: inj},
		&RegistryConnectionStep{},
		&HTTPServerSetupStep{},
	)
}
