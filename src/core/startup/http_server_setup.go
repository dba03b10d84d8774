package startup

import (
	"context"
	"strconv"
	"time"

	"mcp-mesh-agent/src/core/config"
	"mcp-mesh-agent/src/core/httpserver"
	"mcp-mesh-agent/src/core/pipeline"
	"mcp-mesh-agent/src/core/registryclient"
)

// HeartbeatConfig is handed to the server's lifespan so it can launch
// the heartbeat pipeline (C8) once the HTTP listener is up (spec §4.7
// step 6 "Attach the heartbeat configuration {client, agent_id,
// interval, context}"), grounded on
// original_source/.../pipeline/startup/heartbeat_loop.py's
// heartbeat_config dict.
type HeartbeatConfig struct {
	Client   *registryclient.Client
	AgentID  string
	Interval time.Duration
	Context  *pipeline.Context
}

// HTTPServerSetupStep creates the HTTP server and wires the heartbeat
// configuration it will need at lifespan start (spec §4.7 step 6). If
// MCP_MESH_HTTP_ENABLED=false this step is SKIPPED; the agent then has
// no external endpoint and any dependency resolution pointing at it
// will report it as unavailable (spec §4.7 step 6, last sentence).
type HTTPServerSetupStep struct{}

func (s *HTTPServerSetupStep) Name() string       { return "http-server-setup" }
func (s *HTTPServerSetupStep) Required() bool      { return false }
func (s *HTTPServerSetupStep) Description() string { return "create the HTTP server and attach heartbeat configuration" }

func (s *HTTPServerSetupStep) Execute(_ context.Context, pc *pipeline.Context) pipeline.Result {
	result := pipeline.NewResult("http server created")

	cfgRaw, _ := pc.Get(KeyAgentConfig)
	cfg, _ := cfgRaw.(*config.AgentConfig)
	if cfg == nil || !cfg.HTTPEnabled {
		result.Status = pipeline.StatusSkipped
		result.Message = "MCP_MESH_HTTP_ENABLED=false; agent has no external endpoint"
		return result
	}

	agentIDRaw, _ := pc.Get(KeyAgentID)
	agentID, _ := agentIDRaw.(string)

	var table httpserver.ToolTable
	if raw, ok := pc.Get(KeyToolServer); ok {
		table, _ = raw.(httpserver.ToolTable)
	}

	server := httpserver.New(agentID, table)
	if err := server.Listen(config.BindHost(), cfg.HTTPPort); err != nil {
		result.Status = pipeline.StatusFailed
		result.Message = "failed to bind HTTP listener: " + err.Error()
		result.AddError(err.Error())
		return result
	}

	var client *registryclient.Client
	if raw, ok := pc.Get(KeyRegistryClient); ok {
		client, _ = raw.(*registryclient.Client)
	}

	heartbeatCfg := &HeartbeatConfig{
		Client:   client,
		AgentID:  agentID,
		Interval: cfg.HeartbeatInterval,
		Context:  pc,
	}

	result.AddContext(KeyHTTPServer, server)
	result.AddContext(KeyHeartbeatConfig, heartbeatCfg)
	result.Message = "http server listening on port " + strconv.Itoa(server.Port())
	return result
}
