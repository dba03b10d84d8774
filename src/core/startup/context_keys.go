// Package startup implements C7, the one-shot initialization pipeline
// that runs when the debounce coordinator's timer fires (spec §4.7),
// grounded on original_source/.../pipeline/startup/startup_pipeline.py's
// StartupPipeline (six steps, three required) and heartbeat_loop.py's
// HeartbeatLoopStep (the heartbeat_config handoff to the HTTP server's
// lifespan).
package startup

// Pipeline context keys, matching spec §3 "Pipeline context" — the
// startup pipeline's steps read and write these by convention rather
// than a typed struct, the same loosely-keyed bag the source pipeline
// passes between steps.
const (
	KeyDecoratedTools  = "decorated_tools"
	KeyAgentConfig     = "agent_config"
	KeyAgentID         = "agent_id"
	KeyRegistryClient  = "registry_client"
	KeyHeartbeatPayload = "heartbeat_payload"
	KeyToolServer      = "tool_server"
	KeyHTTPServer      = "http_server"
	KeyHeartbeatConfig = "heartbeat_config"
)
