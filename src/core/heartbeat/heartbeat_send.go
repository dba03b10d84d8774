package heartbeat

import (
	"context"
	"time"

	"mcp-mesh-agent/src/core/pipeline"
	"mcp-mesh-agent/src/core/registryclient"
)

// HeartbeatSendStep posts the heartbeat and stores the response, which
// may be nil on failure — a missing response is itself meaningful
// downstream (spec §3 "a missing/failed heartbeat response means keep
// current wiring") rather than a pipeline failure in the required
// sense, so this step is declared optional and never fails the cycle.
type HeartbeatSendStep struct {
	AgentID string
	Payload registryclient.RequestMetadata
	Status  func() string // reports "healthy" or "degraded" (spec §4.8 "Resilience")
}

func (s *HeartbeatSendStep) Name() string       { return "heartbeat-send" }
func (s *HeartbeatSendStep) Required() bool      { return false }
func (s *HeartbeatSendStep) Description() string { return "POST heartbeat and store the response" }

func (s *HeartbeatSendStep) Execute(ctx context.Context, pc *pipeline.Context) pipeline.Result {
	result := pipeline.NewResult("heartbeat sent")

	raw, ok := pc.Get(keyClient)
	if !ok {
		result.Status = pipeline.StatusSkipped
		result.Message = "no registry client; skipping send"
		return result
	}
	client, ok := raw.(*registryclient.Client)
	if !ok {
		result.Status = pipeline.StatusSkipped
		result.Message = "registry client context value has unexpected type"
		return result
	}

	payload := s.Payload
	if s.Status != nil {
		payload.Status = s.Status()
	}

	req := &registryclient.Request{
		AgentID:   s.AgentID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Metadata:  payload,
	}

	resp, err := client.SendHeartbeat(ctx, req)
	if err != nil {
		result.Message = "heartbeat send failed: " + err.Error()
		result.AddError(err.Error())
		result.AddContext(keyResponse, (*registryclient.Response)(nil))
		return result
	}

	result.AddContext(keyResponse, resp)
	return result
}
