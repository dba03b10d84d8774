package heartbeat

import (
	"context"

	"mcp-mesh-agent/src/core/injector"
	"mcp-mesh-agent/src/core/pipeline"
	"mcp-mesh-agent/src/core/proxy"
	"mcp-mesh-agent/src/core/registryclient"
)

// DependencyResolutionStep parses the heartbeat response, fingerprints
// the resulting resolution state, and calls the injector's rewire
// protocol only when that fingerprint has changed (spec §4.8 step 3).
type DependencyResolutionStep struct {
	Injector       *injector.Injector
	CurrentAgentID string
}

func (s *DependencyResolutionStep) Name() string { return "dependency-resolution" }
func (s *DependencyResolutionStep) Required() bool { return false }
func (s *DependencyResolutionStep) Description() string {
	return "parse resolved dependencies and rewire the injector on change"
}

func (s *DependencyResolutionStep) Execute(ctx context.Context, pc *pipeline.Context) pipeline.Result {
	result := pipeline.NewResult("dependency resolution processed")

	raw, ok := pc.Get(keyResponse)
	if !ok {
		result.Message = "no heartbeat response in context"
		return result
	}
	resp, _ := raw.(*registryclient.Response)
	if resp == nil {
		// Missing/failed response: keep current wiring (spec §3 resilience
		// invariant), not an error.
		result.Message = "no heartbeat response - keeping existing wiring for resilience"
		return result
	}

	resolution := injector.Resolution(registryclient.ParseToolDependencies(resp))

	fingerprint := injector.Fingerprint(resolution)
	if fingerprint == s.Injector.LastFingerprint() {
		result.Message = "unchanged"
		return result
	}

	s.Injector.Rewire(ctx, resolution, s.CurrentAgentID, buildRemoteProxy, buildSelfProxy)
	s.Injector.SetLastFingerprint(fingerprint)

	result.AddContext("processed_dependencies", resolution)
	result.Message = "dependency resolution rewired"
	return result
}

func buildRemoteProxy(endpoint, functionName string) proxy.Proxy {
	return proxy.NewRemote(endpoint, functionName)
}

func buildSelfProxy(functionName string, original injector.CallFunc) proxy.Proxy {
	return proxy.NewSelf(functionName, original)
}
