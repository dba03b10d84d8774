package proxy

import (
	"context"
	"sync"

	"mcp-mesh-agent/src/core/logger"
)

var selfWarnOnce sync.Once

// SelfProxy calls the original function directly, bypassing the network
// entirely (spec §4.5.2). Used when a dependency resolves to the
// current agent's own agent_id — calling over HTTP in that case can
// deadlock a single-threaded event loop waiting on itself.
type SelfProxy struct {
	functionName string
	original     func(ctx context.Context, args map[string]any) (any, error)
	chain        []string
}

// NewSelf builds a self-dependency proxy around original, emitting a
// process-wide one-time warning the first time any self proxy is
// constructed (spec §4.5.2).
func NewSelf(functionName string, original func(ctx context.Context, args map[string]any) (any, error)) *SelfProxy {
	selfWarnOnce.Do(func() {
		logger.New("proxy").Warning(
			"self-dependency detected: calling %s in-process; self-dependencies are bypassed over HTTP to avoid deadlock",
			functionName,
		)
	})
	return &SelfProxy{functionName: functionName, original: original}
}

// Chain is accepted for interface conformance; self proxies have no
// sub-tool addressing since they call a single known local function.
func (p *SelfProxy) Chain(parts ...string) Proxy {
	joined := append(append([]string{}, p.chain...), parts...)
	return &SelfProxy{functionName: p.functionName, original: p.original, chain: joined}
}

// Call invokes the original function directly.
func (p *SelfProxy) Call(ctx context.Context, args map[string]any) (any, error) {
	return p.original(ctx, args)
}

// Close is a no-op: a self proxy owns no network resource.
func (p *SelfProxy) Close() error { return nil }
