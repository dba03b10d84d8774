// Package proxy implements C5, the proxy factory: remote call proxies
// (cross-process, §4.5.1), self-dependency proxies (in-process,
// §4.5.2), and the health check helper (§4.5.3).
package proxy

import "context"

// Proxy is the call-site-facing shape every proxy kind implements:
// an explicit call(args map) -> result operation (spec §9 "Dynamic
// dispatch / duck typing" design note), plus an attribute-chain builder
// for ergonomic nested calls.
type Proxy interface {
	Call(ctx context.Context, args map[string]any) (any, error)
	Chain(parts ...string) Proxy
	Close() error
}
