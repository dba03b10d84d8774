package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"mcp-mesh-agent/src/core/meshkind"
)

// connPools shares one *http.Client (and therefore one connection pool)
// per endpoint, released when the last remote proxy for that endpoint
// closes (spec §4.5.1 "Concurrency").
var (
	poolMu sync.Mutex
	pools  = map[string]*pooledClient{}
)

type pooledClient struct {
	client    *http.Client
	refCount  int
}

func acquirePool(endpoint string) *pooledClient {
	poolMu.Lock()
	defer poolMu.Unlock()
	p, ok := pools[endpoint]
	if !ok {
		p = &pooledClient{
			client: &http.Client{
				Transport: &http.Transport{MaxIdleConnsPerHost: 8},
			},
		}
		pools[endpoint] = p
	}
	p.refCount++
	return p
}

func releasePool(endpoint string) {
	poolMu.Lock()
	defer poolMu.Unlock()
	p, ok := pools[endpoint]
	if !ok {
		return
	}
	p.refCount--
	if p.refCount <= 0 {
		if t, ok := p.client.Transport.(*http.Transport); ok {
			t.CloseIdleConnections()
		}
		delete(pools, endpoint)
	}
}

// DefaultCallTimeout is the default per-call timeout for tool
// invocations (spec §5 "30s default for tool calls").
const DefaultCallTimeout = 30 * time.Second

// toolCallRequest is the JSON-RPC-style request body posted to
// {endpoint}/mcp (spec §4.5.1, §6 "Tool invocation").
type toolCallRequest struct {
	Method string           `json:"method"`
	Params toolCallRequestP `json:"params"`
}

type toolCallRequestP struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type toolCallResponse struct {
	Content []toolCallContent `json:"content"`
	IsError bool              `json:"isError"`
}

type toolCallContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// RemoteProxy forwards calls to a provider agent's /mcp endpoint
// (spec §4.5.1).
type RemoteProxy struct {
	endpoint     string
	functionName string
	pool         *pooledClient
	timeout      time.Duration
	chain        []string
}

// NewRemote builds a proxy bound to (endpoint, functionName).
func NewRemote(endpoint, functionName string) *RemoteProxy {
	endpoint = strings.TrimRight(endpoint, "/")
	return &RemoteProxy{
		endpoint:     endpoint,
		functionName: functionName,
		pool:         acquirePool(endpoint),
		timeout:      DefaultCallTimeout,
	}
}

// WithTimeout overrides the per-call timeout (spec §4.5.1 step 2,
// "default 30s, configurable per call").
func (p *RemoteProxy) WithTimeout(d time.Duration) *RemoteProxy {
	p.timeout = d
	return p
}

// Chain returns a new proxy whose effective tool name is the chain
// joined with "_" (spec §4.5.1 "attribute chaining").
func (p *RemoteProxy) Chain(parts ...string) Proxy {
	joined := append(append([]string{}, p.chain...), parts...)
	return &RemoteProxy{
		endpoint:     p.endpoint,
		functionName: p.functionName,
		pool:         p.pool,
		timeout:      p.timeout,
		chain:        joined,
	}
}

func (p *RemoteProxy) effectiveName() string {
	if len(p.chain) == 0 {
		return p.functionName
	}
	return p.functionName + "_" + strings.Join(p.chain, "_")
}

// Call posts a tools/call request and parses the response (spec
// §4.5.1 steps 2-4).
func (p *RemoteProxy) Call(ctx context.Context, args map[string]any) (any, error) {
	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	reqBody, err := json.Marshal(toolCallRequest{
		Method: "tools/call",
		Params: toolCallRequestP{Name: p.effectiveName(), Arguments: args},
	})
	if err != nil {
		return nil, meshkind.Wrap(meshkind.Internal, "RemoteProxy.Call", err)
	}

	url := p.endpoint + "/mcp"
	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, meshkind.Wrap(meshkind.Internal, "RemoteProxy.Call", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.pool.client.Do(httpReq)
	if err != nil {
		return nil, meshkind.New(meshkind.Transport, "RemoteProxy.Call",
			fmt.Sprintf("call to %s at %s failed: %v", p.effectiveName(), p.endpoint, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, meshkind.New(meshkind.Transport, "RemoteProxy.Call",
			fmt.Sprintf("call to %s at %s returned HTTP %d", p.effectiveName(), p.endpoint, resp.StatusCode))
	}

	var parsed toolCallResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, meshkind.Wrap(meshkind.Protocol, "RemoteProxy.Call", err)
	}

	var text string
	if len(parsed.Content) > 0 {
		text = parsed.Content[0].Text
	}

	if parsed.IsError {
		return nil, meshkind.New(meshkind.Transport, "RemoteProxy.Call",
			fmt.Sprintf("%s at %s returned an error: %s", p.effectiveName(), p.endpoint, text))
	}

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err == nil {
		return decoded, nil
	}
	return text, nil
}

// Close releases this proxy's reference on the shared connection pool.
func (p *RemoteProxy) Close() error {
	releasePool(p.endpoint)
	return nil
}
