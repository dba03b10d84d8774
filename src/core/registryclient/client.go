// Package registryclient implements C3, the typed HTTP client for the
// register/heartbeat contract with the mesh registry (spec §4.3).
//
// Wire types mirror dhyansraj-mcp-mesh/src/core/registry/decorator_handlers.go's
// DecoratorAgentRequest/DecoratorAgentResponse (the registry's own
// producer/consumer types), which this client must interoperate with.
package registryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"mcp-mesh-agent/src/core/logger"
	"mcp-mesh-agent/src/core/meshkind"
)

const (
	registerPath  = "/agents/register_with_metadata"
	heartbeatPath = "/heartbeat"
	agentsPath    = "/agents"
)

// Client is a typed HTTP client for the registry's register/heartbeat
// endpoints (spec §4.3).
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint
	log        *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client (used in tests
// to point at an httptest.Server without touching the environment).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMaxRetries bounds the number of within-call retry attempts for
// transient errors (spec §4.3 "bounded exponential backoff ... up to a
// configured retry count").
func WithMaxRetries(n uint) Option {
	return func(c *Client) { c.maxRetries = n }
}

// New creates a registry client bound to baseURL (spec §6
// MCP_MESH_REGISTRY_URL).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: 3,
		log:        logger.New("registryclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases resources held by the client's transport.
func (c *Client) Close() error {
	if transport, ok := c.httpClient.Transport.(*http.Transport); ok {
		transport.CloseIdleConnections()
	}
	return nil
}

// Register posts the agent's initial registration (spec §4.3
// register()).
func (c *Client) Register(ctx context.Context, req *Request) (*Response, error) {
	return c.postWithRetry(ctx, registerPath, req)
}

// SendHeartbeat posts a periodic heartbeat (spec §4.3 send_heartbeat()).
func (c *Client) SendHeartbeat(ctx context.Context, req *Request) (*Response, error) {
	return c.postWithRetry(ctx, heartbeatPath, req)
}

// GetAgent is a diagnostic lookup of a single agent (spec §4.3).
func (c *Client) GetAgent(ctx context.Context, agentID string) (*AgentInfo, error) {
	agents, err := c.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range agents {
		if a.AgentID == agentID {
			return &a, nil
		}
	}
	return nil, nil
}

// ListAgents is a diagnostic listing of all agents known to the
// registry (spec §4.3).
func (c *Client) ListAgents(ctx context.Context) ([]AgentInfo, error) {
	url := c.baseURL + agentsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, meshkind.Wrap(meshkind.Internal, "ListAgents", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, meshkind.Wrap(meshkind.Transport, "ListAgents", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 500 {
		return nil, meshkind.New(meshkind.Transport, "ListAgents", fmt.Sprintf("registry returned %d", resp.StatusCode))
	}
	if resp.StatusCode >= 400 {
		return nil, meshkind.New(meshkind.Protocol, "ListAgents", fmt.Sprintf("registry error %d: %s", resp.StatusCode, string(body)))
	}

	var agents []AgentInfo
	if err := json.Unmarshal(body, &agents); err != nil {
		return nil, meshkind.Wrap(meshkind.Protocol, "ListAgents", err)
	}
	return agents, nil
}

// postWithRetry posts req to path, retrying transient failures with
// bounded exponential backoff and jitter within this single call (spec
// §4.3 "Failure policy"). Network errors, timeouts, and 5xx responses
// are retried up to maxRetries times; a 4xx response is never retried
// and is returned immediately as a Protocol-kind error carrying the
// server's message.
func (c *Client) postWithRetry(ctx context.Context, path string, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, meshkind.Wrap(meshkind.Internal, "postWithRetry", err)
	}

	url := c.baseURL + path

	operation := func() (*Response, error) {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, backoff.Permanent(meshkind.Wrap(meshkind.Internal, path, err))
		}
		httpReq.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, meshkind.Wrap(meshkind.Transport, path, err)
		}
		defer resp.Body.Close()

		respBody, _ := io.ReadAll(resp.Body)

		if resp.StatusCode >= 500 {
			return nil, meshkind.New(meshkind.Transport, path, fmt.Sprintf("registry returned %d", resp.StatusCode))
		}
		if resp.StatusCode >= 400 {
			return nil, backoff.Permanent(meshkind.New(meshkind.Protocol, path,
				fmt.Sprintf("registry rejected request (%d): %s", resp.StatusCode, string(respBody))))
		}

		var parsed Response
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			return nil, backoff.Permanent(meshkind.Wrap(meshkind.Protocol, path, err))
		}
		return &parsed, nil
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.maxRetries+1),
	)
	if err != nil {
		c.log.Warning("registry call to %s failed after retries: %v", path, err)
		return nil, err
	}
	return result, nil
}
