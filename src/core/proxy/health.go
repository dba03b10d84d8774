package proxy

import (
	"context"
	"net/http"
	"time"
)

// DefaultHealthTimeout is the bounded timeout for health checks (spec
// §4.5.3, §5 "5s for health").
const DefaultHealthTimeout = 5 * time.Second

// Health issues GET {endpoint}/health and reports true iff HTTP 200
// (spec §4.5.3).
func Health(ctx context.Context, endpoint string) bool {
	callCtx, cancel := context.WithTimeout(ctx, DefaultHealthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, endpoint+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
