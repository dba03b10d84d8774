package httpserver

import (
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metricsRegistry mirrors r3e-network-service_layer's
// infrastructure/metrics pattern of a package-level registry with
// sync.Once-guarded registration, scaled down to the handful of gauges
// and counters an agent process needs (spec §11 domain stack: the
// teacher declares an EnablePrometheus flag but never wires a
// prometheus client; this fills that gap using the pack's own example).
var (
	metricsOnce sync.Once

	mcpRequestsTotal *prometheus.CounterVec
	mcpRequestErrors *prometheus.CounterVec
	toolCountGauge   prometheus.Gauge
	upGauge          prometheus.Gauge
)

func ensureMetrics() {
	metricsOnce.Do(func() {
		mcpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcp_mesh_tool_calls_total",
			Help: "Total number of /mcp tool invocations handled by this agent.",
		}, []string{"tool"})

		mcpRequestErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mcp_mesh_tool_call_errors_total",
			Help: "Total number of /mcp tool invocations that returned an error.",
		}, []string{"tool"})

		toolCountGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mcp_mesh_tools_registered",
			Help: "Number of tools currently routable through this agent's /mcp endpoint.",
		})

		upGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mcp_mesh_agent_up",
			Help: "1 if the agent HTTP server is serving requests.",
		})

		prometheus.MustRegister(mcpRequestsTotal, mcpRequestErrors, toolCountGauge, upGauge)
	})
}

func recordToolCall(tool string, failed bool) {
	ensureMetrics()
	mcpRequestsTotal.WithLabelValues(tool).Inc()
	if failed {
		mcpRequestErrors.WithLabelValues(tool).Inc()
	}
}

func (s *Server) handleMetrics(c *gin.Context) {
	ensureMetrics()
	toolCountGauge.Set(float64(s.toolCount()))
	upGauge.Set(1)
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}
