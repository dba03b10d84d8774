package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// mcpRequest mirrors the JSON-RPC-style tool invocation shape of spec
// §4.5.1 / §6.
type mcpRequest struct {
	Method string `json:"method"`
	Params struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

type mcpContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type mcpResponse struct {
	Content []mcpContent `json:"content"`
	IsError bool         `json:"isError"`
}

// handleMCP dispatches a tool invocation to the registered (possibly
// dependency-wrapped) function (spec §4.6 "/mcp handler").
func (s *Server) handleMCP(c *gin.Context) {
	var req mcpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, mcpResponse{
			IsError: true,
			Content: []mcpContent{{Type: "text", Text: "invalid request: " + err.Error()}},
		})
		return
	}

	s.mu.RLock()
	fn, ok := s.tools[req.Params.Name]
	s.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusNotFound, mcpResponse{
			IsError: true,
			Content: []mcpContent{{Type: "text", Text: "unknown tool: " + req.Params.Name}},
		})
		return
	}

	result, err := fn(c.Request.Context(), req.Params.Arguments)
	if err != nil {
		recordToolCall(req.Params.Name, true)
		c.JSON(http.StatusOK, mcpResponse{
			IsError: true,
			Content: []mcpContent{{Type: "text", Text: err.Error()}},
		})
		return
	}

	recordToolCall(req.Params.Name, false)
	encoded, encErr := json.Marshal(result)
	text := ""
	if encErr == nil {
		text = string(encoded)
	}
	c.JSON(http.StatusOK, mcpResponse{
		IsError: false,
		Content: []mcpContent{{Type: "text", Text: text}},
	})
}

// handleHealth always reports healthy while the process is up (spec
// §4.6 "/health", "/livez").
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"agent":     s.agentID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady reports readiness based on whether any tools are
// registered (spec §4.6 "/ready").
func (s *Server) handleReady(c *gin.Context) {
	count := s.toolCount()
	c.JSON(http.StatusOK, gin.H{
		"ready":      count > 0,
		"agent":      s.agentID,
		"tool_count": count,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleDocs(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(redocHTML("/openapi.json")))
}

func (s *Server) handleRedoc(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(redocHTML("/openapi.json")))
}

func redocHTML(specURL string) string {
	return `<!DOCTYPE html><html><head><title>mcp-mesh-agent</title></head>` +
		`<body><redoc spec-url="` + specURL + `"></redoc>` +
		`<script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>` +
		`</body></html>`
}
